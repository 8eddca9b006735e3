package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given the embedded site registered on a router", t, func() {
		r := chi.NewRouter()
		Register(context.Background(), r)

		Convey("Then / should serve the shell", func() {
			w := serve(r, http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "Talent Portal")
		})

		Convey("And assets should be served as files", func() {
			w := serve(r, http.MethodGet, "/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/api/profile")
		})

		Convey("And unknown client routes should fall back to index.html", func() {
			w := serve(r, http.MethodGet, "/team")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `<main id="view">`)

			w = serve(r, http.MethodGet, "/career/deep/link")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `<main id="view">`)
		})

		Convey("And non-GET requests should be rejected", func() {
			w := serve(r, http.MethodPost, "/")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSiteStaticDir(t *testing.T) {
	Convey("Given a static directory on disk", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>custom shell</html>"), 0o600), ShouldBeNil)

		r := chi.NewRouter()
		Register(context.Background(), r, WithDir(dir))

		Convey("Then it should be served instead of the embedded copy", func() {
			w := serve(r, http.MethodGet, "/anything")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "custom shell")
		})
	})

	Convey("Given a static directory that does not exist", t, func() {
		fsys := FS(filepath.Join(t.TempDir(), "missing"))

		Convey("Then the embedded shell should be used", func() {
			w := serve(Handler(fsys), http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Talent Portal")
		})
	})
}

func TestSiteRegisterWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		Convey("Then Register should panic", func() {
			So(func() { Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
