package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/talentportal/internal/adapters/http/api"
	"github.com/okian/talentportal/internal/adapters/remote"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/adapters/repository/repotest"
	service "github.com/okian/talentportal/internal/app"
	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newServer runs the real API over a fresh memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	svc := service.New(repository.NewMemoryStore(ctx), service.WithWorkerCount(1))
	require.NoError(t, svc.Start(ctx))
	ts := httptest.NewServer(api.NewServer(svc, svc).Handler(ctx))
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return ts
}

func TestClientContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		return remote.New(newServer(t).URL)
	})
}

func TestClientErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, repository.ErrNotFound},
		{"unavailable", http.StatusServiceUnavailable, repository.ErrStoreUnavailable},
		{"bad request", http.StatusBadRequest, remote.ErrTransport},
		{"server error", http.StatusInternalServerError, remote.ErrTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"from server"}`))
			}))
			defer ts.Close()

			c := remote.New(ts.URL)
			_, err := c.AwardKudos(context.Background(), "tm1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Contains(t, err.Error(), "from server")
		})
	}
}

func TestClientTransportFailures(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		_, err := remote.New(url).GetProfile(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, remote.ErrTransport)
	})

	t.Run("undecodable body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer ts.Close()

		_, err := remote.New(ts.URL).GetTeam(context.Background())
		assert.ErrorIs(t, err, remote.ErrTransport)
	})

	t.Run("timeout", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer ts.Close()

		_, err := remote.New(ts.URL, remote.WithTimeout(50*time.Millisecond)).GetPersonas(context.Background())
		assert.ErrorIs(t, err, remote.ErrTransport)
	})
}

func TestClientIdempotencyKeys(t *testing.T) {
	ts := newServer(t)

	var n atomic.Int32
	fixed := remote.New(ts.URL, remote.WithIdempotencyKeys(func() string {
		n.Add(1)
		return "same-key"
	}))

	first, err := fixed.AwardKudos(context.Background(), "tm2")
	require.NoError(t, err)
	second, err := fixed.AwardKudos(context.Background(), "tm2")
	require.NoError(t, err)

	// The server replays the first response for a repeated key.
	assert.Equal(t, first, second)
	assert.Equal(t, model.KudosResult{Success: true, NewCount: 3}, first)
	assert.EqualValues(t, 2, n.Load())

	// Fresh keys per call are the default.
	fresh := remote.New(ts.URL)
	r, err := fresh.AwardKudos(context.Background(), "tm2")
	require.NoError(t, err)
	assert.Equal(t, 4, r.NewCount)
}

func TestClientFeedbackRoundTrip(t *testing.T) {
	c := remote.New(newServer(t).URL + "/")
	content := "Shipped early"
	sentiment := "Positive"

	fb, err := c.RegisterFeedback(context.Background(), "tm4", model.FeedbackInput{
		Content:   &content,
		Sentiment: &sentiment,
	})
	require.NoError(t, err)
	assert.Equal(t, "Shipped early", fb.Content)
	assert.Equal(t, "Received", fb.Status)

	team, err := c.GetTeam(context.Background())
	require.NoError(t, err)
	i := model.FindMember(team, "tm4")
	require.GreaterOrEqual(t, i, 0)
	got := team[i].Feedbacks
	assert.Equal(t, fb.ID, got[len(got)-1].ID)
}

func TestClientActivity(t *testing.T) {
	ts := newServer(t)
	c := remote.New(ts.URL)

	_, err := c.AwardKudos(context.Background(), "tm1")
	require.NoError(t, err)

	var events []activity.Event
	require.Eventually(t, func() bool {
		events, err = c.Activity(context.Background(), 5)
		return err == nil && len(events) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, activity.KindKudosAwarded, events[0].Kind)
	assert.Equal(t, "tm1", events[0].MemberID)

	_, err = c.Activity(context.Background(), 0)
	assert.ErrorIs(t, err, remote.ErrTransport)
}
