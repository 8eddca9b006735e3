package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/career"
	"github.com/okian/talentportal/internal/domain/model"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// PortalReader is the read side used by PortalHandler.
type PortalReader interface {
	GetProfile(ctx context.Context) (model.UserProfile, error)
	GetPersonas(ctx context.Context) ([]model.Persona, error)
	GetTeam(ctx context.Context) ([]model.TeamMemberSummary, error)
	Career(ctx context.Context) (career.Analysis, error)
	Activity(ctx context.Context, limit int) []activity.Event
}

// PortalHandler serves the read-only portal routes.
type PortalHandler struct {
	deps PortalReader
}

// NewPortalHandler creates a new portal handler.
func NewPortalHandler(deps PortalReader) *PortalHandler {
	return &PortalHandler{deps: deps}
}

// HandleProfile handles GET /api/profile.
func (h *PortalHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetProfile(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePersonas handles GET /api/personas.
func (h *PortalHandler) HandlePersonas(w http.ResponseWriter, r *http.Request) {
	ps, err := h.deps.GetPersonas(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleTeam handles GET /api/team.
func (h *PortalHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.deps.GetTeam(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleCareer handles GET /api/career.
func (h *PortalHandler) HandleCareer(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.Career(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleActivity handles GET /api/activity?limit=n.
func (h *PortalHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxActivityLimit {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("%w: limit must be between 1 and %d", ErrBadRequest, maxActivityLimit))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.Activity(r.Context(), limit))
}
