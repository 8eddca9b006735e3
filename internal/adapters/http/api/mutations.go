package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/talentportal/internal/domain/model"
)

// Mutator is the write side used by MutationHandler.
type Mutator interface {
	RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (model.ClientFeedback, error)
	AwardKudos(ctx context.Context, memberID string) (model.KudosResult, error)
}

// MutationHandler serves the feedback and kudos routes.
type MutationHandler struct {
	deps Mutator
}

// NewMutationHandler creates a new mutation handler.
func NewMutationHandler(deps Mutator) *MutationHandler {
	return &MutationHandler{deps: deps}
}

// HandleRegisterFeedback handles POST /api/feedback/{memberId}.
func (h *MutationHandler) HandleRegisterFeedback(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberParam(w, r)
	if !ok {
		return
	}
	var in model.FeedbackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := model.Validate(in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	fb, err := h.deps.RegisterFeedback(r.Context(), memberID, in)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// HandleAwardKudos handles POST /api/kudos/{memberId}.
func (h *MutationHandler) HandleAwardKudos(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberParam(w, r)
	if !ok {
		return
	}
	res, err := h.deps.AwardKudos(r.Context(), memberID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func memberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "memberId"))
	if id == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: missing memberId", ErrBadRequest))
		return "", false
	}
	return id, true
}
