// Package feedback builds client feedback records from partial input.
package feedback

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/okian/talentportal/internal/domain/model"
	"github.com/oklog/ulid/v2"
)

// Defaults applied to absent fields.
const (
	DefaultClientID   = "c-generated"
	DefaultClientName = "Generated Client"
	DefaultContent    = "No content provided"
	DefaultSentiment  = model.SentimentNeutral
)

// IDPrefix marks feedback identifiers.
const IDPrefix = "f"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh, never-reused feedback id.
func NewID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return IDPrefix + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Build fills defaults for absent fields and assigns a new id, the current
// date and the Received status. A caller-supplied status is ignored.
func Build(in model.FeedbackInput, now time.Time) model.ClientFeedback {
	fb := model.ClientFeedback{
		ID:         NewID(now),
		ClientID:   orDefault(in.ClientID, DefaultClientID),
		ClientName: orDefault(in.ClientName, DefaultClientName),
		Content:    orDefault(in.Content, DefaultContent),
		Date:       now.UTC().Format(time.RFC3339),
		Sentiment:  orDefault(in.Sentiment, DefaultSentiment),
		Status:     model.FeedbackReceived,
	}
	if in.LinkedSkillID != nil {
		fb.LinkedSkillID = *in.LinkedSkillID
	}
	return fb
}

func orDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
