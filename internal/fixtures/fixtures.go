// Package fixtures provides the seed data every store starts from.
//
// The embedded seed keeps client feedback in a shared list that team members
// reference by id, so the same record can appear under several members.
// A seed may also embed feedbacks directly on a member.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/okian/talentportal/internal/domain/model"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSeed is returned when seed data fails schema or model validation.
var ErrInvalidSeed = errors.New("invalid seed data")

//go:embed seed.json
var defaultSeed []byte

//go:embed schema.json
var seedSchema string

// Seed is the initial content of a store.
type Seed struct {
	Profile  model.UserProfile
	Personas []model.Persona
	Team     []model.TeamMemberSummary
}

type rawMember struct {
	model.TeamMemberSummary
	FeedbackIDs []string `json:"feedbackIds"`
}

type rawSeed struct {
	Profile   model.UserProfile      `json:"profile"`
	Personas  []model.Persona        `json:"personas"`
	Feedbacks []model.ClientFeedback `json:"feedbacks"`
	Team      []rawMember            `json:"team"`
}

// Default returns a fresh copy of the embedded seed.
func Default() Seed {
	s, err := Parse(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("fixtures: embedded seed: %v", err))
	}
	return s
}

// Load reads a seed file, or returns Default when path is empty.
func Load(path string) (Seed, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(b)
}

// Parse validates b against the seed schema and the model's rules and
// resolves feedback references.
func Parse(b []byte) (Seed, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewBytesLoader(b),
	)
	if err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			msgs = append(msgs, field+": "+desc.Description())
		}
		return Seed{}, fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(msgs, "; "))
	}

	var raw rawSeed
	if err := json.Unmarshal(b, &raw); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	byID := make(map[string]model.ClientFeedback, len(raw.Feedbacks))
	for _, f := range raw.Feedbacks {
		byID[f.ID] = f
	}

	s := Seed{
		Profile:  raw.Profile,
		Personas: raw.Personas,
		Team:     make([]model.TeamMemberSummary, 0, len(raw.Team)),
	}
	if s.Personas == nil {
		s.Personas = []model.Persona{}
	}
	for _, rm := range raw.Team {
		m := rm.TeamMemberSummary
		for _, id := range rm.FeedbackIDs {
			f, ok := byID[id]
			if !ok {
				return Seed{}, fmt.Errorf("%w: member %s references unknown feedback %s", ErrInvalidSeed, m.ID, id)
			}
			m.Feedbacks = append(m.Feedbacks, f)
		}
		if m.Feedbacks == nil {
			m.Feedbacks = []model.ClientFeedback{}
		}
		s.Team = append(s.Team, m)
	}

	if err := s.validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func (s Seed) validate() error {
	if err := model.Validate(s.Profile); err != nil {
		return fmt.Errorf("%w: profile: %w", ErrInvalidSeed, err)
	}
	for _, p := range s.Personas {
		if err := model.Validate(p); err != nil {
			return fmt.Errorf("%w: persona %s: %w", ErrInvalidSeed, p.ID, err)
		}
	}
	for _, m := range s.Team {
		if err := model.Validate(m); err != nil {
			return fmt.Errorf("%w: member %s: %w", ErrInvalidSeed, m.ID, err)
		}
	}
	return nil
}
