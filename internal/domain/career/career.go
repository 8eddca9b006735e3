// Package career derives skill gaps and growth readiness from a user's skills
// and the career-persona ladder. Every function is pure and deterministic.
package career

import (
	"math"

	"github.com/okian/talentportal/internal/domain/model"
)

var levelLabels = [...]string{"Novice", "Beginner", "Competent", "Proficient", "Expert"}

// LevelLabel maps a level in [1,5] to its label. Callers must stay within
// that domain; any other level yields "".
func LevelLabel(l model.SkillLevel) string {
	if !model.ValidSkillLevel(l) {
		return ""
	}
	return levelLabels[l-1]
}

// ParseLevelLabel is the inverse of LevelLabel.
func ParseLevelLabel(label string) (model.SkillLevel, bool) {
	for i, s := range levelLabels {
		if s == label {
			return model.SkillLevel(i + 1), true
		}
	}
	return 0, false
}

// SkillGap compares one of the user's skills to the next persona's requirement.
type SkillGap struct {
	SkillID string           `json:"skillId"`
	Name    string           `json:"name"`
	Current model.SkillLevel `json:"current"`
	Target  model.SkillLevel `json:"target"`
	Met     bool             `json:"met"`
}

// FindCurrentPersona returns the persona assigned to the user.
func FindCurrentPersona(user model.UserProfile, personas []model.Persona) (model.Persona, bool) {
	for _, p := range personas {
		if p.ID == user.PersonaID {
			return p, true
		}
	}
	return model.Persona{}, false
}

// FindNextPersona returns the persona one level above currentLevel. Pass 0
// when the user has no current persona.
func FindNextPersona(personas []model.Persona, currentLevel int) (model.Persona, bool) {
	for _, p := range personas {
		if p.Level == currentLevel+1 {
			return p, true
		}
	}
	return model.Persona{}, false
}

// ComputeSkillGaps returns one gap per skill, in input order. The target is
// the next persona's minimum for the skill, or 0 when next is nil or does
// not require it.
func ComputeSkillGaps(skills []model.Skill, next *model.Persona) []SkillGap {
	gaps := make([]SkillGap, 0, len(skills))
	for _, s := range skills {
		var target model.SkillLevel
		if next != nil {
			for _, req := range next.RequiredSkills {
				if req.SkillID == s.ID {
					target = req.MinLevel
					break
				}
			}
		}
		gaps = append(gaps, SkillGap{
			SkillID: s.ID,
			Name:    s.Name,
			Current: s.CurrentLevel,
			Target:  target,
			Met:     s.CurrentLevel >= target,
		})
	}
	return gaps
}

// Readiness is the growth-readiness percentage: the share of required level
// points already covered, capped per skill at its target. 100 when nothing
// is required.
func Readiness(gaps []SkillGap) int {
	var have, need int
	for _, g := range gaps {
		if g.Target <= 0 {
			continue
		}
		need += int(g.Target)
		have += int(min(g.Current, g.Target))
	}
	if need == 0 {
		return 100
	}
	return int(math.Round(100 * float64(have) / float64(need)))
}

// CompetenciesMet counts met gaps.
func CompetenciesMet(gaps []SkillGap) (met, total int) {
	for _, g := range gaps {
		if g.Met {
			met++
		}
	}
	return met, len(gaps)
}

// PendingCertifications lists certifications not yet completed that are
// required for the next persona.
func PendingCertifications(user model.UserProfile, next *model.Persona) []model.Certification {
	out := []model.Certification{}
	if next == nil {
		return out
	}
	for _, c := range user.Certifications {
		if c.Status != model.CertCompleted && c.RequiredForLevel == next.Title {
			out = append(out, c)
		}
	}
	return out
}

// Analysis is the career view for one user.
type Analysis struct {
	CurrentPersona        *model.Persona        `json:"currentPersona,omitempty"`
	NextPersona           *model.Persona        `json:"nextPersona,omitempty"`
	Gaps                  []SkillGap            `json:"gaps"`
	Readiness             int                   `json:"readiness"`
	CompetenciesMet       int                   `json:"competenciesMet"`
	CompetenciesTotal     int                   `json:"competenciesTotal"`
	PendingCertifications []model.Certification `json:"pendingCertifications"`
}

// Analyze bundles persona lookup, gaps and readiness for user. A user whose
// persona is unknown has no next persona, so every gap targets 0.
func Analyze(user model.UserProfile, personas []model.Persona) Analysis {
	var a Analysis
	if cur, ok := FindCurrentPersona(user, personas); ok {
		a.CurrentPersona = &cur
		if next, ok := FindNextPersona(personas, cur.Level); ok {
			a.NextPersona = &next
		}
	}
	a.Gaps = ComputeSkillGaps(user.Skills, a.NextPersona)
	a.Readiness = Readiness(a.Gaps)
	a.CompetenciesMet, a.CompetenciesTotal = CompetenciesMet(a.Gaps)
	a.PendingCertifications = PendingCertifications(user, a.NextPersona)
	return a
}
