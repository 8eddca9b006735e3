package portal

import (
	"github.com/okian/talentportal/internal/domain/career"
	"github.com/okian/talentportal/internal/domain/model"
)

// DashboardView is the landing page model.
type DashboardView struct {
	User     model.UserProfile
	Stats    career.DashboardStats
	Career   career.Analysis
	TeamSize int
}

// TeamMemberView pairs a member with the derived badges.
type TeamMemberView struct {
	Member  model.TeamMemberSummary
	Insight career.MemberInsight
}

// TeamView is the manager's team page model.
type TeamView struct {
	Members        []TeamMemberView
	OpenCritical   int
	HighPerformers int
	TotalKudos     int
}

// Dashboard builds the dashboard view from the local state.
func (c *Controller) Dashboard() (DashboardView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return DashboardView{}, ErrNotLoaded
	}
	return DashboardView{
		User:     c.state.Profile.Clone(),
		Stats:    career.Stats(c.state.Profile),
		Career:   c.analysis(),
		TeamSize: len(c.state.Team),
	}, nil
}

// Career returns the gap analysis for the loaded user.
func (c *Controller) Career() (career.Analysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return career.Analysis{}, ErrNotLoaded
	}
	return c.analysis(), nil
}

// Team builds the team view in store order.
func (c *Controller) Team() (TeamView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return TeamView{}, ErrNotLoaded
	}
	v := TeamView{Members: make([]TeamMemberView, 0, len(c.state.Team))}
	for _, m := range model.CloneTeam(c.state.Team) {
		in := career.TeamInsights(m)
		if in.HasOpenCritical {
			v.OpenCritical++
		}
		if in.IsHighPerformer {
			v.HighPerformers++
		}
		v.TotalKudos += m.KudosCount
		v.Members = append(v.Members, TeamMemberView{Member: m, Insight: in})
	}
	return v, nil
}
