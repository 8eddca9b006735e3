package career

import "github.com/okian/talentportal/internal/domain/model"

// HighPerformerThreshold is the readiness score above which a member is
// flagged as a high performer.
const HighPerformerThreshold = 85

// DashboardStats summarises a profile for the dashboard.
type DashboardStats struct {
	CompletedCertifications int      `json:"completedCertifications"`
	ActiveLearningPaths     int      `json:"activeLearningPaths"`
	AverageSkillLevel       float64  `json:"averageSkillLevel"`
	LatestReviewScore       *float64 `json:"latestReviewScore,omitempty"`
}

// Stats computes dashboard counters. The latest review is the completed
// review with the greatest date; dates compare as ISO strings.
func Stats(user model.UserProfile) DashboardStats {
	var s DashboardStats
	for _, c := range user.Certifications {
		if c.Status == model.CertCompleted {
			s.CompletedCertifications++
		}
	}
	for _, p := range user.LearningPaths {
		if p.Status == model.PathInProgress {
			s.ActiveLearningPaths++
		}
	}
	if n := len(user.Skills); n > 0 {
		sum := 0
		for _, sk := range user.Skills {
			sum += int(sk.CurrentLevel)
		}
		s.AverageSkillLevel = float64(sum) / float64(n)
	}
	var latest string
	for _, r := range user.Reviews {
		if r.Status != model.ReviewCompleted || r.Score == nil {
			continue
		}
		if s.LatestReviewScore == nil || r.Date > latest {
			score := *r.Score
			s.LatestReviewScore = &score
			latest = r.Date
		}
	}
	return s
}

// MemberInsight flags a team member for the manager's view.
type MemberInsight struct {
	MemberID        string `json:"memberId"`
	HasOpenCritical bool   `json:"hasOpenCritical"`
	IsHighPerformer bool   `json:"isHighPerformer"`
}

// TeamInsights derives flags for one member.
func TeamInsights(m model.TeamMemberSummary) MemberInsight {
	in := MemberInsight{
		MemberID:        m.ID,
		IsHighPerformer: m.ReadinessScore > HighPerformerThreshold,
	}
	for _, f := range m.Feedbacks {
		if f.Sentiment == model.SentimentCritical && f.Status != model.FeedbackResolved {
			in.HasOpenCritical = true
			break
		}
	}
	return in
}
