// Package model contains domain models passed between layers.
// JSON field names match the portal's wire format.
package model

// Role is the decorative user role used for navigation filtering only.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// SkillLevel is a proficiency rating in [1,5].
type SkillLevel int

const (
	MinSkillLevel SkillLevel = 1
	MaxSkillLevel SkillLevel = 5
)

// Certification statuses.
const (
	CertCompleted  = "Completed"
	CertInProgress = "In Progress"
	CertExpired    = "Expired"
	CertNotStarted = "Not Started"
)

// Learning path statuses.
const (
	PathCompleted  = "Completed"
	PathInProgress = "In Progress"
	PathNotStarted = "Not Started"
)

// Review types and statuses.
const (
	ReviewAnnual    = "Annual"
	ReviewQuarterly = "Quarterly"
	ReviewProject   = "Project"

	ReviewCompleted = "Completed"
	ReviewPending   = "Pending"
	ReviewScheduled = "Scheduled"
)

// Feedback sentiments and statuses.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentCritical = "Critical"

	FeedbackReceived          = "Received"
	FeedbackInReview          = "In-Review"
	FeedbackActionPlanCreated = "Action-Plan-Created"
	FeedbackResolved          = "Resolved"
)

// Skill is a user's competency in a named area.
type Skill struct {
	ID           string     `json:"id" bson:"id" validate:"required"`
	Name         string     `json:"name" bson:"name" validate:"required"`
	Category     string     `json:"category" bson:"category"`
	CurrentLevel SkillLevel `json:"currentLevel" bson:"currentLevel" validate:"min=1,max=5"`
	TargetLevel  SkillLevel `json:"targetLevel" bson:"targetLevel" validate:"min=1,max=5"`
	Description  string     `json:"description" bson:"description"`
}

// Certification is a credential held or pursued by a user.
type Certification struct {
	ID               string `json:"id" bson:"id" validate:"required"`
	Name             string `json:"name" bson:"name" validate:"required"`
	Issuer           string `json:"issuer" bson:"issuer"`
	Status           string `json:"status" bson:"status" validate:"oneof=Completed 'In Progress' Expired 'Not Started'"`
	IssueDate        string `json:"issueDate,omitempty" bson:"issueDate,omitempty"`
	ExpiryDate       string `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	RequiredForLevel string `json:"requiredForLevel,omitempty" bson:"requiredForLevel,omitempty"`
}

// LearningPath is a course or program a user follows.
type LearningPath struct {
	ID        string `json:"id" bson:"id" validate:"required"`
	Title     string `json:"title" bson:"title" validate:"required"`
	Provider  string `json:"provider" bson:"provider"`
	Duration  string `json:"duration" bson:"duration"`
	Status    string `json:"status" bson:"status" validate:"oneof=Completed 'In Progress' 'Not Started'"`
	Relevance string `json:"relevance" bson:"relevance"`
}

// Review is a performance review record.
type Review struct {
	ID     string   `json:"id" bson:"id" validate:"required"`
	Date   string   `json:"date" bson:"date"`
	Type   string   `json:"type" bson:"type" validate:"oneof=Annual Quarterly Project"`
	Status string   `json:"status" bson:"status" validate:"oneof=Completed Pending Scheduled"`
	Score  *float64 `json:"score,omitempty" bson:"score,omitempty"`
}

// SkillRequirement is the minimum level a persona requires for a skill.
type SkillRequirement struct {
	SkillID  string     `json:"skillId" bson:"skillId" validate:"required"`
	MinLevel SkillLevel `json:"minLevel" bson:"minLevel" validate:"min=1,max=5"`
}

// Persona is a career-ladder role template.
type Persona struct {
	ID               string             `json:"id" bson:"id" validate:"required"`
	Title            string             `json:"title" bson:"title" validate:"required"`
	Level            int                `json:"level" bson:"level" validate:"gt=0"`
	Responsibilities []string           `json:"responsibilities" bson:"responsibilities"`
	RequiredSkills   []SkillRequirement `json:"requiredSkills" bson:"requiredSkills" validate:"dive"`
}

// UserProfile is the signed-in user's full record.
type UserProfile struct {
	ID              string          `json:"id" bson:"id" validate:"required"`
	Name            string          `json:"name" bson:"name" validate:"required"`
	Email           string          `json:"email" bson:"email" validate:"omitempty,email"`
	Role            Role            `json:"role" bson:"role" validate:"oneof=Admin Manager Employee"`
	Title           string          `json:"title" bson:"title"`
	Department      string          `json:"department" bson:"department"`
	ManagerName     string          `json:"managerName,omitempty" bson:"managerName,omitempty"`
	ManagerID       string          `json:"managerId,omitempty" bson:"managerId,omitempty"`
	ExperienceYears float64         `json:"experienceYears" bson:"experienceYears" validate:"gte=0"`
	Avatar          string          `json:"avatar" bson:"avatar"`
	PersonaID       string          `json:"personaId" bson:"personaId"`
	Skills          []Skill         `json:"skills" bson:"skills" validate:"dive"`
	Certifications  []Certification `json:"certifications" bson:"certifications" validate:"dive"`
	LearningPaths   []LearningPath  `json:"learningPaths" bson:"learningPaths" validate:"dive"`
	Reviews         []Review        `json:"reviews" bson:"reviews" validate:"dive"`
}

// ClientFeedback is feedback an external client left about a team member.
type ClientFeedback struct {
	ID            string `json:"id" bson:"id" validate:"required"`
	ClientID      string `json:"clientId" bson:"clientId"`
	ClientName    string `json:"clientName" bson:"clientName"`
	Content       string `json:"content" bson:"content"`
	Date          string `json:"date" bson:"date"`
	Sentiment     string `json:"sentiment" bson:"sentiment" validate:"oneof=Positive Neutral Critical"`
	Status        string `json:"status" bson:"status" validate:"oneof=Received In-Review Action-Plan-Created Resolved"`
	LinkedSkillID string `json:"linkedSkillId,omitempty" bson:"linkedSkillId,omitempty"`
}

// TeamMemberSummary is a manager's view of one direct report.
type TeamMemberSummary struct {
	ID             string           `json:"id" bson:"id" validate:"required"`
	Name           string           `json:"name" bson:"name" validate:"required"`
	Title          string           `json:"title" bson:"title"`
	SkillAvg       float64          `json:"skillAvg" bson:"skillAvg" validate:"gte=0,lte=5"`
	CertCount      int              `json:"certCount" bson:"certCount" validate:"gte=0"`
	ReadinessScore int              `json:"readinessScore" bson:"readinessScore" validate:"min=0,max=100"`
	KudosCount     int              `json:"kudosCount" bson:"kudosCount" validate:"gte=0"`
	Feedbacks      []ClientFeedback `json:"feedbacks" bson:"feedbacks" validate:"dive"`
}

// KudosResult is returned by a successful kudos award.
type KudosResult struct {
	Success  bool `json:"success"`
	NewCount int  `json:"newCount"`
}

// FeedbackInput is the partial feedback payload accepted by RegisterFeedback.
// Absent fields are filled with defaults; status is ignored on creation.
type FeedbackInput struct {
	ClientID      *string `json:"clientId,omitempty" validate:"omitempty,max=128"`
	ClientName    *string `json:"clientName,omitempty" validate:"omitempty,max=256"`
	Content       *string `json:"content,omitempty" validate:"omitempty,max=10000"`
	Sentiment     *string `json:"sentiment,omitempty" validate:"omitempty,oneof=Positive Neutral Critical"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=Received In-Review Action-Plan-Created Resolved"`
	LinkedSkillID *string `json:"linkedSkillId,omitempty" validate:"omitempty,max=128"`
}

// Clone returns a deep copy of the profile.
func (u UserProfile) Clone() UserProfile {
	out := u
	out.Skills = append([]Skill(nil), u.Skills...)
	out.Certifications = append([]Certification(nil), u.Certifications...)
	out.LearningPaths = append([]LearningPath(nil), u.LearningPaths...)
	out.Reviews = make([]Review, len(u.Reviews))
	for i, r := range u.Reviews {
		if r.Score != nil {
			s := *r.Score
			r.Score = &s
		}
		out.Reviews[i] = r
	}
	return out
}

// Clone returns a deep copy of the persona.
func (p Persona) Clone() Persona {
	out := p
	out.Responsibilities = append([]string(nil), p.Responsibilities...)
	out.RequiredSkills = append([]SkillRequirement(nil), p.RequiredSkills...)
	return out
}

// Clone returns a deep copy of the member.
func (m TeamMemberSummary) Clone() TeamMemberSummary {
	out := m
	out.Feedbacks = append([]ClientFeedback(nil), m.Feedbacks...)
	return out
}

// ClonePersonas deep-copies a persona slice.
func ClonePersonas(in []Persona) []Persona {
	out := make([]Persona, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// CloneTeam deep-copies a team slice.
func CloneTeam(in []TeamMemberSummary) []TeamMemberSummary {
	out := make([]TeamMemberSummary, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// FindMember returns the index of the member with id, or -1.
func FindMember(team []TeamMemberSummary, id string) int {
	for i := range team {
		if team[i].ID == id {
			return i
		}
	}
	return -1
}
