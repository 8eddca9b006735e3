package loadtest

import "time"

// Config holds configuration for a load run.
type Config struct {
	Requests      int           // Number of mutations to submit
	Workers       int           // Number of concurrent workers
	FeedbackRatio float64       // Share of mutations that register feedback, 0..1
	MemberIDs     []string      // Target members; empty means every member of the team
	Timeout       time.Duration // Per-request timeout
	Verbose       bool          // Log every failed request
}

// Op is one planned mutation.
type Op struct {
	Kind     OpKind
	MemberID string
}

// OpKind distinguishes the two mutations.
type OpKind int

const (
	OpKudos OpKind = iota
	OpFeedback
)

func (k OpKind) String() string {
	if k == OpFeedback {
		return "feedback"
	}
	return "kudos"
}

// Stats holds run statistics.
type Stats struct {
	Planned            int
	KudosSucceeded     int
	FeedbackSucceeded  int
	Failed             int
	MembersVerified    int
	KudosMismatches    int
	FeedbackMismatches int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// Throughput returns successful mutations per second.
func (s Stats) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.KudosSucceeded+s.FeedbackSucceeded) / s.Duration.Seconds()
}
