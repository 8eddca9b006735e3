package main

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/talentportal/internal/loadtest"
)

// Default load run constants.
const (
	defaultLoadRequests = 1000
	defaultLoadWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultLoadTimeout  = 10 * time.Minute
)

var (
	loadRequests      int
	loadWorkers       int
	loadFeedbackRatio float64
	loadMembers       []string
	loadVerbose       bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Submit concurrent kudos and feedback and verify no update was lost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), defaultLoadTimeout)
		defer cancel()

		store, closeFn, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		stats, err := loadtest.Run(ctx, store, loadtest.Config{
			Requests:      loadRequests,
			Workers:       loadWorkers,
			FeedbackRatio: loadFeedbackRatio,
			MemberIDs:     loadMembers,
			Timeout:       timeout,
			Verbose:       loadVerbose,
		})
		if perr := printJSON(cmd, map[string]any{
			"planned":            stats.Planned,
			"kudosSucceeded":     stats.KudosSucceeded,
			"feedbackSucceeded":  stats.FeedbackSucceeded,
			"failed":             stats.Failed,
			"membersVerified":    stats.MembersVerified,
			"kudosMismatches":    stats.KudosMismatches,
			"feedbackMismatches": stats.FeedbackMismatches,
			"duration":           stats.Duration.String(),
			"throughputPerSec":   stats.Throughput(),
		}); perr != nil {
			return perr
		}
		return err
	},
}

func init() {
	f := loadCmd.Flags()
	f.IntVar(&loadRequests, "requests", defaultLoadRequests, "Number of mutations to submit")
	f.IntVar(&loadWorkers, "workers", runtime.NumCPU()*defaultLoadWorkers, "Number of concurrent workers")
	f.Float64Var(&loadFeedbackRatio, "feedback-ratio", 0.2, "Share of mutations that register feedback")
	f.StringSliceVar(&loadMembers, "member", nil, "Target member id (repeatable; default: whole team)")
	f.BoolVar(&loadVerbose, "verbose", false, "Log every failed request")

	rootCmd.AddCommand(loadCmd)
}
