// Package loadtest drives concurrent kudos and feedback mutations against a
// repository.Store and verifies that no update was lost.
package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/pkg/logger"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	defaultTimeout          = 10 * time.Second
)

// ErrLostUpdates is returned when the final team disagrees with the
// successful mutations.
var ErrLostUpdates = errors.New("lost updates detected")

// ErrNoMembers is returned when there is nothing to target.
var ErrNoMembers = errors.New("no team members to target")

type snapshot map[string]memberCounts

type memberCounts struct {
	kudos     int
	feedbacks int
}

// Run executes the load test against store.
func Run(ctx context.Context, store repository.Store, config Config) (Stats, error) {
	log := logger.Get().Named("loadtest")
	stats := Stats{StartTime: time.Now()}

	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	// Step 1: snapshot the team
	before, err := takeSnapshot(ctx, store)
	if err != nil {
		return stats, fmt.Errorf("initial team read failed: %w", err)
	}
	members := config.MemberIDs
	if len(members) == 0 {
		for id := range before {
			members = append(members, id)
		}
	}
	if len(members) == 0 {
		return stats, ErrNoMembers
	}

	log.Info(ctx, "starting load run",
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Int("members", len(members)),
		logger.Float64("feedbackRatio", config.FeedbackRatio))

	// Step 2: plan and submit concurrently
	ops := planOps(config.Requests, members, config.FeedbackRatio)
	stats.Planned = len(ops)
	kudosOK, feedbackOK := submitOps(ctx, store, config, ops, &stats, log)

	// Step 3: verify
	after, err := takeSnapshot(ctx, store)
	if err != nil {
		return stats, fmt.Errorf("final team read failed: %w", err)
	}
	verifyResults(before, after, kudosOK, feedbackOK, &stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load run finished",
		logger.Int("kudosSucceeded", stats.KudosSucceeded),
		logger.Int("feedbackSucceeded", stats.FeedbackSucceeded),
		logger.Int("failed", stats.Failed),
		logger.Float64("throughput", stats.Throughput()),
		logger.String("duration", stats.Duration.String()))

	if stats.KudosMismatches > 0 || stats.FeedbackMismatches > 0 {
		return stats, fmt.Errorf("%w: %d kudos and %d feedback mismatches",
			ErrLostUpdates, stats.KudosMismatches, stats.FeedbackMismatches)
	}
	return stats, nil
}

func takeSnapshot(ctx context.Context, store repository.Store) (snapshot, error) {
	team, err := store.GetTeam(ctx)
	if err != nil {
		return nil, err
	}
	s := make(snapshot, len(team))
	for _, m := range team {
		s[m.ID] = memberCounts{kudos: m.KudosCount, feedbacks: len(m.Feedbacks)}
	}
	return s, nil
}

// submitOps fans ops out to config.Workers goroutines and returns the
// per-member success counts.
func submitOps(ctx context.Context, store repository.Store, config Config, ops []Op, stats *Stats, log logger.Logger) (kudosOK, feedbackOK map[string]int) {
	type result struct {
		op  Op
		err error
	}

	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	results := make(chan result, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				op := ops[i]
				reqCtx, cancel := context.WithTimeout(ctx, config.Timeout)
				var err error
				switch op.Kind {
				case OpFeedback:
					_, err = store.RegisterFeedback(reqCtx, op.MemberID, feedbackFor(i))
				default:
					_, err = store.AwardKudos(reqCtx, op.MemberID)
				}
				cancel()
				results <- result{op: op, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range ops {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	kudosOK = map[string]int{}
	feedbackOK = map[string]int{}
	for r := range results {
		if r.err != nil {
			stats.Failed++
			if config.Verbose {
				log.Warn(ctx, "request failed",
					logger.String("kind", r.op.Kind.String()),
					logger.String("member_id", r.op.MemberID),
					logger.Error(r.err))
			}
			continue
		}
		if r.op.Kind == OpFeedback {
			stats.FeedbackSucceeded++
			feedbackOK[r.op.MemberID]++
		} else {
			stats.KudosSucceeded++
			kudosOK[r.op.MemberID]++
		}
	}
	return kudosOK, feedbackOK
}
