package loadtest

// verifyResults compares the counters before and after the run with the
// number of confirmed mutations per member.
func verifyResults(before, after snapshot, kudosOK, feedbackOK map[string]int, stats *Stats) {
	for id, b := range before {
		a, ok := after[id]
		if !ok {
			continue
		}
		stats.MembersVerified++
		if a.kudos-b.kudos != kudosOK[id] {
			stats.KudosMismatches++
		}
		if a.feedbacks-b.feedbacks != feedbackOK[id] {
			stats.FeedbackMismatches++
		}
	}
}
