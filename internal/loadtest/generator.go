package loadtest

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okian/talentportal/internal/domain/model"
)

const randomFloatDivisor = 1000000

var sentiments = []string{model.SentimentPositive, model.SentimentNeutral, model.SentimentCritical}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// planOps spreads n mutations round-robin over members and picks the kind
// of each at random according to feedbackRatio.
func planOps(n int, members []string, feedbackRatio float64) []Op {
	ops := make([]Op, n)
	for i := range ops {
		kind := OpKudos
		if getRandomFloat() < feedbackRatio {
			kind = OpFeedback
		}
		ops[i] = Op{Kind: kind, MemberID: members[i%len(members)]}
	}
	return ops
}

// feedbackFor builds a synthetic feedback body for op i.
func feedbackFor(i int) model.FeedbackInput {
	clientID := fmt.Sprintf("load-%d", i)
	clientName := "Load Client"
	content := fmt.Sprintf("synthetic feedback #%d", i)
	sentiment := sentiments[randomIndex(len(sentiments))]
	return model.FeedbackInput{
		ClientID:   &clientID,
		ClientName: &clientName,
		Content:    &content,
		Sentiment:  &sentiment,
	}
}
