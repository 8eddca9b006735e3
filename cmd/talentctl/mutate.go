package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/model"
)

var kudosCmd = &cobra.Command{
	Use:   "kudos <memberId>",
	Short: "Award kudos to a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store repository.Store) error {
			r, err := store.AwardKudos(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		})
	},
}

var (
	fbClientID   string
	fbClientName string
	fbContent    string
	fbSentiment  string
	fbSkillID    string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <memberId>",
	Short: "Register client feedback for a team member",
	Long:  "Register client feedback for a team member. Unset fields take the portal defaults.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := feedbackInput(cmd)
		if err := model.Validate(in); err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, store repository.Store) error {
			fb, err := store.RegisterFeedback(ctx, args[0], in)
			if err != nil {
				return err
			}
			return printJSON(cmd, fb)
		})
	},
}

// feedbackInput keeps only the flags the user actually set.
func feedbackInput(cmd *cobra.Command) model.FeedbackInput {
	var in model.FeedbackInput
	set := func(name string, dst **string, v string) {
		if cmd.Flags().Changed(name) {
			s := v
			*dst = &s
		}
	}
	set("client-id", &in.ClientID, fbClientID)
	set("client-name", &in.ClientName, fbClientName)
	set("content", &in.Content, fbContent)
	set("sentiment", &in.Sentiment, fbSentiment)
	set("skill", &in.LinkedSkillID, fbSkillID)
	return in
}

func init() {
	f := feedbackCmd.Flags()
	f.StringVar(&fbClientID, "client-id", "", "Client id")
	f.StringVar(&fbClientName, "client-name", "", "Client name")
	f.StringVarP(&fbContent, "content", "m", "", "Feedback text")
	f.StringVarP(&fbSentiment, "sentiment", "s", "", "Positive, Neutral or Critical")
	f.StringVar(&fbSkillID, "skill", "", "Linked skill id")

	rootCmd.AddCommand(kudosCmd, feedbackCmd)
}
