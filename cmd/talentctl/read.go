package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/talentportal/internal/adapters/remote"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/portal"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in user's profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, store repository.Store) error {
			p, err := store.GetProfile(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		})
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the career ladder personas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, store repository.Store) error {
			ps, err := store.GetPersonas(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, ps)
		})
	},
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "List team members with open-critical and high-performer flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(c *portal.Controller) error {
			v, err := c.Team()
			if err != nil {
				return err
			}
			return printJSON(cmd, v)
		})
	},
}

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Show the skill gaps and readiness for the next persona",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(c *portal.Controller) error {
			a, err := c.Career()
			if err != nil {
				return err
			}
			return printJSON(cmd, a)
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show dashboard counters, readiness and visible navigation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(c *portal.Controller) error {
			d, err := c.Dashboard()
			if err != nil {
				return err
			}
			nav, err := c.Navigation()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"user":       map[string]any{"id": d.User.ID, "name": d.User.Name, "role": d.User.Role, "title": d.User.Title},
				"stats":      d.Stats,
				"readiness":  d.Career.Readiness,
				"teamSize":   d.TeamSize,
				"navigation": nav,
			})
		})
	},
}

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent kudos and feedback activity (remote source only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, store repository.Store) error {
			c, ok := store.(*remote.Client)
			if !ok {
				return fmt.Errorf("activity is only available with --source %s", sourceRemote)
			}
			events, err := c.Activity(ctx, activityLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, events)
		})
	},
}

// withController loads the portal state before running fn.
func withController(cmd *cobra.Command, fn func(c *portal.Controller) error) error {
	return withStore(cmd, func(ctx context.Context, store repository.Store) error {
		c := portal.New(store)
		if err := c.Load(ctx); err != nil {
			return err
		}
		return fn(c)
	})
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "Maximum number of events")

	rootCmd.AddCommand(profileCmd, personasCmd, teamCmd, careerCmd, dashboardCmd, activityCmd)
}
