package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResumeCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Push the tag of a session whose push failed",
		Long: `Resume pushes tags for a recorded session whose tag was created locally but
never reached the remote. The push is retried with exponential backoff.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd.Flags())
			if err != nil {
				return err
			}
			defer c.close()
			session, err := c.publisher.Resume(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID to resume (uses latest if not specified)")
	return cmd
}

func newRollbackCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Delete the local tag of a session whose push never completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd.Flags())
			if err != nil {
				return err
			}
			defer c.close()
			session, err := c.publisher.Rollback(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", session.SessionID, renderStatus(session.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID to roll back (uses latest if not specified)")
	return cmd
}
