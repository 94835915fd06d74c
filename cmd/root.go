package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/compozy/semtag/internal/domain"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semtag [version|keyword]",
		Short: "Resolve and tag the next semantic version",
		Long: `semtag resolves the next semantic version of a git repository.

Without an argument it prints the current version: the highest tag that is a
valid semantic version and matches --filter. With an explicit version or one of
major, minor, patch, premajor, preminor, prepatch or prerelease it prints the
next version. --tag records it as an annotated tag v<version> once the local
branch is clean and contains every remote commit; --publish also pushes tags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Flags())
			if err != nil {
				return err
			}
			defer c.close()
			opts := c.cfg.Options()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				current, err := c.publisher.Current(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if current != nil {
					fmt.Fprintln(out, current.String())
				}
				return nil
			}
			next, err := c.publisher.Publish(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, next.String())
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.String("base", domain.DefaultBase, "Version bumped from when no version tag exists")
	flags.String("filter", "", "Semver range restricting which tags count as current")
	flags.Bool("tag", false, "Create an annotated tag for the resolved version")
	flags.Bool("publish", false, "Push tags after tagging (implies --tag)")
	flags.String("branch", "", "Branch checked against its remote (default: current branch)")
	flags.String("message", domain.DefaultMessage, "Tag message; every %s is replaced by the version")
	flags.String("preid", "", "Prerelease identifier for pre* keywords")
	flags.String("dir", domain.DefaultDir, "Repository directory")
	flags.String("remote", domain.DefaultRemote, "Remote to fetch from and push to")
	flags.String("backend", domain.BackendGoGit, "Repository backend: go-git or git")
	flags.Bool("journal", true, "Record tagging sessions under .git/semtag")
	flags.Bool("debug", false, "Enable debug logging")
	return cmd
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	addCommands(rootCmd)
	return nil
}

func addCommands(root *cobra.Command) {
	root.AddCommand(
		newVersionCmd(),
		newHistoryCmd(),
		newResumeCmd(),
		newRollbackCmd(),
	)
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
