package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/compozy/semtag/internal/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusStyles = map[domain.SessionStatus]lipgloss.Style{
	domain.SessionStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	domain.SessionStatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	domain.SessionStatusRolledBack: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	domain.SessionStatusRunning:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

func renderStatus(status domain.SessionStatus) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return string(status)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded tagging sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd.Flags())
			if err != nil {
				return err
			}
			defer c.close()
			sessions, err := c.publisher.History(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded")
				return nil
			}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Session", "Started", "Tag", "Branch", "Published", "Status", "Error"})
			for _, s := range sessions {
				t.AppendRow(table.Row{
					s.SessionID,
					s.StartedAt.Local().Format("2006-01-02 15:04:05"),
					s.TagName,
					s.Branch,
					s.Publish,
					renderStatus(s.Status),
					s.Error,
				})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}
