package main

import (
	"fmt"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"strings"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a job with its requirements and related jobs",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the detail view as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return errors.Errorf("job id must be a positive number, got %q", args[0])
	}

	detail := views.NewDetailController(newJobsClient(), cfg.Server.PublicURL)
	view, err := detail.Open(cmd.Context(), id)
	if err != nil {
		return err
	}

	if showJSON {
		return printJSON(cmd.OutOrStdout(), view)
	}
	return printDetail(cmd.OutOrStdout(), view)
}

func printDetail(out io.Writer, view views.DetailView) error {
	job := view.Job

	fmt.Fprintf(out, "%s (%s)\n", job.Title, job.TypeLabel())
	fmt.Fprintf(out, "%s  %s\n\n", job.DepartmentTitle(), job.LocationLine())
	fmt.Fprintf(out, "%s\n%s\n", view.Heading, strings.TrimSpace(view.Overview))

	printSection(out, "Responsibilities", view.Responsibilities)
	printSection(out, "Requirements", view.Requirements)
	printSection(out, "Bonus Points", view.BonusPoints)

	if job.ApplyURL != "" {
		fmt.Fprintf(out, "\nApply: %s\n", job.ApplyURL)
	}
	if len(view.Related) > 0 {
		fmt.Fprintln(out, "\nRelated jobs:")
		for _, related := range view.Related {
			fmt.Fprintf(out, "  %d  %s\n", related.ID, related.Title)
		}
	}
	return nil
}

func printSection(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
