package main

import (
	"encoding/json"
	"fmt"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/spf13/cobra"
	"io"
	"strings"
	"text/tabwriter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open positions grouped by department",
	RunE:  runList,
}

var (
	listSearch      string
	listLocations   []int
	listDepartments []int
	listFunctions   []int
	listJSON        bool
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search text matched against job titles")
	listCmd.Flags().IntSliceVar(&listLocations, "loc", nil, "Location ids to filter by")
	listCmd.Flags().IntSliceVar(&listDepartments, "dept", nil, "Department ids to filter by")
	listCmd.Flags().IntSliceVar(&listFunctions, "fun", nil, "Function ids to filter by")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the list view as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	state := filters.FromSearchParameters(jobsoid.SearchParameters{
		Text:          strings.TrimSpace(listSearch),
		LocationIDs:   listLocations,
		DepartmentIDs: listDepartments,
		FunctionIDs:   listFunctions,
	})

	list := views.NewListController(newJobsClient(), nil, 0)
	list.Load(cmd.Context(), state)
	view := list.View()

	if listJSON {
		return printJSON(cmd.OutOrStdout(), view)
	}
	return printList(cmd.OutOrStdout(), view)
}

func printList(out io.Writer, view views.ListView) error {
	for _, chip := range view.Chips {
		fmt.Fprintf(out, "[%s: %s]\n", chip.Category, chip.Title)
	}

	if view.Empty {
		_, err := fmt.Fprintln(out, "No jobs found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, group := range view.Groups {
		fmt.Fprintf(w, "\n%s\n", strings.ToUpper(group.Department.Title))
		for _, job := range group.Jobs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", job.ID, job.Title, job.LocationLine(), job.TypeLabel())
		}
	}
	fmt.Fprintf(w, "\n%d open positions\n", view.Total)
	return w.Flush()
}

func printJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
