package bot

import (
	"fmt"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/samber/lo"
	"strings"
)

// maxMessageLength is Telegram's limit for a text message, in characters.
const maxMessageLength = 4096

const truncatedSuffix = "\n…"

const helpText = `Type any text to search jobs by title.

/jobs - show open positions
/job <id> - show a job
/departments, /locations, /functions - list filter values
/dept <id>, /loc <id>, /fun <id> - toggle a filter value
/remove <category> <id> - remove a filter value
/clear - reset search and filters`

var categoryCommands = map[filters.Category]string{
	filters.Department: "dept",
	filters.Location:   "loc",
	filters.Function:   "fun",
}

func formatListView(view views.ListView, applyURLTemplate string) string {
	var sb strings.Builder

	if view.Search != "" {
		fmt.Fprintf(&sb, "Search: %q\n", view.Search)
	}
	if len(view.Chips) > 0 {
		sb.WriteString("Filters:\n")
		for _, chip := range view.Chips {
			fmt.Fprintf(&sb, "  %s  %s\n", chip.Title,
				commandLink(removeCommandName, categoryCommands[chip.Category], chip.ID))
		}
	}

	if view.Empty {
		sb.WriteString("\nNo jobs found.")
		return truncate(sb.String())
	}

	fmt.Fprintf(&sb, "\nOpen positions: %d\n", view.Total)
	for _, group := range view.Groups {
		fmt.Fprintf(&sb, "\n%s\n", strings.ToUpper(group.Department.Title))
		for _, job := range group.Jobs {
			sb.WriteString(formatJobCard(job, applyURLTemplate))
		}
	}
	return truncate(sb.String())
}

func formatJobCard(job models.Job, applyURLTemplate string) string {
	details := lo.Compact([]string{job.DepartmentTitle(), job.LocationLine(), job.TypeLabel()})
	return fmt.Sprintf("• %s\n  %s\n  %s  apply: %s\n",
		job.Title, strings.Join(details, " | "), commandLink(jobCommandName, job.ID), job.ApplyLink(applyURLTemplate))
}

func formatDetailView(view views.DetailView) string {
	if view.NotFound || view.Job == nil {
		return fmt.Sprintf("Job Not Found\n\nBack to the list: /%s", jobsCommandName)
	}

	job := view.Job
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", job.Title)
	details := lo.Compact([]string{job.DepartmentTitle(), job.LocationLine(), job.TypeLabel()})
	fmt.Fprintf(&sb, "%s\n", strings.Join(details, " | "))

	fmt.Fprintf(&sb, "\n%s\n%s\n", view.Heading, strings.TrimSpace(view.Overview))
	writeSection(&sb, "Responsibilities", view.Responsibilities)
	writeSection(&sb, "Requirements", view.Requirements)
	writeSection(&sb, "Bonus Points", view.BonusPoints)

	if job.ApplyURL != "" {
		fmt.Fprintf(&sb, "\nApply: %s\n", job.ApplyURL)
	}
	if view.Share != nil {
		fmt.Fprintf(&sb, "\nShare:\n  Facebook: %s\n  LinkedIn: %s\n  Twitter: %s\n",
			view.Share.Facebook, view.Share.LinkedIn, view.Share.Twitter)
	}

	if len(view.Related) > 0 {
		sb.WriteString("\nRelated jobs:\n")
		for _, related := range view.Related {
			fmt.Fprintf(&sb, "  %s  %s\n", related.Title, commandLink(jobCommandName, related.ID))
		}
	}
	return truncate(sb.String())
}

func formatLookups(category filters.Category, items []models.LookupItem, selected []int) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s available.", category)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Select %s filters:\n", category)
	for _, item := range items {
		mark := "  "
		if lo.Contains(selected, item.ID) {
			mark = "✓ "
		}
		fmt.Fprintf(&sb, "%s%s  %s\n", mark, item.Title, commandLink(categoryCommands[category], item.ID))
	}
	return truncate(sb.String())
}

func writeSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-len([]rune(truncatedSuffix))]) + truncatedSuffix
}
