// Package description extracts the structured sections of a job description.
//
// Descriptions are HTML-ish blobs that may carry three anchor elements:
// #job-overview, #responsibilities and #requirements. Missing anchors yield
// empty sections, never an error.
package description

import (
	"github.com/PuerkitoBio/goquery"
	"strings"
)

const (
	SummaryLength = 500

	overviewSelector         = "#job-overview"
	responsibilitiesSelector = "#responsibilities"
	requirementsSelector     = "#requirements"

	defaultHeading  = "Job Overview"
	frontendHeading = "Looking for React / Angular Experts."
)

type Parsed struct {
	Overview         string   `json:"overview"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
}

func Parse(raw string) Parsed {
	parsed := Parsed{Responsibilities: []string{}, Requirements: []string{}}

	doc, err := newDocument(raw)
	if err != nil {
		return parsed
	}

	if overview := doc.Find(overviewSelector).First(); overview.Length() > 0 {
		parsed.Overview = overview.Text()
	}
	parsed.Responsibilities = listItems(doc, responsibilitiesSelector)
	parsed.Requirements = listItems(doc, requirementsSelector)

	return parsed
}

// OverviewOrSummary returns the overview, or a truncated plain-text summary of raw
// when the description has no overview section.
func (p Parsed) OverviewOrSummary(raw string) string {
	if p.Overview != "" {
		return p.Overview
	}
	return Summary(raw)
}

func (p Parsed) Heading() string {
	if strings.Contains(p.Overview, "React") || strings.Contains(p.Overview, "Angular") {
		return frontendHeading
	}
	return defaultHeading
}

func StripTags(raw string) string {
	doc, err := newDocument(raw)
	if err != nil {
		return ""
	}
	return doc.Text()
}

func Summary(raw string) string {
	text := []rune(StripTags(raw))
	if len(text) > SummaryLength {
		text = text[:SummaryLength]
	}
	return string(text) + "..."
}

func newDocument(raw string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(raw))
}

// listItems collects li text of every ul under the first element matching anchor.
// Nested lists are visited once per enclosing ul.
func listItems(doc *goquery.Document, anchor string) []string {
	items := []string{}

	section := doc.Find(anchor).First()
	if section.Length() == 0 {
		return items
	}

	section.Find("ul").Each(func(_ int, list *goquery.Selection) {
		list.Find("li").Each(func(_ int, item *goquery.Selection) {
			items = append(items, strings.TrimSpace(item.Text()))
		})
	})
	return items
}
