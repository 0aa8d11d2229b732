package jobsoid

import (
	"net/url"
	"strconv"
	"strings"
)

type SearchParameters struct {
	Text          string
	LocationIDs   []int
	DepartmentIDs []int
	FunctionIDs   []int
}

func (s SearchParameters) IsEmpty() bool {
	return s.Text == "" && len(s.LocationIDs) == 0 && len(s.DepartmentIDs) == 0 && len(s.FunctionIDs) == 0
}

func (s SearchParameters) ToUrlParams() url.Values {

	params := url.Values{}
	if s.Text != "" {
		params.Add("q", s.Text)
	}

	if len(s.LocationIDs) > 0 {
		params.Add("loc", joinIDs(s.LocationIDs))
	}

	if len(s.DepartmentIDs) > 0 {
		params.Add("dept", joinIDs(s.DepartmentIDs))
	}

	if len(s.FunctionIDs) > 0 {
		params.Add("fun", joinIDs(s.FunctionIDs))
	}

	return params
}

func (s SearchParameters) Map() map[string]string {
	result := make(map[string]string)
	for key, values := range s.ToUrlParams() {
		result[key] = values[0]
	}
	return result
}

// ParseSearchParameters is the inverse of ToUrlParams. Malformed ids are skipped.
func ParseSearchParameters(values url.Values) SearchParameters {
	return SearchParameters{
		Text:          strings.TrimSpace(values.Get("q")),
		LocationIDs:   splitIDs(values.Get("loc")),
		DepartmentIDs: splitIDs(values.Get("dept")),
		FunctionIDs:   splitIDs(values.Get("fun")),
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func splitIDs(value string) []int {
	if value == "" {
		return nil
	}

	var ids []int
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
