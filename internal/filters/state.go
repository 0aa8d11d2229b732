package filters

import (
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"slices"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown filter category")

type Category string

const (
	Location   Category = "location"
	Department Category = "department"
	Function   Category = "function"
)

var Categories = []Category{Department, Location, Function}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "location", "loc":
		return Location, nil
	case "department", "dept":
		return Department, nil
	case "function", "fun":
		return Function, nil
	default:
		return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
	}
}

// State is the committed filter selection. Multi-select fields behave as sets
// that remember insertion order. Transitions never mutate the receiver.
type State struct {
	Search     string `json:"search"`
	Location   []int  `json:"location"`
	Department []int  `json:"department"`
	Function   []int  `json:"function"`
}

func Empty() State {
	return State{Location: []int{}, Department: []int{}, Function: []int{}}
}

func (s State) Selected(category Category) []int {
	switch category {
	case Location:
		return s.Location
	case Department:
		return s.Department
	case Function:
		return s.Function
	default:
		return nil
	}
}

func (s State) IsSelected(category Category, id int) bool {
	return slices.Contains(s.Selected(category), id)
}

func (s State) Toggle(category Category, id int) State {
	values := s.Selected(category)
	if slices.Contains(values, id) {
		return s.with(category, lo.Without(values, id))
	}
	return s.with(category, append(slices.Clone(values), id))
}

func (s State) Remove(category Category, id int) State {
	values := s.Selected(category)
	if !slices.Contains(values, id) {
		return s
	}
	return s.with(category, lo.Without(values, id))
}

func (s State) WithSearch(text string) State {
	s.Search = text
	return s
}

// HasActiveFilters reports multi-select selections only; the search box is not a chip.
func (s State) HasActiveFilters() bool {
	return len(s.Location) > 0 || len(s.Department) > 0 || len(s.Function) > 0
}

func (s State) IsEmpty() bool {
	return s.Search == "" && !s.HasActiveFilters()
}

// Equal compares selections as sets; insertion order is ignored.
func (s State) Equal(other State) bool {
	return s.Search == other.Search &&
		sameSet(s.Location, other.Location) &&
		sameSet(s.Department, other.Department) &&
		sameSet(s.Function, other.Function)
}

func (s State) SearchParameters() jobsoid.SearchParameters {
	return jobsoid.SearchParameters{
		Text:          s.Search,
		LocationIDs:   cloneIDs(s.Location),
		DepartmentIDs: cloneIDs(s.Department),
		FunctionIDs:   cloneIDs(s.Function),
	}
}

func FromSearchParameters(params jobsoid.SearchParameters) State {
	state := Empty().WithSearch(params.Text)
	selections := map[Category][]int{
		Location:   params.LocationIDs,
		Department: params.DepartmentIDs,
		Function:   params.FunctionIDs,
	}
	for category, ids := range selections {
		for _, id := range ids {
			if !state.IsSelected(category, id) {
				state = state.Toggle(category, id)
			}
		}
	}
	return state
}

func (s State) with(category Category, values []int) State {
	switch category {
	case Location:
		s.Location = values
	case Department:
		s.Department = values
	case Function:
		s.Function = values
	}
	return s
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	return lo.Every(a, b)
}

func cloneIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	return slices.Clone(ids)
}
