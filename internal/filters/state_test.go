package filters

import (
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_State_Toggle_TwiceShouldRestorePriorState(t *testing.T) {

	prior := Empty().WithSearch("go").Toggle(Location, 1).Toggle(Location, 2).Toggle(Function, 9)

	for _, category := range Categories {
		for _, id := range []int{1, 2, 3, 9} {
			restored := prior.Toggle(category, id).Toggle(category, id)
			assert.True(t, prior.Equal(restored), "category %s id %d", category, id)
		}
	}
}

func Test_State_Toggle_ShouldNotMutateReceiver(t *testing.T) {
	state := Empty().Toggle(Department, 1)

	_ = state.Toggle(Department, 2)
	_ = state.Toggle(Department, 1)

	assert.Equal(t, []int{1}, state.Department)
}

func Test_State_Remove_WhenAbsent_ShouldBeNoOp(t *testing.T) {
	state := Empty().Toggle(Department, 1)

	assert.Equal(t, state, state.Remove(Department, 42))
	assert.Equal(t, state.Remove(Department, 1), state.Remove(Department, 1).Remove(Department, 1))
	assert.Empty(t, state.Remove(Department, 1).Department)
}

func Test_State_SearchParameters_ShouldDeriveQuery(t *testing.T) {

	assert.Empty(t, Empty().SearchParameters().Map())

	state := Empty().
		WithSearch("designer").
		Toggle(Location, 3).
		Toggle(Location, 1).
		Toggle(Department, 5).
		Toggle(Function, 8)

	assert.Equal(t, map[string]string{
		"q":    "designer",
		"loc":  "3,1",
		"dept": "5",
		"fun":  "8",
	}, state.SearchParameters().Map())
}

func Test_State_HasActiveFilters_IgnoresSearch(t *testing.T) {
	assert.False(t, Empty().WithSearch("x").HasActiveFilters())
	assert.False(t, Empty().WithSearch("x").IsEmpty())
	assert.True(t, Empty().Toggle(Function, 1).HasActiveFilters())
	assert.True(t, Empty().IsEmpty())
}

func Test_FromSearchParameters_ShouldDeduplicate(t *testing.T) {
	state := FromSearchParameters(jobsoid.SearchParameters{
		Text:          "qa",
		DepartmentIDs: []int{2, 2, 1},
	})

	assert.Equal(t, "qa", state.Search)
	assert.Equal(t, []int{2, 1}, state.Department)
	assert.Empty(t, state.Location)
}

func Test_ParseCategory(t *testing.T) {
	category, err := ParseCategory("Dept")
	assert.NoError(t, err)
	assert.Equal(t, Department, category)

	_, err = ParseCategory("division")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}
