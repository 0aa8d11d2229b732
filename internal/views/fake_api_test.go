package views

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type mockJobsAPI struct {
	mock.Mock
}

func (m *mockJobsAPI) FetchJobs(ctx context.Context, parameters jobsoid.SearchParameters) ([]models.Job, error) {
	args := m.Called(ctx, parameters)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *mockJobsAPI) FetchJobByID(ctx context.Context, id int) (models.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(models.Job)
	return job, args.Error(1)
}

func (m *mockJobsAPI) FetchLocations(ctx context.Context) ([]models.LookupItem, error) {
	return m.lookup("FetchLocations", ctx)
}

func (m *mockJobsAPI) FetchDepartments(ctx context.Context) ([]models.LookupItem, error) {
	return m.lookup("FetchDepartments", ctx)
}

func (m *mockJobsAPI) FetchDivisions(ctx context.Context) ([]models.LookupItem, error) {
	return m.lookup("FetchDivisions", ctx)
}

func (m *mockJobsAPI) FetchFunctions(ctx context.Context) ([]models.LookupItem, error) {
	return m.lookup("FetchFunctions", ctx)
}

func (m *mockJobsAPI) lookup(method string, ctx context.Context) ([]models.LookupItem, error) {
	args := m.MethodCalled(method, ctx)
	items, _ := args.Get(0).([]models.LookupItem)
	return items, args.Error(1)
}

func (m *mockJobsAPI) withLookups(lookups models.Lookups) *mockJobsAPI {
	m.On("FetchLocations", mock.Anything).Return(lookups.Locations, nil)
	m.On("FetchDepartments", mock.Anything).Return(lookups.Departments, nil)
	m.On("FetchDivisions", mock.Anything).Return(lookups.Divisions, nil)
	m.On("FetchFunctions", mock.Anything).Return(lookups.Functions, nil)
	return m
}

func job(id int, departmentID int, title string) models.Job {
	j := models.Job{ID: id, Title: title}
	if departmentID != 0 {
		j.Department = &models.Department{ID: departmentID}
	}
	return j
}
