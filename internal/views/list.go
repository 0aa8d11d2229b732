package views

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/domain/events"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"sync"
)

// JobsAPI is the part of the jobs client the views read from.
type JobsAPI interface {
	FetchJobs(ctx context.Context, parameters jobsoid.SearchParameters) ([]models.Job, error)
	FetchJobByID(ctx context.Context, id int) (models.Job, error)
	FetchLocations(ctx context.Context) ([]models.LookupItem, error)
	FetchDepartments(ctx context.Context) ([]models.LookupItem, error)
	FetchDivisions(ctx context.Context) ([]models.LookupItem, error)
	FetchFunctions(ctx context.Context) ([]models.LookupItem, error)
}

type DepartmentGroup struct {
	Department models.LookupItem `json:"department"`
	Jobs       []models.Job      `json:"jobs"`
}

type Chip struct {
	Category filters.Category `json:"category"`
	ID       int              `json:"id"`
	Title    string           `json:"title"`
}

type ListView struct {
	Search  string            `json:"search"`
	Filters filters.State     `json:"filters"`
	Groups  []DepartmentGroup `json:"groups"`
	Chips   []Chip            `json:"chips"`
	Lookups models.Lookups    `json:"lookups"`
	Total   int               `json:"total"`
	Empty   bool              `json:"empty"`
}

// ListController holds the list page state of one session.
type ListController struct {
	api       JobsAPI
	bus       EventBus.Bus
	sessionID int64

	mu      sync.Mutex
	jobs    []models.Job
	lookups models.Lookups
	state   filters.State
	seq     uint64
}

// NewListController creates a controller; bus may be nil when nobody listens for updates.
func NewListController(api JobsAPI, bus EventBus.Bus, sessionID int64) *ListController {
	return &ListController{api: api, bus: bus, sessionID: sessionID, state: filters.Empty()}
}

// Mount loads every lookup collection and the jobs matching state, then
// publishes an update.
func (c *ListController) Mount(ctx context.Context, state filters.State) {
	c.Load(ctx, state)
	c.publish()
}

// Load is Mount without the update notification. Each fetch updates only its
// own slice; failures leave that slice empty.
func (c *ListController) Load(ctx context.Context, state filters.State) {

	lookups := []struct {
		name   string
		fetch  func(context.Context) ([]models.LookupItem, error)
		target func(*models.Lookups) *[]models.LookupItem
	}{
		{"locations", c.api.FetchLocations, func(l *models.Lookups) *[]models.LookupItem { return &l.Locations }},
		{"departments", c.api.FetchDepartments, func(l *models.Lookups) *[]models.LookupItem { return &l.Departments }},
		{"functions", c.api.FetchFunctions, func(l *models.Lookups) *[]models.LookupItem { return &l.Functions }},
		{"divisions", c.api.FetchDivisions, func(l *models.Lookups) *[]models.LookupItem { return &l.Divisions }},
	}

	var g errgroup.Group
	for _, lookup := range lookups {
		lookup := lookup
		g.Go(func() error {
			items, err := lookup.fetch(ctx)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeJobsApi).
					Errorf("error loading %s: %v", lookup.name, err)
				items = []models.LookupItem{}
			}
			c.mu.Lock()
			*lookup.target(&c.lookups) = items
			c.mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		c.Apply(ctx, state)
		return nil
	})
	_ = g.Wait()
}

// Apply re-fetches jobs for a committed filter state. A response is dropped if
// a newer Apply started in the meantime. It returns false for dropped responses.
func (c *ListController) Apply(ctx context.Context, state filters.State) bool {

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = state
	c.mu.Unlock()

	jobs, err := c.api.FetchJobs(ctx, state.SearchParameters())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeJobsApi).Errorf("error loading jobs: %v", err)
		jobs = []models.Job{}
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		log.Debugf("discarding stale jobs response for session %d", c.sessionID)
		return false
	}
	c.jobs = jobs
	c.mu.Unlock()

	return true
}

// Refresh is Apply followed by an update notification; it is the commit
// callback used by interactive sessions.
func (c *ListController) Refresh(ctx context.Context, state filters.State) {
	if c.Apply(ctx, state) {
		c.publish()
	}
}

func (c *ListController) View() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ListView{
		Search:  c.state.Search,
		Filters: c.state,
		Groups:  GroupByDepartment(c.jobs, c.lookups.Departments),
		Chips:   ResolveChips(c.state, c.lookups),
		Lookups: c.lookups,
		Total:   len(c.jobs),
		Empty:   len(c.jobs) == 0,
	}
}

func (c *ListController) Lookups() models.Lookups {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups
}

func (c *ListController) publish() {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.ListUpdatedTopic, events.ListUpdated{SessionID: c.sessionID})
}

// GroupByDepartment partitions jobs in department lookup order. Departments
// without jobs are omitted and jobs whose department is unknown are dropped.
func GroupByDepartment(jobs []models.Job, departments []models.LookupItem) []DepartmentGroup {
	groups := []DepartmentGroup{}
	for _, department := range departments {
		departmentJobs := lo.Filter(jobs, func(job models.Job, _ int) bool {
			return job.HasDepartment(department.ID)
		})
		if len(departmentJobs) == 0 {
			continue
		}
		groups = append(groups, DepartmentGroup{Department: department, Jobs: departmentJobs})
	}
	return groups
}

// ResolveChips labels every selected id; ids missing from the lookups are skipped.
func ResolveChips(state filters.State, lookups models.Lookups) []Chip {
	collections := map[filters.Category][]models.LookupItem{
		filters.Department: lookups.Departments,
		filters.Location:   lookups.Locations,
		filters.Function:   lookups.Functions,
	}

	chips := []Chip{}
	for _, category := range filters.Categories {
		for _, id := range state.Selected(category) {
			item, ok := models.FindLookup(collections[category], id)
			if !ok {
				continue
			}
			chips = append(chips, Chip{Category: category, ID: id, Title: item.Title})
		}
	}
	return chips
}
