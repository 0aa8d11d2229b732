package views

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/description"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"net/url"
	"sync"
)

const (
	RelatedJobsLimit  = 4
	RequirementsShown = 6
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrStaleView   = errors.New("view was replaced by a newer request")
)

type ShareLinks struct {
	Facebook string `json:"facebook"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
}

type DetailView struct {
	JobID            int          `json:"jobId"`
	Job              *models.Job  `json:"job,omitempty"`
	Heading          string       `json:"heading,omitempty"`
	Overview         string       `json:"overview,omitempty"`
	Responsibilities []string     `json:"responsibilities,omitempty"`
	Requirements     []string     `json:"requirements,omitempty"`
	BonusPoints      []string     `json:"bonusPoints,omitempty"`
	Related          []models.Job `json:"related"`
	Share            *ShareLinks  `json:"share,omitempty"`
	NotFound         bool         `json:"notFound"`
}

type DetailController struct {
	api       JobsAPI
	shareBase string

	mu      sync.Mutex
	current int
	seq     uint64
	view    DetailView
}

// NewDetailController creates a controller; shareBase is used for share links
// of jobs without a hosted page.
func NewDetailController(api JobsAPI, shareBase string) *DetailController {
	return &DetailController{api: api, shareBase: shareBase}
}

// Open loads the job and its related jobs. The two fetches are independent:
// a failing related fetch yields an empty related list, a failing job fetch
// yields a NotFound view and ErrJobNotFound. If another Open starts before this
// one finishes, the result is discarded and ErrStaleView returned.
func (c *DetailController) Open(ctx context.Context, id int) (DetailView, error) {

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.current = id
	c.mu.Unlock()

	var (
		job     models.Job
		jobErr  error
		related = []models.Job{}
	)

	var g errgroup.Group
	g.Go(func() error {
		job, jobErr = c.api.FetchJobByID(ctx, id)
		if jobErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeJobsApi).
				Errorf("error loading job details %d: %v", id, jobErr)
		}
		return nil
	})
	g.Go(func() error {
		jobs, err := c.api.FetchJobs(ctx, jobsoid.SearchParameters{})
		if err != nil {
			log.Warnf("error loading related jobs for %d: %v", id, err)
			return nil
		}
		related = RelatedJobs(jobs, id)
		return nil
	})
	_ = g.Wait()

	view := DetailView{JobID: id, Related: related}
	if jobErr != nil {
		view.NotFound = true
	} else {
		view = c.buildView(job, related)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return view, ErrStaleView
	}
	c.view = view

	if view.NotFound {
		return view, errors.Wrapf(ErrJobNotFound, "id %d: %v", id, jobErr)
	}
	return view, nil
}

func (c *DetailController) View() DetailView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *DetailController) CurrentID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *DetailController) buildView(job models.Job, related []models.Job) DetailView {
	parsed := description.Parse(job.Description)
	requirements, bonus := SplitRequirements(parsed.Requirements)
	share := BuildShareLinks(job, c.shareBase)

	return DetailView{
		JobID:            job.ID,
		Job:              &job,
		Heading:          parsed.Heading(),
		Overview:         parsed.OverviewOrSummary(job.Description),
		Responsibilities: parsed.Responsibilities,
		Requirements:     requirements,
		BonusPoints:      bonus,
		Related:          related,
		Share:            &share,
	}
}

// RelatedJobs keeps list order and takes the first jobs other than currentID.
func RelatedJobs(jobs []models.Job, currentID int) []models.Job {
	related := lo.Filter(jobs, func(job models.Job, _ int) bool { return job.ID != currentID })
	if len(related) > RelatedJobsLimit {
		related = related[:RelatedJobsLimit]
	}
	return related
}

// SplitRequirements returns the first RequirementsShown entries and the rest;
// rest is nil when there is nothing beyond the shown entries.
func SplitRequirements(requirements []string) ([]string, []string) {
	if len(requirements) <= RequirementsShown {
		return requirements, nil
	}
	return requirements[:RequirementsShown], requirements[RequirementsShown:]
}

func BuildShareLinks(job models.Job, shareBase string) ShareLinks {
	target := url.QueryEscape(job.ShareURL(shareBase))
	return ShareLinks{
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + target,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + target,
		Twitter:  "https://twitter.com/intent/tweet?url=" + target + "&text=" + url.QueryEscape(job.Title),
	}
}
