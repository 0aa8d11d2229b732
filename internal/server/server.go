package server

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
	"time"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	ShareBaseURL     string
	ApplyURLTemplate string
}

type Handlers struct {
	client  views.JobsAPI
	options Options
}

type listResponse struct {
	views.ListView
	ApplyLinks map[int]string `json:"applyLinks"`
}

type notFoundResponse struct {
	Error string `json:"error"`
	Back  string `json:"back"`
}

func NewRouter(client views.JobsAPI, options Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	h := &Handlers{client: client, options: options}

	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", h.ListJobs)
	r.Get("/jobs/{id}", h.GetJob)

	return r
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListJobs renders the list view for the filters in the query string
// (q, loc, dept, fun).
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	state := filters.FromSearchParameters(jobsoid.ParseSearchParameters(r.URL.Query()))

	list := views.NewListController(h.client, nil, 0)
	list.Load(r.Context(), state)
	view := list.View()

	links := make(map[int]string)
	for _, group := range view.Groups {
		for _, job := range group.Jobs {
			links[job.ID] = job.ApplyLink(h.options.ApplyURLTemplate)
		}
	}

	writeJSON(w, http.StatusOK, listResponse{ListView: view, ApplyLinks: links})
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "job id must be a positive number")
		return
	}

	view, err := views.NewDetailController(h.client, h.options.ShareBaseURL).Open(r.Context(), id)
	if errors.Is(err, views.ErrJobNotFound) {
		writeJSON(w, http.StatusNotFound, notFoundResponse{Error: "Job Not Found", Back: "/"})
		return
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Errorf("error opening job %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errs := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error shutting down http server")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Errorf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
