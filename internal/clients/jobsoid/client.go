package jobsoid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://teknorix.jobsoid.com/api/v1"
	DefaultTimeout = 10 * time.Second
)

// RequestError is returned for transport failures (Status == 0) and non-2xx responses.
type RequestError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d, body: %s", e.Endpoint, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL     string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) FetchJobs(ctx context.Context, parameters SearchParameters) ([]models.Job, error) {

	path := "/jobs"
	if params := parameters.ToUrlParams(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	var jobs []models.Job
	if err := c.get(ctx, "jobs", path, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) FetchJobByID(ctx context.Context, id int) (models.Job, error) {

	var job models.Job
	if err := c.get(ctx, "job", "/jobs/"+strconv.Itoa(id), &job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

func (c *Client) FetchLocations(ctx context.Context) ([]models.LookupItem, error) {
	return c.fetchLookup(ctx, "locations")
}

func (c *Client) FetchDepartments(ctx context.Context) ([]models.LookupItem, error) {
	return c.fetchLookup(ctx, "departments")
}

func (c *Client) FetchDivisions(ctx context.Context) ([]models.LookupItem, error) {
	return c.fetchLookup(ctx, "divisions")
}

func (c *Client) FetchFunctions(ctx context.Context) ([]models.LookupItem, error) {
	return c.fetchLookup(ctx, "functions")
}

func (c *Client) fetchLookup(ctx context.Context, collection string) ([]models.LookupItem, error) {
	var items []models.LookupItem
	if err := c.get(ctx, collection, "/"+collection, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string, path string, target any) error {

	body, err := c.sendRequest(ctx, endpoint, http.MethodGet, c.baseURL+path)
	if err != nil {
		return err
	}

	if err = json.NewDecoder(bytes.NewReader(body)).Decode(target); err != nil {
		return errors.Wrapf(err, "error decoding %s response", endpoint)
	}
	return nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, method string, url string) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsCounter.WithLabelValues(endpoint, "error").Inc()
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	metrics.APIRequestsCounter.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	return c.handleResponse(endpoint, resp)
}

func (c *Client) handleResponse(endpoint string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
