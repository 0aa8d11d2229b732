// Package loki batches log lines and pushes them to a Grafana Loki server.
package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

var ErrBufferFull = errors.New("loki buffer is full, entry dropped")

type Config struct {
	// URL of the push endpoint, e.g. https://example-prod.grafana.net/loki/api/v1/push
	URL string `validate:"required,url"`

	// Labels are attached to the single stream every entry is pushed to.
	Labels map[string]string

	BatchMaxSize int           `validate:"gte=1"`
	BatchMaxWait time.Duration `validate:"gt=0"`

	// BufferSize bounds the entries waiting for the next batch; Push drops entries beyond it.
	BufferSize int `validate:"gte=1"`

	// Optional basic auth and tenant header.
	Username string
	Password string
	TenantID string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 4 * cfg.BatchMaxSize
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type Entry struct {
	Time    time.Time      `json:"-"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Caller  string         `json:"caller,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type Pusher struct {
	config  Config
	client  *http.Client
	entries chan Entry
	onError func(error)

	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup
	batch  [][2]string
}

// New starts a pusher; onError receives failed pushes and must not log
// through a sink that feeds this pusher.
func New(ctx context.Context, cfg Config, onError func(error)) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid loki config")
	}

	if onError == nil {
		onError = func(error) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		entries: make(chan Entry, cfg.BufferSize),
		onError: onError,
		ctx:     ctx,
		cancel:  cancel,
		batch:   make([][2]string, 0, cfg.BatchMaxSize),
	}

	p.done.Add(1)
	go p.run()
	return p, nil
}

// Push queues e without blocking the caller.
func (p *Pusher) Push(e Entry) error {
	select {
	case p.entries <- e:
		return nil
	default:
		return ErrBufferFull
	}
}

// Stop flushes queued entries and waits for the final push.
func (p *Pusher) Stop() {
	p.cancel()
	p.done.Wait()
}

func (p *Pusher) run() {
	defer p.done.Done()

	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.drain()
			p.flush(context.Background())
			return
		case entry := <-p.entries:
			p.add(entry)
			if len(p.batch) >= p.config.BatchMaxSize {
				p.flush(p.ctx)
			}
		case <-ticker.C:
			p.flush(p.ctx)
		}
	}
}

func (p *Pusher) drain() {
	for {
		select {
		case entry := <-p.entries:
			p.add(entry)
		default:
			return
		}
	}
}

func (p *Pusher) add(entry Entry) {
	line, err := json.Marshal(entry)
	if err != nil {
		p.onError(errors.Wrap(err, "error encoding log entry"))
		return
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	p.batch = append(p.batch, [2]string{strconv.FormatInt(entry.Time.UnixNano(), 10), string(line)})
}

func (p *Pusher) flush(ctx context.Context) {
	if len(p.batch) == 0 {
		return
	}
	if err := p.send(ctx); err != nil {
		p.onError(err)
	}
	p.batch = p.batch[:0]
}

func (p *Pusher) send(ctx context.Context) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	body := pushRequest{Streams: []stream{{Stream: p.config.Labels, Values: p.batch}}}
	if err := json.NewEncoder(gz).Encode(body); err != nil {
		return errors.Wrap(err, "error encoding push request")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "error compressing push request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, &buf)
	if err != nil {
		return errors.Wrap(err, "error creating push request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", p.config.TenantID)
	}
	if p.config.Username != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "error sending logs to loki")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf("loki responded with %s: %s", resp.Status, string(respBody))
	}
	return nil
}
