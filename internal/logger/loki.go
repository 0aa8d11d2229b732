package logger

import (
	"context"
	"fmt"
	"github.com/maxaizer/jobboard/internal/config"
	"github.com/maxaizer/jobboard/pkg/loki"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strconv"
)

type lokiHook struct {
	pusher   *loki.Pusher
	minLevel log.Level
}

func (h *lokiHook) Fire(entry *log.Entry) error {
	caller := ""
	if entry.Caller != nil {
		caller = filepath.Base(entry.Caller.Function) + ":" + strconv.Itoa(entry.Caller.Line)
	}

	var fields map[string]any
	if len(entry.Data) > 0 {
		fields = make(map[string]any, len(entry.Data))
		for key, value := range entry.Data {
			if err, ok := value.(error); ok {
				value = err.Error()
			}
			fields[key] = value
		}
	}

	// a full buffer only loses the remote copy; the line is already on stdout.
	_ = h.pusher.Push(loki.Entry{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Caller:  caller,
		Fields:  fields,
	})
	return nil
}

func (h *lokiHook) Levels() []log.Level {
	var levels []log.Level
	for _, level := range log.AllLevels {
		if level <= h.minLevel {
			levels = append(levels, level)
		}
	}
	return levels
}

func addLokiHook(cfg config.LoggerConfig, minLevel log.Level) (*loki.Pusher, error) {
	pusher, err := loki.New(context.Background(), loki.Config{
		URL:      cfg.LokiURL,
		Labels:   map[string]string{"app": cfg.AppName},
		Username: cfg.LokiUser,
		Password: cfg.LokiPassword,
	}, func(err error) {
		// logging here would loop back into the pusher
		fmt.Fprintf(os.Stderr, "loki push failed: %v\n", err)
	})
	if err != nil {
		return nil, err
	}
	log.AddHook(&lokiHook{pusher: pusher, minLevel: minLevel})
	log.Info("Loki logging enabled")
	return pusher, nil
}
