package logger

import (
	"github.com/maxaizer/jobboard/internal/config"
	"github.com/maxaizer/jobboard/pkg/loki"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeJobsApi = "jobs_api"
	ErrorTypeTgApi   = "tg_api"
	ErrorTypeHttp    = "http"
)

var (
	logFile    *os.File
	lokiPusher *loki.Pusher
)

func Setup(cfg config.LoggerConfig) {

	writers := []io.Writer{os.Stdout}

	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
			log.Fatalf("Failed to create log directory: %v", err)
		}

		var err error
		logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	})
	addErrorsHook()
	log.SetLevel(Level(cfg.LogLevel))

	if cfg.LokiURL != "" {
		pusher, err := addLokiHook(cfg, Level(cfg.LogLevel))
		if err != nil {
			log.Errorf("can't enable loki logging: %v", err)
		} else {
			lokiPusher = pusher
		}
	}
}

func Level(level config.LogLevel) log.Level {
	switch level {
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if lokiPusher != nil {
		lokiPusher.Stop()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
