package app

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"neptune/internal/config"
)

// runIDHook tags every entry with the id of the current run.
type runIDHook struct {
	id string
}

func (h runIDHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h runIDHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["run_id"]; !ok {
		entry.Data["run_id"] = h.id
	}
	return nil
}

func newRunID() string {
	return uuid.New().String()
}

// configureLogging applies level and outputs from settings. The returned
// function closes the log file, if any, and puts the logger's level, hooks
// and output back the way they were.
func (app *Application) configureLogging(settings *config.Config) func() {
	logger := app.logger
	prevLevel := logger.GetLevel()
	prevOut := logger.Out
	prevHooks := make(logrus.LevelHooks)
	for level, hooks := range logger.Hooks {
		prevHooks[level] = append([]logrus.Hook(nil), hooks...)
	}

	if app.config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(settings.Level())
	}
	logger.AddHook(runIDHook{id: app.runID})

	var rotator *lumberjack.Logger
	if settings.LogFile != "" {
		rotator = &lumberjack.Logger{
			Filename:   settings.LogFile,
			MaxSize:    settings.LogMaxSizeMB,
			MaxBackups: settings.LogMaxBackups,
			Compress:   settings.LogCompress,
		}
		out := prevOut
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(io.MultiWriter(out, rotator))
	}

	return func() {
		logger.SetOutput(prevOut)
		logger.ReplaceHooks(prevHooks)
		logger.SetLevel(prevLevel)
		if rotator != nil {
			if err := rotator.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close log file")
			}
		}
	}
}
