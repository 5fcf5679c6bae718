package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"neptune/internal/archive"
	"neptune/internal/config"
	"neptune/internal/jump"
	"neptune/internal/metrics"
	"neptune/internal/record"
	"neptune/internal/report"
)

// Application runs one report over one archive.
type Application struct {
	config  Config
	logger  *logrus.Logger
	metrics *metrics.Manager
	runID   string
}

// Option configures an Application.
type Option func(*Application)

// WithLogger replaces the default stderr logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(app *Application) {
		app.logger = logger
	}
}

// WithMetrics replaces the private metrics registry.
func WithMetrics(m *metrics.Manager) Option {
	return func(app *Application) {
		app.metrics = m
	}
}

// NewApplication creates a new application instance
func NewApplication(cfg Config, opts ...Option) *Application {
	app := &Application{
		config: cfg,
		logger: logrus.New(),
		runID:  newRunID(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.metrics == nil {
		app.metrics = metrics.NewManager()
	}
	return app
}

// RunID returns the id attached to this run's log entries.
func (app *Application) RunID() string {
	return app.runID
}

// Run decodes the input archive and writes the selected report to out.
func (app *Application) Run(ctx context.Context, out io.Writer) error {
	opts, err := app.reportOptions()
	if err != nil {
		return err
	}

	settings, err := config.Load(ctx, app.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	defer app.configureLogging(settings)()

	app.logger.WithFields(logrus.Fields{
		"version":     Version,
		"input":       app.config.InputFile,
		"dump_type":   opts.Kind,
		"jump_number": opts.JumpNumber,
	}).Debug("Starting Neptune dump")

	input, err := archive.Open(app.config.InputFile)
	if err != nil {
		return err
	}
	defer input.Close()

	dec := record.NewDecoder(contextSource{ctx: ctx, src: input}, app.logger, record.WithMetrics(app.metrics))
	w := report.NewWriter(out, app.logger, opts)

	if opts.Kind.NeedsDataset() {
		builder := jump.NewBuilder(dec, app.logger,
			jump.WithCapacity(settings.MaxJumpRecords, settings.MaxProfiles, settings.MaxProfilePoints),
			jump.WithOverflowPolicy(settings.Policy()),
			jump.WithJumpFilter(opts.JumpNumber),
			jump.WithMetrics(app.metrics),
		)
		ds, buildErr := builder.Build()
		if ds == nil {
			return fmt.Errorf("failed to build dataset: %w", buildErr)
		}
		err = w.RenderDataset(ds)
		if err == nil && buildErr != nil {
			// The report covers what was read before the input failed.
			app.logStatistics(dec)
			return fmt.Errorf("dataset incomplete: %w", buildErr)
		}
	} else {
		err = w.Render(dec)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", opts.Kind, err)
	}

	app.logStatistics(dec)
	return nil
}

func (app *Application) reportOptions() (report.Options, error) {
	kind, err := report.ParseKind(app.config.DumpType)
	if err != nil {
		return report.Options{}, err
	}
	opts := report.Options{
		Kind:       kind,
		SubTypes:   app.config.SubTypes,
		Location:   app.config.Location,
		JumpNumber: app.config.JumpNumber,
	}
	if err := opts.Validate(); err != nil {
		return report.Options{}, err
	}
	return opts, nil
}

// logStatistics reports what the decoder saw. Rejected lines and dropped
// data are warnings; the rest is debug output.
func (app *Application) logStatistics(dec *record.Decoder) {
	snapshot, err := app.metrics.Snapshot()
	if err != nil {
		app.logger.WithError(err).Warn("Failed to gather decode statistics")
		return
	}

	fields := logrus.Fields{
		"lines":       dec.Line(),
		"invalid_hex": dec.InvalidHexCount(),
	}
	problems := false
	for name, value := range snapshot {
		fields[name] = value
		if value > 0 && isProblemMetric(name) {
			problems = true
		}
	}

	entry := app.logger.WithFields(fields)
	if problems {
		entry.Warn("Decode finished with rejected or dropped data")
		return
	}
	entry.Debug("Decode statistics")
}

func isProblemMetric(name string) bool {
	return strings.Contains(name, "_rejected_lines_total") || strings.Contains(name, "_capacity_drops_total")
}

// contextSource stops reading once ctx is done.
type contextSource struct {
	ctx context.Context
	src record.LineSource
}

func (s contextSource) ReadLine() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	return s.src.ReadLine()
}
