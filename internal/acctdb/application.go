package acctdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/configuration"
	"github.com/G-Research/acctdb/internal/acctdb/filter"
	"github.com/G-Research/acctdb/internal/acctdb/metrics"
	"github.com/G-Research/acctdb/internal/acctdb/parse"
	"github.com/G-Research/acctdb/internal/acctdb/sink"
	"github.com/G-Research/acctdb/internal/acctdb/source"
	"github.com/G-Research/acctdb/internal/common/logging"
)

// DefaultConfiguration holds the values RectifyConfig falls back to.
var DefaultConfiguration = configuration.IngestConfiguration{
	DatabaseType:    configuration.DatabaseTypeSQLite,
	InsertBatchSize: 1000,
	FieldLayout:     parse.DefaultLayout.Version,
}

// RectifyConfig replaces unset or invalid optional settings with their defaults.
func RectifyConfig(config *configuration.IngestConfiguration) {
	logger := log.WithField("acctdb", "RectifyConfig")

	if config.DatabaseType == "" {
		logger.WithFields(log.Fields{
			"default":    DefaultConfiguration.DatabaseType,
			"configured": config.DatabaseType,
		}).Debug("config.DatabaseType not set, using default instead")
		config.DatabaseType = DefaultConfiguration.DatabaseType
	}
	if config.InsertBatchSize <= 0 {
		logger.WithFields(log.Fields{
			"default":    DefaultConfiguration.InsertBatchSize,
			"configured": config.InsertBatchSize,
		}).Debug("config.InsertBatchSize invalid, using default instead")
		config.InsertBatchSize = DefaultConfiguration.InsertBatchSize
	}
	if config.FieldLayout == "" {
		logger.WithFields(log.Fields{
			"default":    DefaultConfiguration.FieldLayout,
			"configured": config.FieldLayout,
		}).Debug("config.FieldLayout not set, using default instead")
		config.FieldLayout = DefaultConfiguration.FieldLayout
	}
}

// App ingests accounting files into a fresh accounting table.
type App struct {
	Config  *configuration.IngestConfiguration
	sink    sink.Sink
	parser  *parse.Parser
	filter  *filter.OwnerFilter
	loader  *Loader
	metrics *metrics.Metrics
	summary *Summary
	log     *log.Entry
}

// Ingest runs one complete ingestion with the sink selected by config.
func Ingest(ctx context.Context, config *configuration.IngestConfiguration) (*Summary, error) {
	RectifyConfig(config)
	if err := config.Validate(); err != nil {
		return &Summary{State: StateInit}, err
	}
	s, err := sink.New(config)
	if err != nil {
		return &Summary{State: StateInit}, err
	}
	return New(config, s).Run(ctx)
}

// New creates an App writing to s. The config is expected to be rectified and validated.
func New(config *configuration.IngestConfiguration, s sink.Sink) *App {
	runId := uuid.New().String()
	return &App{
		Config:  config,
		sink:    s,
		filter:  filter.NewOwnerFilter(config.Owner),
		loader:  NewLoader(s, config.InsertBatchSize),
		metrics: metrics.NewMetrics(),
		summary: &Summary{RunId: runId, State: StateInit},
		log:     log.WithField("runId", runId),
	}
}

// Run performs INIT -> SCHEMA_READY -> STREAMING -> DONE. Any fatal error moves the run to
// ABORTED; the returned summary then describes the work done up to that point. The sink
// is always closed before Run returns.
func (a *App) Run(ctx context.Context) (summary *Summary, err error) {
	summary = a.summary
	defer func() {
		if closeErr := a.sink.Close(); closeErr != nil {
			err = multierror.Append(err, errors.Wrap(closeErr, "closing destination"))
		}
		if err != nil {
			summary.State = StateAborted
			logging.WithStacktrace(a.log, err).Error("ingestion aborted")
		}
		a.metrics.RecordRunResult(err == nil)
		a.writeMetrics()
	}()

	layout, ok := parse.Layouts()[a.Config.FieldLayout]
	if !ok {
		return summary, errors.WithStack(&acctdberrors.ErrUsage{
			Message: fmt.Sprintf("unknown field layout %q", a.Config.FieldLayout),
		})
	}
	a.parser = parse.NewParser(layout)

	if a.filter.Empty() {
		a.log.Warn("no owners given; no records will be loaded")
	} else {
		a.log.Debugf("loading records owned by %v", a.filter.Owners())
	}

	if err := a.sink.Setup(ctx); err != nil {
		return summary, err
	}
	summary.State = StateSchemaReady

	summary.State = StateStreaming
	for _, path := range a.Config.Accounting {
		if err := a.ingestFile(ctx, path); err != nil {
			return summary, err
		}
	}
	summary.State = StateDone
	a.log.Infof("loaded %d records, skipped %d lines", summary.Loaded(), summary.Skipped())
	return summary, nil
}

func (a *App) ingestFile(ctx context.Context, path string) (err error) {
	fileLog := a.log.WithField("file", path)
	fileLog.Infof("INGESTING:\t%s", path)

	fs := FileSummary{Path: path}
	defer func() {
		a.summary.Files = append(a.summary.Files, fs)
	}()

	reader, err := source.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = errors.WithStack(&acctdberrors.ErrIO{Path: path, Op: "close", Cause: closeErr})
		}
	}()

	if err := a.loader.BeginFile(ctx); err != nil {
		return err
	}
	if err := a.streamLines(ctx, reader, &fs, fileLog); err != nil {
		if abortErr := a.loader.Abort(ctx); abortErr != nil {
			err = multierror.Append(err, abortErr)
		}
		return err
	}

	loaded, err := a.loader.CommitFile(ctx)
	if err != nil {
		return err
	}
	fs.Loaded = loaded
	a.metrics.RecordLoaded(path, loaded)
	fileLog.WithFields(log.Fields{
		"loaded":  fs.Loaded,
		"skipped": fs.Skipped,
	}).Debug("file committed")
	return nil
}

func (a *App) streamLines(ctx context.Context, reader *source.Reader, fs *FileSummary, fileLog *log.Entry) error {
	path := reader.Path()
	for reader.Next() {
		line := reader.Line()
		fs.Lines++
		a.metrics.RecordLineRead(path)

		record, err := a.parser.Parse(line.Text)
		if err != nil {
			if acctdberrors.IsFatal(err) {
				return err
			}
			var parseErr *acctdberrors.ErrParse
			if errors.As(err, &parseErr) {
				parseErr.Line = line.Number
			}
			fs.Skipped++
			a.metrics.RecordLineSkipped(path)
			fileLog.WithField("line", line.Number).Debugf("skipping line: %v", err)
			continue
		}
		fs.Parsed++

		if !a.filter.Accept(record) {
			fs.Filtered++
			a.metrics.RecordFiltered(path)
			continue
		}
		if err := a.loader.Add(ctx, record); err != nil {
			return err
		}
	}
	fs.Comments = reader.Comments()
	return reader.Err()
}

func (a *App) writeMetrics() {
	if a.Config.MetricsTextfile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.Config.MetricsTextfile); err != nil {
		logging.WithStacktrace(a.log, err).Warn("could not write metrics textfile")
	}
}
