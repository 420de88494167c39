// Package service counts the rows of the configured spreadsheet range and
// applies the row threshold. It implements the dependencies required by the
// HTTP API.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/sheetcount/internal/adapters/sheets"
	"github.com/okian/sheetcount/internal/config"
	"github.com/okian/sheetcount/internal/domain/rowcount"
	"github.com/okian/sheetcount/pkg/logger"
	"github.com/okian/sheetcount/pkg/metrics"
)

// SheetSource yields the sheet settings for one lookup.
type SheetSource func(ctx context.Context) (config.Sheet, error)

// Fetcher reads the rows of one range.
type Fetcher interface {
	FetchRows(ctx context.Context, sheet config.Sheet) (sheets.Rows, error)
}

// Service implements the row-count lookup.
type Service struct {
	source  SheetSource
	fetcher Fetcher
	metrics *metrics.Manager
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSheetSource replaces the environment-backed settings source.
func WithSheetSource(src SheetSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithFetcher sets the upstream client.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. Defaults read settings from the environment on every
// call and talk to the public Sheets API.
func New(opts ...Option) *Service {
	s := &Service{
		source:  config.LoadSheet,
		fetcher: sheets.New(),
		metrics: metrics.Default(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RowCount loads the sheet settings, fetches the range once and evaluates the
// threshold. Settings are re-read on every call.
func (s *Service) RowCount(ctx context.Context) (rowcount.Result, error) {
	sheet, err := s.source(ctx)
	if err != nil {
		s.logger.Error(ctx, "loading sheet settings failed", logger.Error(err))
		return rowcount.Result{}, err
	}
	if err := sheet.Validate(); err != nil {
		s.metrics.RecordConfigMissing()
		s.logger.Error(ctx, "sheet settings incomplete; set SHEETS_API_KEY and SHEET_ID")
		return rowcount.Result{}, err
	}

	start := time.Now()
	rows, err := s.fetcher.FetchRows(ctx, sheet)
	elapsed := time.Since(start)
	s.recordUpstream(ctx, rows, err, elapsed)
	if err != nil {
		s.logger.Warn(ctx, "row count lookup failed",
			logger.String("sheet_id", sheet.SheetID),
			logger.String("range", sheet.Range),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
		return rowcount.Result{}, err
	}

	res := rowcount.Evaluate(rows.Count)
	s.metrics.RecordRowCount(res.RowCount, res.ExceedsThreshold)
	s.logger.Debug(ctx, "row count lookup succeeded",
		logger.String("sheet_id", sheet.SheetID),
		logger.String("range", sheet.Range),
		logger.Int("row_count", res.RowCount),
		logger.Bool("exceeds_threshold", res.ExceedsThreshold),
		logger.Duration("elapsed", elapsed))
	return res, nil
}

func (s *Service) recordUpstream(ctx context.Context, rows sheets.Rows, err error, elapsed time.Duration) {
	outcome := metrics.OutcomeOK
	var statusErr *rowcount.UpstreamStatusError
	switch {
	case err == nil:
	case errors.As(err, &statusErr):
		outcome = metrics.OutcomeStatus
	case errors.Is(err, rowcount.ErrInvalidPayload):
		outcome = metrics.OutcomeInvalidPayload
	default:
		outcome = metrics.OutcomeUnreachable
	}
	latencyMs := float64(elapsed) / float64(time.Millisecond)
	if mErr := s.metrics.RecordUpstreamCall(outcome, rows.StatusCode, latencyMs); mErr != nil {
		s.logger.Warn(ctx, "recording upstream metrics failed", logger.Error(mErr))
	}
}
