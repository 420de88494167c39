// Package probe calls a running sheet row-count service repeatedly and checks
// that every response is the same.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/sheetcount/pkg/logger"
)

// Run executes cfg.Requests sequential lookups against cfg.BaseURL.
// It returns ErrInconsistent when any outcome differs from the first one.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	if cfg == nil || cfg.BaseURL == "" || cfg.Requests < 1 {
		return nil, fmt.Errorf("%w: base url and a positive request count are required", ErrInvalidConfig)
	}

	log := logger.Named("probe")
	client := newHTTPClient(cfg.Timeout)
	report := &Report{StartTime: time.Now(), Consistent: true}

	for i := 0; i < cfg.Requests; i++ {
		out, err := client.rowCount(ctx, cfg.BaseURL)
		if err != nil {
			report.Duration = time.Since(report.StartTime)
			return report, err
		}
		report.Outcomes = append(report.Outcomes, out)

		if cfg.Verbose {
			log.Info(ctx, "response",
				logger.Int("attempt", i+1),
				logger.Int("status", out.StatusCode),
				logger.Bool("success", out.Success),
				logger.Int("row_count", out.RowCount),
				logger.Bool("exceeds_threshold", out.ExceedsThreshold),
				logger.String("error", out.Error))
		}
		if out != report.Outcomes[0] {
			report.Consistent = false
		}
	}
	report.Duration = time.Since(report.StartTime)

	first := report.Outcomes[0]
	log.Info(ctx, "probe finished",
		logger.Int("requests", len(report.Outcomes)),
		logger.Int("status", first.StatusCode),
		logger.Int("row_count", first.RowCount),
		logger.Bool("exceeds_threshold", first.ExceedsThreshold),
		logger.Bool("consistent", report.Consistent),
		logger.Duration("duration", report.Duration))

	if !report.Consistent {
		return report, ErrInconsistent
	}
	return report, nil
}
