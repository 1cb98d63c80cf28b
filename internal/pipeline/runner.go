package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pallapizza/daily-report-runner/internal/domain"
	"github.com/pallapizza/daily-report-runner/internal/observability"
)

// ReportFetcher requests a venue's daily report from the backend.
type ReportFetcher interface {
	FetchDailyReport(ctx context.Context, r domain.ReportRequest) (domain.DailyReport, error)
}

// ReportSaver stores a merged report record.
type ReportSaver interface {
	SaveReport(ctx context.Context, record *domain.Fields) error
}

// Publisher fans a saved record out to another destination.
type Publisher interface {
	Publish(ctx context.Context, date, venue string, record *domain.Fields) error
}

// Settings are the per-run report parameters.
type Settings struct {
	BackendURL string
	Venues     []string
	Lang       string
	Tone       string
}

// Runner generates the daily report of every venue, one venue at a time.
type Runner struct {
	fetcher   ReportFetcher
	saver     ReportSaver
	publisher Publisher
	settings  Settings
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Runner. The venue order in settings is the processing order.
func New(f ReportFetcher, s ReportSaver, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		fetcher:  f,
		saver:    s,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// WithPublisher sets an optional publisher called after every successful save.
func (r *Runner) WithPublisher(p Publisher) *Runner {
	r.publisher = p
	return r
}

// CheckReadiness returns nil once at least one run has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no report run has completed yet")
	}
	return nil
}

// RunOnce reports every venue for today's date. A failing venue is logged and
// skipped; it never stops the run. If ctx ends mid-run the remaining venues
// are recorded as failed without contacting the backend.
func (r *Runner) RunOnce(ctx context.Context) domain.RunSummary {
	start := time.Now()
	summary := domain.RunSummary{Date: domain.Today()}
	r.metrics.RunsTotal.Inc()

	r.logger.Info("📅 Generando reportes para el día "+summary.Date, "date", summary.Date, "venues", len(r.settings.Venues))

	for _, venue := range r.settings.Venues {
		if err := ctx.Err(); err != nil {
			summary.Add(domain.VenueResult{Venue: venue, Stage: domain.StageFetch, Err: err})
			r.metrics.VenuesFailed.WithLabelValues(string(domain.StageFetch)).Inc()
			continue
		}
		res := r.reportVenue(ctx, summary.Date, venue)
		summary.Add(res)
		if res.OK() {
			r.metrics.VenuesSucceeded.Inc()
		} else {
			r.metrics.VenuesFailed.WithLabelValues(string(res.Stage)).Inc()
		}
	}

	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.metrics.LastRunTimestamp.Set(float64(domain.Clock().Now().Unix()))
	r.metrics.LastRunFailed.Set(float64(summary.Failed))
	r.ready.Store(true)

	r.logger.Info("🎉 Todos los reportes procesados.",
		"date", summary.Date,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"failed_venues", summary.FailedVenues(),
	)
	return summary
}

// reportVenue fetches, merges and saves one venue's report.
func (r *Runner) reportVenue(ctx context.Context, date, venue string) domain.VenueResult {
	report, err := r.fetcher.FetchDailyReport(ctx, domain.ReportRequest{
		BackendURL: r.settings.BackendURL,
		Venue:      venue,
		Date:       date,
		Lang:       r.settings.Lang,
		Tone:       r.settings.Tone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyReport) {
			r.logger.Warn("⚠️ Error al obtener datos para "+venue, "venue", venue, "error", err)
		} else {
			r.logger.Error("❌ Error procesando "+venue, "venue", venue, "stage", domain.StageFetch, "error", err)
		}
		return domain.VenueResult{Venue: venue, Stage: domain.StageFetch, Err: fmt.Errorf("fetch daily report: %w", err)}
	}

	record := domain.BuildRecord(date, venue, report)

	if err := r.saver.SaveReport(ctx, record); err != nil {
		r.logger.Error("❌ Error procesando "+venue, "venue", venue, "stage", domain.StageSave, "error", err)
		return domain.VenueResult{Venue: venue, Stage: domain.StageSave, Err: fmt.Errorf("save report: %w", err)}
	}

	r.logger.Info("✅ Reporte guardado para "+venue, "venue", venue, "fields", record.Len())
	r.publish(ctx, date, venue, record)
	return domain.VenueResult{Venue: venue}
}

func (r *Runner) publish(ctx context.Context, date, venue string, record *domain.Fields) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, date, venue, record); err != nil {
		r.logger.Warn("publish record failed", "venue", venue, "error", err)
		r.metrics.PublishErrors.Inc()
		return
	}
	r.metrics.RecordsPublished.Inc()
}

// Run reports immediately and then once per interval until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid report interval %s", interval)
	}
	r.logger.Info("scheduler started", "interval", interval)

	ticker := domain.Clock().NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			r.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		}
		r.RunOnce(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}
