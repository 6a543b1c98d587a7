// Package scan orchestrates the periodic documentation scan: scrape each
// configured source, snapshot the result, diff against the previous
// version, and publish change notifications.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/diff"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/extract"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/snapshot"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/log"
)

type (
	// Source is one documentation location to watch
	Source struct {
		Name string
		URL  string
	}

	// Scanner runs scan cycles. Sources are processed sequentially; one
	// source failing never aborts the cycle.
	Scanner struct {
		extractor *extract.Extractor
		store     snapshot.Store
		notifier  Notifier
	}
)

// ErrNoEndpoints is reported when a source yields nothing to snapshot
var ErrNoEndpoints = errors.New("no endpoints found")

// New creates a scanner. The notifier may be nil, which disables change
// notifications.
func New(
	e *extract.Extractor, store snapshot.Store, notifier Notifier,
) *Scanner {
	return &Scanner{
		extractor: e,
		store:     store,
		notifier:  notifier,
	}
}

// ScanAll runs one scan cycle over the given sources and returns the
// aggregated report. The report is appended to the scan history
// best-effort.
func (s *Scanner) ScanAll(
	ctx context.Context, sources []Source,
) api.ScanReport {
	report := api.ScanReport{
		ScanID:           "scan_" + uuid.NewString(),
		Timestamp:        time.Now().Unix(),
		Results:          make([]api.ScanResult, 0, len(sources)),
		TotalAPIsScanned: len(sources),
	}

	for _, src := range sources {
		result := s.ScanSource(ctx, src)
		if result.Status == api.ScanSuccess {
			report.SuccessfulScans++
		}
		report.Results = append(report.Results, result)
	}

	if err := s.store.PutReport(ctx, report); err != nil {
		slog.Warn("Failed to record scan report", log.Error(err))
	}

	slog.Info("Scan cycle completed",
		slog.String("scan_id", report.ScanID),
		slog.Int("total", report.TotalAPIsScanned),
		slog.Int("successful", report.SuccessfulScans))
	return report
}

// ScanSource scrapes one source, stores the snapshot, and notifies when
// the endpoint set differs from the previous version. The first snapshot
// of an API is the baseline and never triggers a notification.
func (s *Scanner) ScanSource(
	ctx context.Context, src Source,
) api.ScanResult {
	result, _ := s.Rescan(ctx, src)
	return result
}

// Rescan is ScanSource with the detected change set exposed, for callers
// that need to report what changed
func (s *Scanner) Rescan(
	ctx context.Context, src Source,
) (api.ScanResult, api.ChangeSet) {
	ts := time.Now().Unix()

	records, lowConfidence, err := s.scrape(ctx, src.URL)
	if err != nil {
		slog.Warn("Source scan failed",
			log.APIName(src.Name), log.SourceURL(src.URL), log.Error(err))
		return failedResult(src.Name, ts, err), api.ChangeSet{}
	}
	if len(records) == 0 {
		slog.Warn("Source yielded no endpoints",
			log.APIName(src.Name), log.SourceURL(src.URL))
		return failedResult(src.Name, ts, ErrNoEndpoints), api.ChangeSet{}
	}

	quality := extract.Quality(records, lowConfidence)
	slog.Info("Extraction quality",
		log.APIName(src.Name),
		slog.Int("endpoints", quality.TotalEndpoints),
		slog.Float64("auth_rate", quality.AuthDetectionRate),
		slog.Float64("input_rate", quality.InputSchemaRate),
		slog.Float64("output_rate", quality.OutputSchemaRate),
		slog.Bool("low_confidence", quality.LowConfidence))

	previous := s.previousItems(ctx, src.Name)
	current := s.storeSnapshot(ctx, src, records, ts)

	var changes api.ChangeSet
	if len(previous) == 0 {
		slog.Info("Baseline snapshot stored",
			log.APIName(src.Name), log.Timestamp(ts))
	} else {
		changes = s.compareAndNotify(ctx, src.Name, ts, previous, current)
	}

	return api.ScanResult{
		APIName:        src.Name,
		Timestamp:      ts,
		EndpointsCount: len(records),
		Status:         api.ScanSuccess,
	}, changes
}

// scrape tries the source as an OpenAPI document first, falling back to
// HTML extraction when the body is not JSON
func (s *Scanner) scrape(
	ctx context.Context, url string,
) ([]api.EndpointRecord, bool, error) {
	records, err := s.extractor.ScrapeOpenAPI(ctx, url)
	if err == nil {
		return records, false, nil
	}
	if !errors.Is(err, extract.ErrParse) {
		return nil, false, err
	}

	slog.Debug("Source is not OpenAPI JSON, trying HTML",
		log.SourceURL(url))
	records, err = s.extractor.ScrapeHTML(ctx, url)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func (s *Scanner) previousItems(
	ctx context.Context, apiName string,
) []api.StoredItem {
	versions, err := s.store.ListVersions(ctx, apiName)
	if err != nil || len(versions) == 0 {
		return nil
	}
	items, err := s.store.Items(ctx, apiName, versions[0].Timestamp)
	if err != nil {
		slog.Warn("Failed to load previous snapshot",
			log.APIName(apiName), log.Error(err))
		return nil
	}
	return items
}

func (s *Scanner) storeSnapshot(
	ctx context.Context, src Source, records []api.EndpointRecord, ts int64,
) []api.StoredItem {
	items := make([]api.StoredItem, 0, len(records))
	for _, rec := range records {
		item, err := s.store.Put(
			ctx, src.Name, rec.Path, rec.Method,
			api.EndpointSchema{
				Input:  rec.InputSchema,
				Output: rec.OutputSchema,
			},
			api.NewMetadata(rec.AuthType, src.URL, ts), ts,
		)
		if err != nil {
			slog.Warn("Failed to store endpoint snapshot",
				log.APIName(src.Name),
				slog.String("path", rec.Path),
				log.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items
}

func (s *Scanner) compareAndNotify(
	ctx context.Context, apiName string, ts int64,
	previous, current []api.StoredItem,
) api.ChangeSet {
	changes := diff.Endpoints(previous, current)
	if changes.Empty() {
		slog.Info("No changes detected", log.APIName(apiName))
		return changes
	}

	summary := changes.Summary()
	slog.Info("Schema changes detected",
		log.APIName(apiName),
		slog.Int("added", summary.AddedCount),
		slog.Int("removed", summary.RemovedCount),
		slog.Int("modified", summary.ModifiedCount))

	if s.notifier == nil {
		return changes
	}
	note := api.ChangeNotification{
		APIName:        apiName,
		Timestamp:      ts,
		ChangesSummary: summary,
		Changes:        changes,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		slog.Warn("Failed to publish change notification",
			log.APIName(apiName), log.Error(err))
	}
	return changes
}

func failedResult(apiName string, ts int64, err error) api.ScanResult {
	return api.ScanResult{
		APIName:   apiName,
		Timestamp: ts,
		Status:    api.ScanFailed,
		Error:     err.Error(),
	}
}
