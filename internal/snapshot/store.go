// Package snapshot persists endpoint schemas as versioned snapshots keyed
// by the four-part composite (api_name, timestamp, endpoint, method).
package snapshot

import (
	"context"
	"errors"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

type (
	// Store is the versioned key-value persistence contract. The backend
	// is an external dependency: implementations must degrade transient
	// unavailability to empty/zero results so callers can keep scanning.
	Store interface {
		// Put upserts one endpoint schema under its composite key. The
		// same four-part key overwrites. Writes are best-effort: the
		// composed item is returned even when the backend is unreachable.
		Put(
			ctx context.Context, apiName, endpoint string,
			method api.Method, schema api.EndpointSchema,
			meta api.SnapshotMetadata, ts int64,
		) (api.StoredItem, error)

		// Get looks up one stored item, optionally narrowed by endpoint
		// and method. Empty endpoint/method match the first item of the
		// version. Returns ErrNotFound when nothing matches.
		Get(
			ctx context.Context, apiName string, ts int64,
			endpoint string, method api.Method,
		) (api.StoredItem, error)

		// ListVersions returns all snapshot versions for an API, newest
		// first
		ListVersions(ctx context.Context, apiName string) (
			[]api.VersionInfo, error,
		)

		// ListAPINames returns the set of APIs with stored snapshots
		ListAPINames(ctx context.Context) ([]string, error)

		// Items returns every stored item of one snapshot version
		Items(ctx context.Context, apiName string, ts int64) (
			[]api.StoredItem, error,
		)

		// Delete removes a single timestamp's worth of items, or one
		// endpoint within it when endpoint (and optionally method) is
		// given. Returns the number of items removed.
		Delete(
			ctx context.Context, apiName string, ts int64,
			endpoint string, method api.Method,
		) (int64, error)

		// DeleteAll removes every snapshot of an API
		DeleteAll(ctx context.Context, apiName string) (int64, error)

		// PutReport records one scan cycle's report in the scan history
		PutReport(ctx context.Context, report api.ScanReport) error

		// ListReports returns recent scan reports, newest first. A
		// non-positive limit returns the whole retained history.
		ListReports(ctx context.Context, limit int64) (
			[]api.ScanReport, error,
		)
	}
)

var (
	// ErrNotFound is returned when no stored item matches a lookup
	ErrNotFound = errors.New("snapshot not found")

	// ErrStore is returned for non-transient persistence failures
	// (encoding errors, corrupt payloads); backend unavailability never
	// surfaces as an error
	ErrStore = errors.New("snapshot store failure")
)
