package api

type (
	// ParseRequest carries a natural-language automation request
	ParseRequest struct {
		UserInput string `json:"user_input" binding:"required"`
	}

	// ParseResponse returns the generated flow with its trace ID
	ParseResponse struct {
		TraceID string       `json:"trace_id"`
		Flow    FlowDocument `json:"flow"`
	}

	// RescanRequest triggers a manual rescan of one API
	RescanRequest struct {
		APIName    string `json:"api_name" binding:"required"`
		OpenAPIURL string `json:"openapi_url" binding:"required"`
	}

	// RescanResponse reports the outcome of a manual rescan
	RescanResponse struct {
		APIName         string         `json:"api_name"`
		Timestamp       int64          `json:"timestamp"`
		EndpointsCount  int            `json:"endpoints_count"`
		ChangesDetected bool           `json:"changes_detected"`
		ChangesSummary  ChangesSummary `json:"changes_summary"`
	}

	// APISummary describes one API's latest scan state for the dashboard
	APISummary struct {
		APIName             string         `json:"api_name"`
		LastScanTimestamp   int64          `json:"last_scan_timestamp"`
		LastScanStatus      ScanStatus     `json:"last_scan_status"`
		TotalEndpoints      int            `json:"total_endpoints"`
		RecentChanges       ChangesSummary `json:"recent_changes"`
		LastChangeTimestamp int64          `json:"last_change_timestamp,omitempty"`
	}

	// SnapshotDigest is one stored version with its endpoint payloads
	SnapshotDigest struct {
		Timestamp      int64        `json:"timestamp"`
		EndpointsCount int          `json:"endpoints_count"`
		Endpoints      []StoredItem `json:"endpoints"`
	}

	// APIChangesResponse is the per-API change history
	APIChangesResponse struct {
		APIName    string           `json:"api_name"`
		Scans      []SnapshotDigest `json:"scans"`
		TotalScans int              `json:"total_scans"`
	}

	// DeleteResponse reports how many stored items a delete removed
	DeleteResponse struct {
		APIName      string `json:"api_name"`
		DeletedCount int64  `json:"deleted_count"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Status  string `json:"status"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}
)
