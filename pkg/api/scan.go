package api

type (
	// ScanStatus reports the outcome of one source's scan
	ScanStatus string

	// ScanResult is the per-source outcome of a scan cycle
	ScanResult struct {
		APIName        string     `json:"api_name"`
		Timestamp      int64      `json:"timestamp"`
		EndpointsCount int        `json:"endpoints_count"`
		Status         ScanStatus `json:"status"`
		Error          string     `json:"error,omitempty"`
	}

	// ScanReport aggregates one full scan cycle across all sources. The
	// cycle itself always succeeds at this level, even if every source
	// failed.
	ScanReport struct {
		ScanID           string       `json:"scan_id"`
		Timestamp        int64        `json:"timestamp"`
		Results          []ScanResult `json:"results"`
		TotalAPIsScanned int          `json:"total_apis_scanned"`
		SuccessfulScans  int          `json:"successful_scans"`
	}

	// ModifiedEndpoint describes an endpoint whose schema payload changed
	// between two snapshot versions
	ModifiedEndpoint struct {
		Path       string         `json:"path"`
		Method     Method         `json:"method"`
		OldSchema  EndpointSchema `json:"old_schema"`
		NewSchema  EndpointSchema `json:"new_schema"`
		SchemaDiff []DiffEntry    `json:"schema_diff,omitempty"`
	}

	// ChangeSet is the endpoint-set level delta between two snapshots
	ChangeSet struct {
		AddedEndpoints    []EndpointKey      `json:"added_endpoints"`
		RemovedEndpoints  []EndpointKey      `json:"removed_endpoints"`
		ModifiedEndpoints []ModifiedEndpoint `json:"modified_endpoints"`
	}

	// ChangesSummary carries the counts of a ChangeSet
	ChangesSummary struct {
		AddedCount    int `json:"added_count"`
		RemovedCount  int `json:"removed_count"`
		ModifiedCount int `json:"modified_count"`
	}

	// ChangeNotification is the message published when a scan detects a
	// non-empty delta against the previous snapshot
	ChangeNotification struct {
		APIName        string         `json:"api_name"`
		Timestamp      int64          `json:"timestamp"`
		ChangesSummary ChangesSummary `json:"changes_summary"`
		Changes        ChangeSet      `json:"changes"`
	}
)

const (
	ScanSuccess ScanStatus = "success"
	ScanFailed  ScanStatus = "error"
)

// Empty reports whether the change set contains no differences
func (c *ChangeSet) Empty() bool {
	return len(c.AddedEndpoints) == 0 &&
		len(c.RemovedEndpoints) == 0 &&
		len(c.ModifiedEndpoints) == 0
}

// Summary returns the change counts
func (c *ChangeSet) Summary() ChangesSummary {
	return ChangesSummary{
		AddedCount:    len(c.AddedEndpoints),
		RemovedCount:  len(c.RemovedEndpoints),
		ModifiedCount: len(c.ModifiedEndpoints),
	}
}
