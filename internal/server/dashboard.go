package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/diff"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/scan"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	defaultChangesLimit = 10
	maxChangesLimit     = 50
)

// handleScanHistory returns recent scan reports, newest first
func (s *Server) handleScanHistory(c *gin.Context) {
	limit := queryLimit(c, defaultHistoryLimit, maxHistoryLimit)
	reports, err := s.store.ListReports(c.Request.Context(), int64(limit))
	if err != nil {
		serverError(c, "failed to load scan history", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// handleAPISummary describes the latest state of every watched API,
// sorted by most recent scan
func (s *Server) handleAPISummary(c *gin.Context) {
	ctx := c.Request.Context()
	names, err := s.store.ListAPINames(ctx)
	if err != nil {
		serverError(c, "failed to list APIs", err)
		return
	}

	summaries := make([]api.APISummary, 0, len(names))
	for _, name := range names {
		versions, err := s.store.ListVersions(ctx, name)
		if err != nil {
			serverError(c, "failed to load versions", err)
			return
		}
		if len(versions) == 0 {
			continue
		}

		latest := versions[0]
		summary := api.APISummary{
			APIName:           name,
			LastScanTimestamp: latest.Timestamp,
			LastScanStatus:    api.ScanSuccess,
			TotalEndpoints:    latest.EndpointCount,
		}

		if len(versions) > 1 {
			changes, err := s.versionDelta(
				c, name, versions[1].Timestamp, latest.Timestamp,
			)
			if err != nil {
				return
			}
			summary.RecentChanges = changes.Summary()
			if !changes.Empty() {
				summary.LastChangeTimestamp = latest.Timestamp
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastScanTimestamp >
			summaries[j].LastScanTimestamp
	})
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) versionDelta(
	c *gin.Context, name string, oldTS, newTS int64,
) (api.ChangeSet, error) {
	ctx := c.Request.Context()
	previous, err := s.store.Items(ctx, name, oldTS)
	if err != nil {
		serverError(c, "failed to load snapshot", err)
		return api.ChangeSet{}, err
	}
	current, err := s.store.Items(ctx, name, newTS)
	if err != nil {
		serverError(c, "failed to load snapshot", err)
		return api.ChangeSet{}, err
	}
	return diff.Endpoints(previous, current), nil
}

// handleRescan scrapes one API on demand and reports what changed
func (s *Server) handleRescan(c *gin.Context) {
	var req api.RescanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("invalid request: %v", err),
			Status: http.StatusBadRequest,
		})
		return
	}

	result, changes := s.scanner.Rescan(c.Request.Context(), scan.Source{
		Name: req.APIName,
		URL:  req.OpenAPIURL,
	})
	if result.Status != api.ScanSuccess {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error: fmt.Sprintf(
				"invalid OpenAPI URL or no endpoints found for %s: %s",
				req.APIName, result.Error,
			),
			Status: http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, api.RescanResponse{
		APIName:         req.APIName,
		Timestamp:       result.Timestamp,
		EndpointsCount:  result.EndpointsCount,
		ChangesDetected: !changes.Empty(),
		ChangesSummary:  changes.Summary(),
	})
}

// handleAPIChanges returns an API's stored versions with their endpoint
// payloads, newest first
func (s *Server) handleAPIChanges(c *gin.Context) {
	ctx := c.Request.Context()
	apiName := c.Param("apiName")
	limit := queryLimit(c, defaultChangesLimit, maxChangesLimit)

	versions, err := s.store.ListVersions(ctx, apiName)
	if err != nil {
		serverError(c, "failed to load versions", err)
		return
	}
	if len(versions) > limit {
		versions = versions[:limit]
	}

	scans := make([]api.SnapshotDigest, 0, len(versions))
	for _, version := range versions {
		items, err := s.store.Items(ctx, apiName, version.Timestamp)
		if err != nil {
			serverError(c, "failed to load snapshot", err)
			return
		}
		scans = append(scans, api.SnapshotDigest{
			Timestamp:      version.Timestamp,
			EndpointsCount: len(items),
			Endpoints:      items,
		})
	}

	c.JSON(http.StatusOK, api.APIChangesResponse{
		APIName:    apiName,
		Scans:      scans,
		TotalScans: len(scans),
	})
}

// handleDeleteSnapshots removes stored snapshots for an API, optionally
// narrowed by timestamp, endpoint, and method query parameters
func (s *Server) handleDeleteSnapshots(c *gin.Context) {
	ctx := c.Request.Context()
	apiName := c.Param("apiName")

	var ts int64
	if tsStr := c.Query("timestamp"); tsStr != "" {
		ts = api.ParseTimestamp(tsStr)
		if ts == 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error:  fmt.Sprintf("invalid timestamp: %q", tsStr),
				Status: http.StatusBadRequest,
			})
			return
		}
	}

	endpoint := c.Query("endpoint")
	var method api.Method
	if methodStr := c.Query("method"); methodStr != "" {
		m, ok := api.ParseMethod(methodStr)
		if !ok {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error:  fmt.Sprintf("invalid method: %q", methodStr),
				Status: http.StatusBadRequest,
			})
			return
		}
		method = m
	}

	var deleted int64
	var err error
	if ts == 0 {
		deleted, err = s.store.DeleteAll(ctx, apiName)
	} else {
		deleted, err = s.store.Delete(ctx, apiName, ts, endpoint, method)
	}
	if err != nil {
		serverError(c, "failed to delete snapshots", err)
		return
	}

	c.JSON(http.StatusOK, api.DeleteResponse{
		APIName:      apiName,
		DeletedCount: deleted,
	})
}

func queryLimit(c *gin.Context, def, max int) int {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return def
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func serverError(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %v", msg, err),
		Status: http.StatusInternalServerError,
	})
}
