package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/log"
)

type (
	// RedisStore persists snapshots in Redis. Each version is a hash keyed
	// by "{prefix}:snap:{api}:{ts}" whose fields are "METHOD path" entries
	// holding the JSON-encoded item. A sorted set per API tracks version
	// timestamps and a plain set tracks known API names.
	RedisStore struct {
		client *redis.Client
		prefix string
	}

	// Config holds Redis connection settings for the snapshot store
	Config struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}
)

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a snapshot store backed by the given Redis instance
func NewRedisStore(cfg Config) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "nl2flow"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Close releases the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Put(
	ctx context.Context, apiName, endpoint string, method api.Method,
	schema api.EndpointSchema, meta api.SnapshotMetadata, ts int64,
) (api.StoredItem, error) {
	item := api.StoredItem{
		APIName:   apiName,
		Endpoint:  endpoint,
		Method:    method,
		Timestamp: api.FormatTimestamp(ts),
		Schema:    schema,
		Metadata:  meta,
	}

	data, err := json.Marshal(&item)
	if err != nil {
		return item, fmt.Errorf("%w: %w", ErrStore, err)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.snapKey(apiName, item.Timestamp),
		fieldName(endpoint, method), data)
	pipe.ZAdd(ctx, s.versionsKey(apiName), redis.Z{
		Score:  float64(ts),
		Member: item.Timestamp,
	})
	pipe.SAdd(ctx, s.apisKey(), apiName)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Snapshot write skipped, store unavailable",
			log.APIName(apiName), log.Error(err))
	}
	return item, nil
}

func (s *RedisStore) Get(
	ctx context.Context, apiName string, ts int64,
	endpoint string, method api.Method,
) (api.StoredItem, error) {
	key := s.snapKey(apiName, api.FormatTimestamp(ts))

	if endpoint != "" && method != "" {
		data, err := s.client.HGet(ctx, key,
			fieldName(endpoint, method)).Result()
		if err != nil {
			if err != redis.Nil {
				slog.Warn("Snapshot read degraded, store unavailable",
					log.APIName(apiName), log.Error(err))
			}
			return api.StoredItem{}, ErrNotFound
		}
		return decodeItem([]byte(data))
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		slog.Warn("Snapshot read degraded, store unavailable",
			log.APIName(apiName), log.Error(err))
		return api.StoredItem{}, ErrNotFound
	}

	var matched []string
	for field := range fields {
		if endpoint == "" || fieldEndpoint(field) == endpoint {
			matched = append(matched, field)
		}
	}
	if len(matched) == 0 {
		return api.StoredItem{}, ErrNotFound
	}
	sort.Strings(matched)
	return decodeItem([]byte(fields[matched[0]]))
}

func (s *RedisStore) Items(
	ctx context.Context, apiName string, ts int64,
) ([]api.StoredItem, error) {
	key := s.snapKey(apiName, api.FormatTimestamp(ts))
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		slog.Warn("Snapshot read degraded, store unavailable",
			log.APIName(apiName), log.Error(err))
		return []api.StoredItem{}, nil
	}

	names := make([]string, 0, len(fields))
	for field := range fields {
		names = append(names, field)
	}
	sort.Strings(names)

	items := make([]api.StoredItem, 0, len(names))
	for _, field := range names {
		item, err := decodeItem([]byte(fields[field]))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisStore) ListVersions(
	ctx context.Context, apiName string,
) ([]api.VersionInfo, error) {
	members, err := s.client.ZRevRange(
		ctx, s.versionsKey(apiName), 0, -1,
	).Result()
	if err != nil {
		slog.Warn("Version listing degraded, store unavailable",
			log.APIName(apiName), log.Error(err))
		return []api.VersionInfo{}, nil
	}

	versions := make([]api.VersionInfo, 0, len(members))
	for _, member := range members {
		items, err := s.Items(ctx, apiName, api.ParseTimestamp(member))
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		versions = append(versions, versionInfo(member, items))
	}
	return versions, nil
}

func (s *RedisStore) ListAPINames(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.apisKey()).Result()
	if err != nil {
		slog.Warn("API listing degraded, store unavailable", log.Error(err))
		return []string{}, nil
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Delete(
	ctx context.Context, apiName string, ts int64,
	endpoint string, method api.Method,
) (int64, error) {
	if ts == 0 {
		return s.DeleteAll(ctx, apiName)
	}

	tsStr := api.FormatTimestamp(ts)
	key := s.snapKey(apiName, tsStr)

	var deleted int64
	var err error
	if endpoint == "" {
		deleted, err = s.deleteVersion(ctx, apiName, tsStr)
	} else {
		deleted, err = s.deleteFields(ctx, key, endpoint, method)
	}
	if err != nil {
		slog.Warn("Snapshot delete degraded, store unavailable",
			log.APIName(apiName), log.Error(err))
		return 0, nil
	}

	if err := s.pruneEmpty(ctx, apiName, tsStr); err != nil {
		slog.Warn("Snapshot index prune failed",
			log.APIName(apiName), log.Error(err))
	}
	return deleted, nil
}

func (s *RedisStore) DeleteAll(
	ctx context.Context, apiName string,
) (int64, error) {
	members, err := s.client.ZRange(
		ctx, s.versionsKey(apiName), 0, -1,
	).Result()
	if err != nil {
		slog.Warn("Snapshot delete degraded, store unavailable",
			log.APIName(apiName), log.Error(err))
		return 0, nil
	}

	var deleted int64
	for _, member := range members {
		count, err := s.deleteVersion(ctx, apiName, member)
		if err != nil {
			slog.Warn("Snapshot delete degraded, store unavailable",
				log.APIName(apiName), log.Error(err))
			return deleted, nil
		}
		deleted += count
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.versionsKey(apiName))
	pipe.SRem(ctx, s.apisKey(), apiName)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Snapshot index prune failed",
			log.APIName(apiName), log.Error(err))
	}
	return deleted, nil
}

// Scan reports kept in the history list
const maxScanHistory = 50

func (s *RedisStore) PutReport(
	ctx context.Context, report api.ScanReport,
) error {
	data, err := json.Marshal(&report)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, s.scansKey(), data)
	pipe.LTrim(ctx, s.scansKey(), 0, maxScanHistory-1)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Scan report write skipped, store unavailable",
			log.Error(err))
	}
	return nil
}

func (s *RedisStore) ListReports(
	ctx context.Context, limit int64,
) ([]api.ScanReport, error) {
	end := limit - 1
	if limit <= 0 {
		end = -1
	}
	entries, err := s.client.LRange(ctx, s.scansKey(), 0, end).Result()
	if err != nil {
		slog.Warn("Scan history read degraded, store unavailable",
			log.Error(err))
		return []api.ScanReport{}, nil
	}

	reports := make([]api.ScanReport, 0, len(entries))
	for _, entry := range entries {
		var report api.ScanReport
		if err := json.Unmarshal([]byte(entry), &report); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *RedisStore) deleteVersion(
	ctx context.Context, apiName, tsStr string,
) (int64, error) {
	key := s.snapKey(apiName, tsStr)
	count, err := s.client.HLen(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) deleteFields(
	ctx context.Context, key, endpoint string, method api.Method,
) (int64, error) {
	if method != "" {
		return s.client.HDel(ctx, key, fieldName(endpoint, method)).Result()
	}

	fields, err := s.client.HKeys(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	var targets []string
	for _, field := range fields {
		if fieldEndpoint(field) == endpoint {
			targets = append(targets, field)
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}
	return s.client.HDel(ctx, key, targets...).Result()
}

// pruneEmpty drops the version index entry once its hash is empty, and the
// API name once its last version is gone
func (s *RedisStore) pruneEmpty(
	ctx context.Context, apiName, tsStr string,
) error {
	count, err := s.client.HLen(ctx, s.snapKey(apiName, tsStr)).Result()
	if err != nil || count > 0 {
		return err
	}
	if err := s.client.ZRem(
		ctx, s.versionsKey(apiName), tsStr,
	).Err(); err != nil {
		return err
	}
	remaining, err := s.client.ZCard(ctx, s.versionsKey(apiName)).Result()
	if err != nil || remaining > 0 {
		return err
	}
	return s.client.SRem(ctx, s.apisKey(), apiName).Err()
}

func (s *RedisStore) snapKey(apiName, tsStr string) string {
	return fmt.Sprintf("%s:snap:%s:%s", s.prefix, apiName, tsStr)
}

func (s *RedisStore) versionsKey(apiName string) string {
	return fmt.Sprintf("%s:versions:%s", s.prefix, apiName)
}

func (s *RedisStore) apisKey() string {
	return s.prefix + ":apis"
}

func (s *RedisStore) scansKey() string {
	return s.prefix + ":scans"
}

func fieldName(endpoint string, method api.Method) string {
	return string(method) + " " + endpoint
}

func fieldEndpoint(field string) string {
	if _, path, ok := strings.Cut(field, " "); ok {
		return path
	}
	return field
}

func decodeItem(data []byte) (api.StoredItem, error) {
	var item api.StoredItem
	if err := json.Unmarshal(data, &item); err != nil {
		return api.StoredItem{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return item, nil
}

func versionInfo(tsStr string, items []api.StoredItem) api.VersionInfo {
	seen := map[string]bool{}
	methods := make([]string, 0, len(items))
	for _, item := range items {
		m := string(item.Method)
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	sort.Strings(methods)

	first := items[0]
	return api.VersionInfo{
		Timestamp:     api.ParseTimestamp(tsStr),
		EndpointCount: len(items),
		Methods:       methods,
		SourceURL:     first.Metadata.SourceURL,
		AuthType:      first.Metadata.AuthType,
	}
}
