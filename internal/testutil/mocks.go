package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.Logs {
		if entry.Level == level {
			return true
		}
	}
	return false
}

// MockStore is an in-memory providers.StoreInterface. It understands the
// filter subset the services use: field equality, dotted paths and $or.
type MockStore struct {
	mu     sync.Mutex
	Data   map[string][]providers.Doc
	nextID int

	InsertErr error
	FindErr   error
	PingErr   error
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string][]providers.Doc)}
}

func lookupPath(doc providers.Doc, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = doc
	for _, part := range parts {
		switch node := current.(type) {
		case providers.Doc:
			current = node[part]
		default:
			return nil, false
		}
	}
	return current, current != nil
}

func matches(doc providers.Doc, filter providers.Doc) bool {
	for key, want := range filter {
		if key == "$or" {
			clauses, ok := want.([]providers.Doc)
			if !ok {
				return false
			}
			hit := false
			for _, clause := range clauses {
				if matches(doc, clause) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
			continue
		}
		got, ok := lookupPath(doc, key)
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (m *MockStore) find(collection string, filter providers.Doc, sortBy providers.Doc) []providers.Doc {
	var out []providers.Doc
	for _, doc := range m.Data[collection] {
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	for key, dir := range sortBy {
		desc := false
		if d, ok := asFloat(dir); ok && d < 0 {
			desc = true
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := lookupPath(out[i], key)
			b, _ := lookupPath(out[j], key)
			af, aok := asFloat(a)
			bf, bok := asFloat(b)
			var less bool
			if aok && bok {
				less = af < bf
			} else {
				less = fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
			}
			if desc {
				return !less
			}
			return less
		})
	}
	return out
}

func (m *MockStore) FindOne(_ context.Context, collection string, filter providers.Doc, sortBy providers.Doc) (providers.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	docs := m.find(collection, filter, sortBy)
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (m *MockStore) Find(_ context.Context, collection string, filter providers.Doc, sortBy providers.Doc, limit int64) ([]providers.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	docs := m.find(collection, filter, sortBy)
	if limit > 0 && int64(len(docs)) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *MockStore) InsertOne(_ context.Context, collection string, doc providers.Doc) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	stored := make(providers.Doc, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	if _, ok := stored["_id"]; !ok {
		m.nextID++
		stored["_id"] = fmt.Sprintf("mock-id-%d", m.nextID)
	}
	m.Data[collection] = append(m.Data[collection], stored)
	return stored["_id"].(string), nil
}

func (m *MockStore) ReplaceOne(_ context.Context, collection string, filter providers.Doc, doc providers.Doc, upsert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	for i, existing := range m.Data[collection] {
		if matches(existing, filter) {
			m.Data[collection][i] = doc
			return nil
		}
	}
	if upsert {
		m.Data[collection] = append(m.Data[collection], doc)
	}
	return nil
}

func (m *MockStore) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MockStore) Close(_ context.Context) error {
	return nil
}

func (m *MockStore) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Data[collection])
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	CacheHits     int
	CacheMisses   int
	Requests      int
	Delivery      map[string]int
	RegistryCalls map[string]int
	QueueDepth    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Delivery:      make(map[string]int),
		RegistryCalls: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncRegistryCall(content string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegistryCalls[content+":"+outcome]++
}
func (m *MockMetrics) ObserveRegistryCallDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncDelivery(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Delivery[outcome]++
}
func (m *MockMetrics) SetQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueDepth = depth
}

func (m *MockMetrics) DeliveryCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Delivery[outcome]
}

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	mu      sync.Mutex
	Entries map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Entries[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, key)
}

// MockRegistryClient implements registry.ClientInterface and records
// everything pushed through it.
type MockRegistryClient struct {
	mu sync.Mutex

	Token      string
	ExportData []map[string]any

	CreateProjectErr error
	ImportErr        error
	ImportRecordErr  error
	ExportErr        error

	CreatedProjects  []registry.ProjectDefinition
	MetadataImports  [][]registry.FieldDescriptor
	RepeatingImports [][]registry.RepeatingForm
	UserImports      []string
	Records          []map[string]any
	RecordURLs       []string
}

func (m *MockRegistryClient) CreateProject(_ context.Context, _ string, def registry.ProjectDefinition) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateProjectErr != nil {
		return "", m.CreateProjectErr
	}
	m.CreatedProjects = append(m.CreatedProjects, def)
	if m.Token == "" {
		return "mock-token", nil
	}
	return m.Token, nil
}

func (m *MockRegistryClient) ImportMetadata(_ context.Context, _, _ string, fields []registry.FieldDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportErr != nil {
		return m.ImportErr
	}
	m.MetadataImports = append(m.MetadataImports, fields)
	return nil
}

func (m *MockRegistryClient) ImportRepeatingForms(_ context.Context, _, _ string, forms []registry.RepeatingForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportErr != nil {
		return m.ImportErr
	}
	m.RepeatingImports = append(m.RepeatingImports, forms)
	return nil
}

func (m *MockRegistryClient) ImportUser(_ context.Context, _, _, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportErr != nil {
		return m.ImportErr
	}
	m.UserImports = append(m.UserImports, username)
	return nil
}

func (m *MockRegistryClient) ImportRecord(_ context.Context, apiURL, _ string, record map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportRecordErr != nil {
		return m.ImportRecordErr
	}
	m.Records = append(m.Records, record)
	m.RecordURLs = append(m.RecordURLs, apiURL)
	return nil
}

func (m *MockRegistryClient) ExportRecords(_ context.Context, _, _ string) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.ExportData, nil
}

func (m *MockRegistryClient) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

// MockArchiver implements archive.ArchiverInterface.
type MockArchiver struct {
	mu       sync.Mutex
	Appends  map[string][][]byte
	Flushes  int
	Closed   bool
	FlushErr error
	CloseErr error
}

func NewMockArchiver() *MockArchiver {
	return &MockArchiver{Appends: make(map[string][][]byte)}
}

func (m *MockArchiver) Append(studyID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appends[studyID] = append(m.Appends[studyID], raw)
}

func (m *MockArchiver) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return m.FlushErr
}

func (m *MockArchiver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseErr
}
