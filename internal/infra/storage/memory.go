package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fintrustai/compliance-copilot/internal/domain/audit"
	domain "github.com/fintrustai/compliance-copilot/internal/domain/storage"
)

// MemoryStore is an in-memory ArtifactStore and audit Trail with the same
// path scheme as the MinIO store. Used in tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	objects     map[string]memObject
	encrypted   bool
	serviceName string
}

type memObject struct {
	body     []byte
	modified time.Time
}

func NewMemory(encrypted bool) *MemoryStore {
	return &MemoryStore{
		objects:     make(map[string]memObject),
		encrypted:   encrypted,
		serviceName: "compliance-copilot",
	}
}

func (m *MemoryStore) Put(ctx context.Context, kind domain.Kind, subjectID string, payload any) (*domain.StoredArtifact, error) {
	now := time.Now()
	id := domain.NewArtifactID(kind.IDPrefix(), now)
	createdAt := now.Format(time.RFC3339)

	doc, err := toMap(payload)
	if err != nil {
		return nil, fmt.Errorf("encode artifact payload: %w", err)
	}
	doc[kind.IDField()] = id
	doc["created_at"] = createdAt
	doc["customer_id"] = subjectID
	if rt := kind.ReportType(); rt != "" {
		doc["report_type"] = rt
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode artifact payload: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", kind, subjectID, id)
	m.mu.Lock()
	m.objects[key] = memObject{body: body, modified: now}
	m.mu.Unlock()

	return &domain.StoredArtifact{
		ArtifactID:  id,
		StoragePath: key,
		Encrypted:   m.encrypted,
		CreatedAt:   createdAt,
	}, nil
}

func (m *MemoryStore) Get(ctx context.Context, kind domain.Kind, subjectID, artifactID string) (map[string]any, error) {
	key := fmt.Sprintf("%s/%s/%s.json", kind, subjectID, artifactID)

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, artifactID)
	}

	var doc map[string]any
	if err := json.Unmarshal(obj.body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *MemoryStore) List(ctx context.Context, kind domain.Kind, subjectID string) ([]domain.ObjectSummary, error) {
	prefix := string(kind) + "/"
	if subjectID != "" {
		prefix += subjectID + "/"
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := []domain.ObjectSummary{}
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		summaries = append(summaries, summarize(kind, key, int64(len(obj.body)), obj.modified))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StoragePath < summaries[j].StoragePath
	})
	return summaries, nil
}

func (m *MemoryStore) Append(ctx context.Context, action string, details map[string]any, userID string) (*audit.Entry, error) {
	now := time.Now()
	entry := &audit.Entry{
		LogID:     domain.NewArtifactID("AUDIT", now),
		Action:    action,
		Details:   details,
		UserID:    userID,
		Timestamp: now.Format(time.RFC3339),
		Service:   m.serviceName,
	}

	body, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s.json", auditPrefix, now.Format("2006/01/02"), entry.LogID)
	m.mu.Lock()
	m.objects[key] = memObject{body: body, modified: now}
	m.mu.Unlock()
	return entry, nil
}

// Raw returns the stored bytes for a key. Test helper.
func (m *MemoryStore) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.body, ok
}

// Len reports the number of stored objects. Test helper.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

var _ domain.ArtifactStore = (*MemoryStore)(nil)
var _ audit.Trail = (*MemoryStore)(nil)
