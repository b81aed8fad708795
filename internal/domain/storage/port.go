package storage

import "context"

// ArtifactStore persists JSON artifacts under the deterministic content-path
// scheme. Artifacts are immutable after their first successful write.
type ArtifactStore interface {
	// Put stores the payload under {kind}/{subjectId}/{artifactId}.json,
	// injecting the id field, created_at and customer_id at top level.
	Put(ctx context.Context, kind Kind, subjectID string, payload any) (*StoredArtifact, error)
	// Get returns the stored payload or ErrNotFound.
	Get(ctx context.Context, kind Kind, subjectID, artifactID string) (map[string]any, error)
	// List enumerates artifacts for a kind, optionally scoped to one subject.
	List(ctx context.Context, kind Kind, subjectID string) ([]ObjectSummary, error)
}
