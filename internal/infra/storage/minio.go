package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/encrypt"

	"github.com/fintrustai/compliance-copilot/internal/domain/audit"
	domain "github.com/fintrustai/compliance-copilot/internal/domain/storage"
)

const auditPrefix = "audit-logs"

// Store persists JSON artifacts in an S3-compatible bucket. When a KMS key
// reference is configured every write carries the encrypt-at-rest flag.
type Store struct {
	client      *minio.Client
	bucketName  string
	region      string
	kmsKeyID    string
	serviceName string
}

// New connects to the object store and ensures the bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, kmsKeyID, serviceName string) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	if serviceName == "" {
		serviceName = "compliance-copilot"
	}
	return &Store{
		client:      cli,
		bucketName:  bucket,
		region:      region,
		kmsKeyID:    kmsKeyID,
		serviceName: serviceName,
	}, nil
}

// Put stores the payload under {kind}/{subjectId}/{artifactId}.json with the
// id field, created_at and customer_id injected at top level.
func (s *Store) Put(ctx context.Context, kind domain.Kind, subjectID string, payload any) (*domain.StoredArtifact, error) {
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
	if err := s.putObject(ctx, key, body); err != nil {
		return nil, err
	}

	return &domain.StoredArtifact{
		ArtifactID:  id,
		StoragePath: key,
		Encrypted:   s.kmsKeyID != "",
		CreatedAt:   createdAt,
	}, nil
}

// Get returns the stored payload, or storage.ErrNotFound when no object
// matches the key.
func (s *Store) Get(ctx context.Context, kind domain.Kind, subjectID, artifactID string) (map[string]any, error) {
	key := fmt.Sprintf("%s/%s/%s.json", kind, subjectID, artifactID)

	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, artifactID)
		}
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", key, err)
	}
	return doc, nil
}

// List enumerates artifacts for a kind, optionally scoped to one subject.
func (s *Store) List(ctx context.Context, kind domain.Kind, subjectID string) ([]domain.ObjectSummary, error) {
	prefix := string(kind) + "/"
	if subjectID != "" {
		prefix += subjectID + "/"
	}

	summaries := []domain.ObjectSummary{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		summaries = append(summaries, summarize(kind, obj.Key, obj.Size, obj.LastModified))
	}
	return summaries, nil
}

// Append writes one audit entry under audit-logs/{yyyy}/{mm}/{dd}/{logId}.json.
func (s *Store) Append(ctx context.Context, action string, details map[string]any, userID string) (*audit.Entry, error) {
	now := time.Now()
	entry := &audit.Entry{
		LogID:     domain.NewArtifactID("AUDIT", now),
		Action:    action,
		Details:   details,
		UserID:    userID,
		Timestamp: now.Format(time.RFC3339),
		Service:   s.serviceName,
	}

	body, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode audit entry: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", auditPrefix, now.Format("2006/01/02"), entry.LogID)
	if err := s.putObject(ctx, key, body); err != nil {
		return nil, err
	}
	return entry, nil
}

// Health pings the bucket so the store can participate in health checks.
func (s *Store) Health(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}

func (s *Store) putObject(ctx context.Context, key string, body []byte) error {
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	if s.kmsKeyID != "" {
		sse, err := encrypt.NewSSEKMS(s.kmsKeyID, nil)
		if err != nil {
			return fmt.Errorf("configure sse-kms: %w", err)
		}
		opts.ServerSideEncryption = sse
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), opts)
	return err
}

func toMap(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func summarize(kind domain.Kind, key string, size int64, lastModified time.Time) domain.ObjectSummary {
	rel := strings.TrimPrefix(key, string(kind)+"/")
	subject := ""
	if i := strings.Index(rel, "/"); i > 0 {
		subject = rel[:i]
	}
	return domain.ObjectSummary{
		ArtifactID:   strings.TrimSuffix(path.Base(key), ".json"),
		StoragePath:  key,
		SubjectID:    subject,
		Size:         size,
		LastModified: lastModified,
	}
}

var _ domain.ArtifactStore = (*Store)(nil)
var _ audit.Trail = (*Store)(nil)
