package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewArtifactID builds a globally unique identifier of the form
// {PREFIX}-{yyyyMMdd}-{8-hex-random}, uppercased.
func NewArtifactID(prefix string, now time.Time) string {
	random := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), random)
}
