package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UniqueName picks a display name for a new product given the names already
// taken in its dataset. A free base name is used as-is; otherwise the lowest
// unused "(n)" suffix with n >= 2 is appended — the un-suffixed name counts
// as occupying "(1)".
func UniqueName(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s(%d)", base, n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// ProductKey generates the synthetic product identity: dataset id, source
// row id, timestamp and a random suffix. Re-uploading a sheet with the same
// row IDs can therefore never collide.
func ProductKey(datasetID int64, externalID string, now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s-%d-%s", datasetID, externalID, now.UnixNano(), suffix)
}
