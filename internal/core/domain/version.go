package domain

import "time"

// ConflictStatus is the outcome of comparing a caller's last known version
// against the stored document version
type ConflictStatus string

const (
	NoConflict ConflictStatus = "no_conflict"
	Conflict   ConflictStatus = "conflict"
)

// CheckVersion detects concurrent edits. It never blocks a write: a Conflict
// only means the caller edited a stale copy and the merge will reconcile it.
func CheckVersion(stored, incoming string) ConflictStatus {
	if stored == "" || incoming == "" {
		return NoConflict
	}
	if stored != incoming {
		return Conflict
	}
	return NoConflict
}

// versionResolution is the minimum step between consecutive versions of a document
const versionResolution = time.Microsecond

// NextVersion returns the version token for a write happening at now.
// The result is strictly later than prev so a version is never reused,
// even when the clock stalls or steps backwards.
func NextVersion(prev string, now time.Time) string {
	next := now.UTC().Truncate(versionResolution)
	if prevTime, err := time.Parse(time.RFC3339Nano, prev); err == nil && !next.After(prevTime) {
		next = prevTime.UTC().Truncate(versionResolution).Add(versionResolution)
	}
	return next.Format(time.RFC3339Nano)
}

// ConflictEvent is the observability signal emitted when a stale write is merged
type ConflictEvent struct {
	Date            ServiceDate `json:"date"`
	StoredVersion   string      `json:"storedVersion"`
	IncomingVersion string      `json:"incomingVersion"`
	Team            Team        `json:"team,omitempty"`
	DetectedAt      time.Time   `json:"detectedAt"`
}
