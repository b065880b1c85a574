package domain

import "time"

// OrphanReason records why selections were orphaned
type OrphanReason string

const (
	// OrphanReasonPastorEdit is a structural edit that removed or renamed slots
	OrphanReasonPastorEdit OrphanReason = "pastor_edit"
)

// OrphanedSelection is a previously chosen song or reading whose slot key
// no longer exists after a structural edit
type OrphanedSelection struct {
	Title           string         `json:"title"`
	OriginalPrefix  SlotKey        `json:"originalPrefix"`
	ElementType     ElementType    `json:"elementType"`
	Selection       *SongSelection `json:"selection,omitempty"`
	Reference       string         `json:"reference,omitempty"`
	OriginalContent string         `json:"originalContent"`
	OriginalIndex   int            `json:"originalIndex"`
}

// IsSong returns true if the orphan was a song selection
func (o OrphanedSelection) IsSong() bool {
	return o.ElementType.IsSong()
}

// OrphanRecord is an append-only audit entry written once per orphan event
type OrphanRecord struct {
	ID                   string              `json:"id"`
	Date                 ServiceDate         `json:"date"`
	Timestamp            time.Time           `json:"timestamp"`
	OrphanedBy           Team                `json:"orphanedBy"`
	OrphanedSongs        []OrphanedSelection `json:"orphanedSongs"`
	ServiceTitle         string              `json:"serviceTitle,omitempty"`
	OriginalElementCount int                 `json:"originalElementCount"`
	NewElementCount      int                 `json:"newElementCount"`
	OrphanReason         OrphanReason        `json:"orphanReason"`
}

// OrphanWarning is the non-fatal notice returned to a caller whose write orphaned selections
type OrphanWarning struct {
	Message       string              `json:"message"`
	OrphanCount   int                 `json:"orphanCount"`
	OrphanedSongs []OrphanedSelection `json:"orphanedSongs"`
	Reason        OrphanReason        `json:"reason"`
	// Archived is false when the recovery record could not be written
	Archived bool `json:"archived"`
}

// OrphanRecovery is the result of looking up the most recent orphan event for a date
type OrphanRecovery struct {
	Date          ServiceDate         `json:"date"`
	OrphanedSongs []OrphanedSelection `json:"orphanedSongs"`
	OrphanedAt    time.Time           `json:"orphanedAt"`
	OrphanedBy    Team                `json:"orphanedBy"`
	Count         int                 `json:"count"`
}

// Recovery converts an archived record into a recovery view
func (r *OrphanRecord) Recovery() *OrphanRecovery {
	return &OrphanRecovery{
		Date:          r.Date,
		OrphanedSongs: r.OrphanedSongs,
		OrphanedAt:    r.Timestamp,
		OrphanedBy:    r.OrphanedBy,
		Count:         len(r.OrphanedSongs),
	}
}

// OrphanTitles lists the display titles of the given orphans in order
func OrphanTitles(orphans []OrphanedSelection) []string {
	titles := make([]string, 0, len(orphans))
	for _, o := range orphans {
		titles = append(titles, o.Title)
	}
	return titles
}

// CountSongOrphans counts the orphans that were song selections
func CountSongOrphans(orphans []OrphanedSelection) int {
	n := 0
	for _, o := range orphans {
		if o.IsSong() {
			n++
		}
	}
	return n
}
