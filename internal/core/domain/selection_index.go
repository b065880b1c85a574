package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// slotNamePrefix is the literal prefix of selection index slot names ("song_0", "song_1", ...)
const slotNamePrefix = "song_"

// SlotName returns the selection index key for the n-th populated song slot
func SlotName(n int) string {
	return slotNamePrefix + strconv.Itoa(n)
}

// ParseSlotName returns the ordinal of a slot name produced by SlotName
func ParseSlotName(name string) (int, error) {
	rest, ok := strings.CutPrefix(name, slotNamePrefix)
	if !ok {
		return 0, fmt.Errorf("%w: slot %q", ErrInvalidInput, name)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: slot %q", ErrInvalidInput, name)
	}
	return n, nil
}

// SelectionIndexRecord is the slot-indexed projection of a service's song selections.
// After every merge it holds exactly the populated song slots of the service
// document, numbered densely in document order.
type SelectionIndexRecord struct {
	Date                         ServiceDate              `json:"date"`
	Selections                   map[string]SongSelection `json:"selections"`
	LastSyncedWithServiceDetails *time.Time               `json:"lastSyncedWithServiceDetails,omitempty"`
	OrphanedSongsRemoved         int                      `json:"orphanedSongsRemoved"`
	UpdatedAt                    time.Time                `json:"updatedAt"`
}

// SlotSelection attaches a song or reading reference to the slot with a given label
type SlotSelection struct {
	Slot      string         `json:"slot"`
	Selection *SongSelection `json:"selection,omitempty"`
	Reference string         `json:"reference,omitempty"`
}
