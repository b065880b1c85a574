package domain

import "time"

// ElementType identifies the kind of a structural element in an order of worship
type ElementType string

const (
	ElementLiturgy          ElementType = "liturgy"
	ElementReading          ElementType = "reading"
	ElementMessage          ElementType = "message"
	ElementSongHymn         ElementType = "song_hymn"
	ElementSongContemporary ElementType = "song_contemporary"
	ElementLiturgicalSong   ElementType = "liturgical_song"
)

// IsValid returns true if the element type is recognised
func (t ElementType) IsValid() bool {
	switch t {
	case ElementLiturgy, ElementReading, ElementMessage,
		ElementSongHymn, ElementSongContemporary, ElementLiturgicalSong:
		return true
	}
	return false
}

// IsSong returns true for element types that carry a song selection
func (t ElementType) IsSong() bool {
	return t == ElementSongHymn || t == ElementSongContemporary || t == ElementLiturgicalSong
}

// IsReading returns true for element types that carry a scripture reference
func (t ElementType) IsReading() bool {
	return t == ElementReading
}

// IsSelectable returns true if the element is a slot that can carry a selection
func (t ElementType) IsSelectable() bool {
	return t.IsSong() || t.IsReading()
}

// SongType distinguishes hymnal songs from contemporary ones
type SongType string

const (
	SongTypeHymn         SongType = "hymn"
	SongTypeContemporary SongType = "contemporary"
)

// SongSelection is the song chosen by the worship team for a slot
type SongSelection struct {
	Title  string   `json:"title"`
	Type   SongType `json:"type"`
	Number string   `json:"number,omitempty"`
	Hymnal string   `json:"hymnal,omitempty"`
	Author string   `json:"author,omitempty"`
}

// StructuralElement is one entry in a service's order of worship.
// Identity is positional; slots are correlated across edits by SlotKey.
type StructuralElement struct {
	Type      ElementType    `json:"type"`
	Content   string         `json:"content"`
	Selection *SongSelection `json:"selection,omitempty"`
	Reference string         `json:"reference,omitempty"`
}

// Key returns the slot key derived from the element's content
func (e StructuralElement) Key() SlotKey {
	return DeriveSlotKey(e.Content)
}

// HasSelection returns true if the element carries a song selection or reading reference
func (e StructuralElement) HasSelection() bool {
	switch {
	case e.Type.IsSong():
		return e.Selection != nil
	case e.Type.IsReading():
		return e.Reference != ""
	}
	return false
}

// LiturgicalContext is denormalised seasonal metadata for a service date
type LiturgicalContext struct {
	SeasonID       string `json:"seasonId"`
	SeasonName     string `json:"seasonName"`
	Color          string `json:"color"`
	SpecialDayID   string `json:"specialDayId,omitempty"`
	SpecialDayName string `json:"specialDayName,omitempty"`
}

// OrphanEvent summarises the orphans produced by the most recent structural write
type OrphanEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	OrphanCount    int       `json:"orphanCount"`
	OrphanedTitles []string  `json:"orphanedTitles"`
}

// ServiceDocument is the order of worship for one calendar date
type ServiceDocument struct {
	Date            ServiceDate         `json:"date"`
	Title           string              `json:"title,omitempty"`
	Elements        []StructuralElement `json:"elements"`
	Version         string              `json:"version"`
	Liturgical      *LiturgicalContext  `json:"liturgicalContext,omitempty"`
	LastOrphanEvent *OrphanEvent        `json:"lastOrphanEvent,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ServiceSummary is a lightweight listing entry for a service document
type ServiceSummary struct {
	Date          ServiceDate `json:"date"`
	Title         string      `json:"title,omitempty"`
	Version       string      `json:"version"`
	ElementCount  int         `json:"elementCount"`
	SelectedCount int         `json:"selectedCount"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Summary builds a listing entry for the document
func (d *ServiceDocument) Summary() ServiceSummary {
	selected := 0
	for _, el := range d.Elements {
		if el.HasSelection() {
			selected++
		}
	}
	return ServiceSummary{
		Date:          d.Date,
		Title:         d.Title,
		Version:       d.Version,
		ElementCount:  len(d.Elements),
		SelectedCount: selected,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Team identifies which planning team submitted a change.
// There is no authentication; the team is self-declared.
type Team string

const (
	TeamPastor       Team = "pastor"
	TeamWorship      Team = "worship"
	TeamPresentation Team = "presentation"
	TeamAV           Team = "av"
)
