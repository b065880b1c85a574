package domain

import (
	"errors"
	"testing"
	"time"
)

func TestElementType_Predicates(t *testing.T) {
	tests := []struct {
		typ        ElementType
		valid      bool
		song       bool
		reading    bool
		selectable bool
	}{
		{ElementLiturgy, true, false, false, false},
		{ElementMessage, true, false, false, false},
		{ElementReading, true, false, true, true},
		{ElementSongHymn, true, true, false, true},
		{ElementSongContemporary, true, true, false, true},
		{ElementLiturgicalSong, true, true, false, true},
		{"anthem", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.typ.IsSong(); got != tt.song {
				t.Errorf("IsSong() = %v, want %v", got, tt.song)
			}
			if got := tt.typ.IsReading(); got != tt.reading {
				t.Errorf("IsReading() = %v, want %v", got, tt.reading)
			}
			if got := tt.typ.IsSelectable(); got != tt.selectable {
				t.Errorf("IsSelectable() = %v, want %v", got, tt.selectable)
			}
		})
	}
}

func TestStructuralElement_HasSelection(t *testing.T) {
	song := &SongSelection{Title: "Amazing Grace", Type: SongTypeHymn}

	tests := []struct {
		name string
		el   StructuralElement
		want bool
	}{
		{"song with selection", StructuralElement{Type: ElementSongHymn, Selection: song}, true},
		{"empty song slot", StructuralElement{Type: ElementSongHymn}, false},
		{"reading with reference", StructuralElement{Type: ElementReading, Reference: "John 3:16"}, true},
		{"empty reading", StructuralElement{Type: ElementReading}, false},
		{"liturgy ignores stray selection", StructuralElement{Type: ElementLiturgy, Selection: song}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.el.HasSelection(); got != tt.want {
				t.Errorf("HasSelection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceDocument_Summary(t *testing.T) {
	updated := time.Date(2025, 7, 13, 15, 0, 0, 0, time.UTC)
	doc := &ServiceDocument{
		Date:  "7/13/25",
		Title: "Seventh Sunday after Pentecost",
		Elements: []StructuralElement{
			{Type: ElementLiturgy, Content: "Call to Worship"},
			{Type: ElementSongHymn, Content: "Opening Hymn: Holy, Holy, Holy", Selection: &SongSelection{Title: "Holy, Holy, Holy"}},
			{Type: ElementReading, Content: "First Reading:", Reference: "Amos 7:7-17"},
			{Type: ElementSongHymn, Content: "Closing Hymn:"},
		},
		Version:   "2025-07-13T15:00:00Z",
		UpdatedAt: updated,
	}

	got := doc.Summary()

	if got.ElementCount != 4 {
		t.Errorf("ElementCount = %d, want 4", got.ElementCount)
	}
	if got.SelectedCount != 2 {
		t.Errorf("SelectedCount = %d, want 2", got.SelectedCount)
	}
	if got.Version != doc.Version || got.Date != doc.Date || !got.UpdatedAt.Equal(updated) {
		t.Errorf("summary does not mirror document: %+v", got)
	}
}

func TestSlotName(t *testing.T) {
	for n := range 12 {
		got, err := ParseSlotName(SlotName(n))
		if err != nil {
			t.Fatalf("ParseSlotName(%q): %v", SlotName(n), err)
		}
		if got != n {
			t.Errorf("ParseSlotName(SlotName(%d)) = %d", n, got)
		}
	}

	if SlotName(3) != "song_3" {
		t.Errorf("SlotName(3) = %q, want song_3", SlotName(3))
	}

	for _, bad := range []string{"", "song_", "song_-1", "song_x", "hymn_1"} {
		if _, err := ParseSlotName(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseSlotName(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestOrphanHelpers(t *testing.T) {
	orphans := []OrphanedSelection{
		{Title: "Be Thou My Vision", ElementType: ElementSongHymn},
		{Title: "Psalm 23", ElementType: ElementReading},
		{Title: "10,000 Reasons", ElementType: ElementSongContemporary},
	}

	titles := OrphanTitles(orphans)
	if len(titles) != 3 || titles[0] != "Be Thou My Vision" || titles[2] != "10,000 Reasons" {
		t.Errorf("OrphanTitles() = %v", titles)
	}
	if got := CountSongOrphans(orphans); got != 2 {
		t.Errorf("CountSongOrphans() = %d, want 2", got)
	}
	if got := OrphanTitles(nil); got == nil || len(got) != 0 {
		t.Errorf("OrphanTitles(nil) = %#v, want empty slice", got)
	}
}

func TestOrphanRecord_Recovery(t *testing.T) {
	at := time.Date(2025, 7, 13, 15, 0, 0, 0, time.UTC)
	rec := &OrphanRecord{
		ID:         "0198",
		Date:       "7/13/25",
		Timestamp:  at,
		OrphanedBy: TeamPastor,
		OrphanedSongs: []OrphanedSelection{
			{Title: "Be Thou My Vision", ElementType: ElementSongHymn},
			{Title: "Psalm 23", ElementType: ElementReading},
		},
		OrphanReason: OrphanReasonPastorEdit,
	}

	got := rec.Recovery()

	if got.Date != "7/13/25" || got.OrphanedBy != TeamPastor || !got.OrphanedAt.Equal(at) {
		t.Errorf("unexpected recovery %+v", got)
	}
	if got.Count != 2 || len(got.OrphanedSongs) != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
}
