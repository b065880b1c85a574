package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// slotKind separates song slots from reading slots so a reading never
// inherits a song (or vice versa) that happens to share its label.
type slotKind uint8

const (
	slotKindSong slotKind = iota + 1
	slotKindReading
)

func kindOf(t ElementType) (slotKind, bool) {
	switch {
	case t.IsSong():
		return slotKindSong, true
	case t.IsReading():
		return slotKindReading, true
	}
	return 0, false
}

type indexKey struct {
	kind slotKind
	key  SlotKey
}

// IndexEntry is a selection found in the stored document together with its provenance
type IndexEntry struct {
	Key             SlotKey
	ElementType     ElementType
	Selection       *SongSelection
	Reference       string
	OriginalIndex   int
	OriginalContent string
}

// SelectionIndex maps slot keys of the stored document to their selections.
// Iteration follows the document order in which keys were first seen.
type SelectionIndex struct {
	entries map[indexKey]IndexEntry
	order   []indexKey
}

// Len returns the number of indexed slots
func (idx *SelectionIndex) Len() int {
	return len(idx.order)
}

// Entries returns the indexed selections in document order
func (idx *SelectionIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(idx.order))
	for _, k := range idx.order {
		out = append(out, idx.entries[k])
	}
	return out
}

func (idx *SelectionIndex) lookup(t ElementType, key SlotKey) (IndexEntry, indexKey, bool) {
	kind, ok := kindOf(t)
	if !ok {
		return IndexEntry{}, indexKey{}, false
	}
	k := indexKey{kind: kind, key: key}
	entry, found := idx.entries[k]
	return entry, k, found
}

// BuildSelectionIndex indexes every song slot with a selection and every reading
// with a reference. Pending slots are skipped: there is nothing to lose.
// On duplicate keys the later element wins.
func BuildSelectionIndex(elements []StructuralElement) *SelectionIndex {
	idx := &SelectionIndex{entries: make(map[indexKey]IndexEntry)}
	for i, el := range elements {
		if !el.HasSelection() {
			continue
		}
		kind, _ := kindOf(el.Type)
		k := indexKey{kind: kind, key: el.Key()}
		if _, seen := idx.entries[k]; !seen {
			idx.order = append(idx.order, k)
		}
		entry := IndexEntry{
			Key:             k.key,
			ElementType:     el.Type,
			Reference:       el.Reference,
			OriginalIndex:   i,
			OriginalContent: el.Content,
		}
		if el.Selection != nil {
			sel := *el.Selection
			entry.Selection = &sel
		}
		idx.entries[k] = entry
	}
	return idx
}

// MatchSet records which indexed slots were carried into the merged structure
type MatchSet map[indexKey]struct{}

// Has reports whether the slot of the given type and key was matched
func (m MatchSet) Has(t ElementType, key SlotKey) bool {
	kind, ok := kindOf(t)
	if !ok {
		return false
	}
	_, found := m[indexKey{kind: kind, key: key}]
	return found
}

// MergeResult is the outcome of merging a new structure with a stored selection index
type MergeResult struct {
	Elements []StructuralElement
	Matched  MatchSet
}

// MergeStructure overlays stored selections onto the editor's new structure.
// The new structure always wins on ordering and on non-selection content;
// a slot whose key matches a stored selection inherits it verbatim, and song
// slots get their display text re-rendered. Unmatched slots are left exactly
// as supplied.
func MergeStructure(newElements []StructuralElement, idx *SelectionIndex) MergeResult {
	result := MergeResult{
		Elements: make([]StructuralElement, len(newElements)),
		Matched:  make(MatchSet),
	}
	for i, el := range newElements {
		result.Elements[i] = el
		if !el.Type.IsSelectable() {
			continue
		}
		entry, k, found := idx.lookup(el.Type, el.Key())
		if !found {
			continue
		}
		merged := el
		if el.Type.IsSong() {
			sel := *entry.Selection
			merged.Selection = &sel
			merged.Content = RenderSlotContent(el.Content, sel, el.Type)
		} else {
			merged.Reference = entry.Reference
		}
		result.Elements[i] = merged
		result.Matched[k] = struct{}{}
	}
	return result
}

// DetectOrphans returns the indexed selections whose slots were not matched,
// in stored document order.
func DetectOrphans(idx *SelectionIndex, matched MatchSet) []OrphanedSelection {
	var orphans []OrphanedSelection
	for _, k := range idx.order {
		if _, ok := matched[k]; ok {
			continue
		}
		entry := idx.entries[k]
		orphan := OrphanedSelection{
			OriginalPrefix:  entry.Key,
			ElementType:     entry.ElementType,
			Reference:       entry.Reference,
			OriginalContent: entry.OriginalContent,
			OriginalIndex:   entry.OriginalIndex,
		}
		if entry.Selection != nil {
			sel := *entry.Selection
			orphan.Selection = &sel
			orphan.Title = sel.Title
		} else {
			orphan.Title = entry.Reference
		}
		orphans = append(orphans, orphan)
	}
	return orphans
}

// BuildSlotSelections assigns every song slot with a selection the next dense
// ordinal slot name. Pending slots do not reserve a number.
func BuildSlotSelections(elements []StructuralElement) map[string]SongSelection {
	selections := make(map[string]SongSelection)
	n := 0
	for _, el := range elements {
		if !el.Type.IsSong() || el.Selection == nil {
			continue
		}
		selections[SlotName(n)] = *el.Selection
		n++
	}
	return selections
}

// RenderSlotContent re-renders a selected song slot under its existing label.
// Content without a delimiter is returned unchanged so the slot keeps the empty key.
func RenderSlotContent(content string, sel SongSelection, elementType ElementType) string {
	if !strings.Contains(content, slotDelimiter) {
		return content
	}
	return RenderSongContent(DisplayPrefix(content), sel, elementType)
}

// RenderSongContent renders a song slot's display text:
//
//	hymn:         "{prefix}: {title} #{number} ({Hymnal})"
//	contemporary: "{prefix}: {title} - {author}" or "{prefix}: {title}"
func RenderSongContent(prefix string, sel SongSelection, elementType ElementType) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(": ")
	b.WriteString(sel.Title)

	if isHymn(sel, elementType) {
		if sel.Number != "" {
			b.WriteString(" #")
			b.WriteString(sel.Number)
		}
		if sel.Hymnal != "" {
			b.WriteString(" (")
			b.WriteString(capitalizeFirst(sel.Hymnal))
			b.WriteString(")")
		}
		return b.String()
	}

	if sel.Author != "" {
		b.WriteString(" - ")
		b.WriteString(sel.Author)
	}
	return b.String()
}

func isHymn(sel SongSelection, elementType ElementType) bool {
	switch sel.Type {
	case SongTypeHymn:
		return true
	case SongTypeContemporary:
		return false
	}
	return elementType != ElementSongContemporary
}

// capitalizeFirst upper-cases the first letter and leaves the rest unchanged
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
