package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// slotDelimiter separates a slot's label from its rendered selection text,
// e.g. "Opening Hymn: Amazing Grace #280 (Umh)".
const slotDelimiter = ":"

// SlotKey correlates a song or reading slot across independent structural edits.
// Two elements with the same SlotKey are the same slot regardless of position.
type SlotKey string

// DeriveSlotKey computes the matching key for an element's display text:
// the text before the first ':' delimiter, NFC-normalised, trimmed and lowercased.
// Content without a delimiter yields the empty key.
func DeriveSlotKey(content string) SlotKey {
	label, ok := slotLabel(content)
	if !ok {
		return ""
	}
	return SlotKey(strings.ToLower(strings.TrimSpace(norm.NFC.String(label))))
}

// DisplayPrefix returns the original-case label used when re-rendering a slot.
// Content without a delimiter is treated as all label.
func DisplayPrefix(content string) string {
	label, ok := slotLabel(content)
	if !ok {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(label)
}

func slotLabel(content string) (string, bool) {
	label, _, found := strings.Cut(content, slotDelimiter)
	return label, found
}
