package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// outputFormatter writes command results as indented JSON or plain text.
type outputFormatter struct {
	format string
	w      io.Writer
}

// Print emits data as JSON, or calls text for the text format.
func (f *outputFormatter) Print(data any, text func(w io.Writer)) error {
	if f.format == "json" {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return nil
	}
	text(f.w)
	return nil
}
