package routine

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

var emptyDocument = json.RawMessage(`[]`)

// Routine is the static reference routine, read once at startup.
type Routine struct {
	raw   json.RawMessage
	value any
}

// Load reads the JSON document at path. A missing or malformed file is logged
// and yields an empty list; Load never fails.
func Load(ctx context.Context, path string) *Routine {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Routine file not found, serving an empty list", "path", path)
		} else {
			slog.ErrorContext(ctx, "Failed to read routine file, serving an empty list", "path", path, "error", err)
		}
		return Empty()
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		slog.ErrorContext(ctx, "Failed to decode routine file, serving an empty list", "path", path, "error", err)
		return Empty()
	}

	slog.InfoContext(ctx, "Routine loaded", "path", path, "bytes", len(data))
	return &Routine{raw: json.RawMessage(data), value: value}
}

// Empty returns a routine holding an empty list.
func Empty() *Routine {
	return &Routine{raw: emptyDocument, value: []any{}}
}

// Raw returns the document exactly as it was read.
func (r *Routine) Raw() json.RawMessage {
	return r.raw
}

// Pretty returns the document indented for display.
func (r *Routine) Pretty() string {
	out, err := json.MarshalIndent(r.value, "", "  ")
	if err != nil {
		return string(r.raw)
	}
	return string(out)
}
