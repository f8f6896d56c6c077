package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"loom/internal/graph"
	"loom/internal/mirror"
	"loom/internal/rank"
	"loom/internal/render"
	"loom/internal/storage"
)

// WriteArtifacts renders the run outputs into dir. Everything derives from
// the observer-side view, which is what lets a journal replay regenerate the
// same files without the canonical store.
func WriteArtifacts(dir, topic string, sum graph.Summary, view graph.StructuredView, layout rank.Layout) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	blob, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph view: %w", err)
	}

	files := map[string][]byte{
		"graph.json": append(blob, '\n'),
		"graph.mmd":  []byte(render.Mermaid(view, layout)),
		"graph.dot":  []byte(render.DOT(view)),
		"summary.md": []byte(render.Markdown(topic, sum, view, layout)),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Replay rebuilds an observer mirror from a stored journal. Only the
// observer side comes back; the canonical store is never reconstructed from
// persisted artifacts.
func Replay(ctx context.Context, journalPath string) (*mirror.Mirror, error) {
	journal, err := storage.NewSQLiteJournal(journalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open event journal: %w", err)
	}
	defer journal.Close()

	events, err := journal.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read event journal: %w", err)
	}

	m := mirror.New(nil)
	for _, ev := range events {
		m.Apply(ctx, ev)
	}
	return m, nil
}
