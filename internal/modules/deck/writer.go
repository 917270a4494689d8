package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// Writer renders decks and persists them under the configured output directory
type Writer struct {
	outputDir string
	log       zerolog.Logger
}

func NewWriter(outputDir string, log zerolog.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		log:       log.With().Str("component", "deck_writer").Logger(),
	}
}

// Write renders the deck to HTML and stores it on disk, returning the path
// of the written file
func (w *Writer) Write(d *Deck, report *valuation.Report) (string, error) {
	data, err := Render(d, report)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	suffix := uuid.New().String()[:8]
	path := filepath.Join(w.outputDir, Filename(d.Ticker, d.GeneratedAt, suffix))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing deck: %w", err)
	}

	w.log.Info().
		Str("ticker", d.Ticker).
		Str("path", path).
		Int("slides", len(d.Slides)).
		Str("mode", d.Mode).
		Msg("Deck written")

	return path, nil
}
