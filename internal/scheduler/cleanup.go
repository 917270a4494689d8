package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob removes generated deck files older than the retention
// window from the output directory
type CleanupJob struct {
	outputDir     string
	retentionDays int
	log           zerolog.Logger
}

// NewCleanupJob creates a deck retention job. retentionDays of 0
// disables removal.
func NewCleanupJob(outputDir string, retentionDays int, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		outputDir:     outputDir,
		retentionDays: retentionDays,
		log:           log.With().Str("component", "deck_cleanup").Logger(),
	}
}

// Name returns the job name
func (j *CleanupJob) Name() string { return "deck_cleanup" }

// Run deletes expired deck files. A missing output directory is not an
// error; nothing has been generated yet.
func (j *CleanupJob) Run() error {
	if j.retentionDays <= 0 {
		return nil
	}

	entries, err := os.ReadDir(j.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(j.outputDir, entry.Name())
			if err := os.Remove(path); err != nil {
				j.log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove expired deck")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		j.log.Info().Int("removed", removed).Int("retention_days", j.retentionDays).Msg("Expired decks removed")
	}

	return nil
}
