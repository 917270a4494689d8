package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockpitch/internal/scheduler"
)

// SystemHandlers handles system monitoring and operations endpoints
type SystemHandlers struct {
	log        zerolog.Logger
	outputDir  string
	scheduler  *scheduler.Scheduler
	cleanupJob scheduler.Job
	startedAt  time.Time
}

// SystemStatusResponse is the payload of the status endpoint
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	DeckCount     int     `json:"deck_count"`
	DeckDiskMB    float64 `json:"deck_disk_mb"`
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, outputDir string, sched *scheduler.Scheduler, cleanupJob scheduler.Job) *SystemHandlers {
	return &SystemHandlers{
		log:        log.With().Str("component", "system_handlers").Logger(),
		outputDir:  outputDir,
		scheduler:  sched,
		cleanupJob: cleanupJob,
		startedAt:  time.Now(),
	}
}

// RegisterRoutes mounts the system endpoints on the router
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/system/status", h.HandleSystemStatus)
	r.Get("/decks", h.HandleListDecks)
	r.Get("/decks/{file}", h.HandleServeDeck)
	r.Post("/jobs/cleanup", h.HandleTriggerCleanup)
}

// HandleSystemStatus handles GET /api/v1/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.getSystemStats()
	count, sizeMB := h.getDeckStats()

	h.writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		CPUPercent:    cpuPct,
		RAMPercent:    ramPct,
		Goroutines:    runtime.NumGoroutine(),
		DeckCount:     count,
		DeckDiskMB:    sizeMB,
	})
}

// DeckInfo describes one generated deck on disk
type DeckInfo struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// HandleListDecks handles GET /api/v1/decks
func (h *SystemHandlers) HandleListDecks(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			h.writeJSON(w, http.StatusOK, []DeckInfo{})
			return
		}
		h.log.Error().Err(err).Msg("Failed to read output directory")
		h.writeError(w, http.StatusInternalServerError, "Failed to list decks")
		return
	}

	decks := make([]DeckInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		decks = append(decks, DeckInfo{
			Name:       entry.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	h.writeJSON(w, http.StatusOK, decks)
}

// HandleServeDeck handles GET /api/v1/decks/{file}
func (h *SystemHandlers) HandleServeDeck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	// Names come straight from HandleListDecks; anything with path
	// structure is rejected
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || !strings.HasSuffix(name, ".html") {
		h.writeError(w, http.StatusBadRequest, "Invalid deck name")
		return
	}

	path := filepath.Join(h.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		h.writeError(w, http.StatusNotFound, "Deck not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

// HandleTriggerCleanup handles POST /api/v1/jobs/cleanup
func (h *SystemHandlers) HandleTriggerCleanup(w http.ResponseWriter, r *http.Request) {
	if h.cleanupJob == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Cleanup job not configured")
		return
	}

	if err := h.scheduler.RunNow(h.cleanupJob); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Cleanup failed: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sampling interval so the endpoint stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// getDeckStats counts generated decks and their disk footprint
func (h *SystemHandlers) getDeckStats() (int, float64) {
	var count int
	var totalSize int64

	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" {
			continue
		}
		if info, err := entry.Info(); err == nil {
			count++
			totalSize += info.Size()
		}
	}

	return count, float64(totalSize) / 1024 / 1024
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *SystemHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
