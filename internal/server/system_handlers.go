package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/expiryd/internal/database"
)

// SystemHandlers serves health and runtime information endpoints.
type SystemHandlers struct {
	log        zerolog.Logger
	dataDir    string
	calendarDB *database.DB
	startedAt  time.Time
}

func NewSystemHandlers(log zerolog.Logger, dataDir string, calendarDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:        log.With().Str("component", "system_handlers").Logger(),
		dataDir:    dataDir,
		calendarDB: calendarDB,
		startedAt:  time.Now(),
	}
}

// HandleHealth reports service liveness and calendar database health.
// GET /api/system/health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "ok"

	if h.calendarDB != nil {
		if err := h.calendarDB.HealthCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Calendar database health check failed")
			status = "degraded"
			dbStatus = err.Error()
		}
	} else {
		dbStatus = "not configured"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"status":      status,
			"calendar_db": dbStatus,
			"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// HandleInfo returns process and host runtime statistics.
// GET /api/system/info
func (h *SystemHandlers) HandleInfo(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.getSystemStats()

	dbInfo := map[string]interface{}{}
	if h.calendarDB != nil {
		if stats, err := h.calendarDB.GetStats(); err == nil {
			dbInfo["name"] = h.calendarDB.Name()
			dbInfo["size_mb"] = float64(stats.SizeBytes) / 1024 / 1024
			dbInfo["page_count"] = stats.PageCount
			dbInfo["page_size"] = stats.PageSize
		} else {
			h.log.Warn().Err(err).Msg("Failed to read calendar database stats")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
			"started_at":  h.startedAt.UTC().Format(time.RFC3339),
			"cpu_percent": cpuAvg,
			"ram_percent": ramPercent,
			"data_dir":    h.dataDir,
			"data_dir_mb": h.getDirSize(h.dataDir),
			"calendar_db": dbInfo,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sampling interval to keep the endpoint responsive.
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
