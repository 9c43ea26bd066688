package worker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"clemfr/grantwatch/logger"
)

// RunReport summarizes one pipeline run for record keeping
type RunReport struct {
	Timestamp        time.Time     `json:"timestamp"`
	TotalSources     int           `json:"total_sources"`
	SourcesProcessed int           `json:"sources_processed"`
	SourcesFailed    int           `json:"sources_failed"`
	GrantsFound      int           `json:"grants_found"`
	Notified         bool          `json:"notified"`
	Duration         time.Duration `json:"-"`
	DurationSeconds  float64       `json:"duration_seconds"`
}

// writeReport saves the run report as JSON when a report directory is
// configured. A write failure is logged but never fails the run.
func (w *Worker) writeReport(report *RunReport) {
	if w.reportDir == "" {
		return
	}

	report.DurationSeconds = report.Duration.Seconds()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.ForWorker().Warn().Err(err).Msg("Failed to marshal run report")
		return
	}

	name := "grants_scan_" + report.Timestamp.Format("20060102_150405") + ".json"
	path := filepath.Join(w.reportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.ForWorker().Warn().Err(err).Str("path", path).Msg("Failed to write run report")
		return
	}

	logger.ForWorker().Info().Str("path", path).Msg("Run report saved")
}
