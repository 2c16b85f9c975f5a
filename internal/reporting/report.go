package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"hdzero/internal/wipe"
)

// Version записывается в отчёт, перезаписывается через -ldflags
var Version = "1.0.0"

// Report представляет JSON отчёт о запуске
type Report struct {
	RunID      string            `json:"run_id"`
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	TargetKind string            `json:"target_kind"`
	Target     string            `json:"target"`
	Options    OptionsReport     `json:"options"`
	Status     string            `json:"status"` // COMPLETED, PARTIAL, CANCELLED, FAILED
	MountPoint string            `json:"mount_point,omitempty"`
	Operations []OperationReport `json:"operations"`
	Warnings   []string          `json:"warnings,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
	Summary    SummaryReport     `json:"summary"`
	Duration   string            `json:"duration"`
}

// OptionsReport - снимок опций запуска
type OptionsReport struct {
	Extra       bool   `json:"extra"`
	FillFF      bool   `json:"ff"`
	Verify      bool   `json:"verify"`
	Check       bool   `json:"check"`
	BlockSize   int    `json:"blocksize,omitempty"`
	Filesystem  string `json:"fs,omitempty"`
	PartTable   string `json:"parttable"`
	VolumeLabel string `json:"volname,omitempty"`
	DeleteAfter bool   `json:"delete"`
	Dummy       bool   `json:"dummy,omitempty"`
}

// OperationReport представляет отчёт об одном вызове затирателя
type OperationReport struct {
	Target    string     `json:"target"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Bytes     uint64     `json:"bytes"`
	ExitCode  int        `json:"exit_code"`
	Deleted   bool       `json:"deleted,omitempty"`
	Error     string     `json:"error,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// SummaryReport представляет сводную информацию
type SummaryReport struct {
	TotalTargets int     `json:"total_targets"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	Failed       int     `json:"failed"`
	TotalBytes   uint64  `json:"total_bytes"`
	SuccessRate  float64 `json:"success_rate"`
}

// GenerateReport генерирует JSON отчёт о запуске
func GenerateReport(runID string, target wipe.Target, opts wipe.Options, ops []wipe.Invocation, startTime, endTime time.Time) *Report {
	report := &Report{
		RunID:      runID,
		Version:    Version,
		Timestamp:  startTime,
		TargetKind: target.Kind.String(),
		Target:     target.String(),
		Options: OptionsReport{
			Extra:       opts.Extra,
			FillFF:      opts.FillFF,
			Verify:      opts.Verify,
			Check:       opts.Check,
			BlockSize:   opts.BlockSize,
			Filesystem:  opts.Filesystem,
			PartTable:   opts.PartTable,
			VolumeLabel: opts.VolumeLabel,
			DeleteAfter: opts.DeleteAfter,
			Dummy:       opts.Dummy,
		},
		Operations: make([]OperationReport, len(ops)),
		Duration:   endTime.Sub(startTime).Round(time.Second).String(),
	}

	var s SummaryReport
	for i, op := range ops {
		report.Operations[i] = OperationReport{
			Target:    op.Target,
			Status:    op.Status,
			StartTime: op.StartTime,
			EndTime:   op.EndTime,
			Bytes:     op.Bytes,
			ExitCode:  op.ExitCode,
			Deleted:   op.Deleted,
			Error:     op.Error,
			Warnings:  op.Warnings,
		}

		switch op.Status {
		case wipe.StatusCompleted:
			s.Completed++
		case wipe.StatusCancelled:
			s.Cancelled++
		default:
			s.Failed++
		}
		s.TotalBytes += op.Bytes
	}
	s.TotalTargets = len(ops)
	if s.TotalTargets > 0 {
		s.SuccessRate = float64(s.Completed) / float64(s.TotalTargets) * 100
	}
	report.Summary = s
	report.Status = overallStatus(s)

	return report
}

func overallStatus(s SummaryReport) string {
	switch {
	case s.Cancelled > 0:
		return wipe.StatusCancelled
	case s.TotalTargets == 0 || s.Completed == 0:
		return wipe.StatusFailed
	case s.Failed > 0:
		return "PARTIAL"
	default:
		return wipe.StatusCompleted
	}
}

// SaveReport сохраняет отчёт в JSON файл и возвращает путь к нему
func SaveReport(report *Report, dir string) (string, error) {
	// Создаем директорию для отчётов
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "ошибка создания директории для отчётов")
	}

	filename := fmt.Sprintf("hdzero_report_%s.json", report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "ошибка сериализации отчёта")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, "ошибка записи отчёта")
	}

	return path, nil
}
