package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdzero/internal/app"
	"hdzero/internal/config"
	"hdzero/internal/orchestrator"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("wipe", pflag.ContinueOnError)
	fs.Bool("extra", false, "")
	fs.String("parttable", "", "")
	fs.String("label", "", "")
	fs.Bool("delete", false, "")
	return fs
}

func TestOverridesFromFlags(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--extra", "--parttable", "MBR", "--label", "Backup"}))

	v := viper.New()
	require.NoError(t, bindOverrides(v, fs))
	cfg := config.Default()
	require.NoError(t, applyOverrides(v, cfg))

	assert.True(t, cfg.Options.Extra)
	assert.Equal(t, "mbr", cfg.Options.PartTable)
	assert.Equal(t, "Backup", cfg.Options.VolumeLabel)
	assert.False(t, cfg.Options.Delete)
	assert.Equal(t, "ntfs", cfg.Options.Filesystem)
}

func TestOverridesFromEnvironment(t *testing.T) {
	t.Setenv("HDZERO_OPTIONS_VERIFY", "true")
	t.Setenv("HDZERO_TIMING_MOUNT_RETRIES", "5")
	t.Setenv("HDZERO_LOG_DIR", "D:/wipe-logs")

	v := viper.New()
	require.NoError(t, bindOverrides(v, testFlags()))
	cfg := config.Default()
	require.NoError(t, applyOverrides(v, cfg))

	assert.True(t, cfg.Options.Verify)
	assert.Equal(t, 5, cfg.Timing.MountRetries)
	assert.Equal(t, "D:/wipe-logs", cfg.Log.Dir)
}

func TestOverridesAreValidated(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--parttable", "apm"}))

	v := viper.New()
	require.NoError(t, bindOverrides(v, fs))
	assert.Error(t, applyOverrides(v, config.Default()))
}

func TestSummaryExitCode(t *testing.T) {
	assert.Equal(t, EXIT_SUCCESS, summaryExitCode(orchestrator.Summary{Success: true}))
	assert.Equal(t, EXIT_WARNING, summaryExitCode(orchestrator.Summary{Success: true, Warnings: []string{"x"}}))
	assert.Equal(t, EXIT_WARNING, summaryExitCode(orchestrator.Summary{Declined: true}))
	assert.Equal(t, EXIT_WARNING, summaryExitCode(orchestrator.Summary{Cancelled: true}))
	assert.Equal(t, EXIT_ERROR, summaryExitCode(orchestrator.Summary{Errors: []string{"boom"}}))
}

func TestConsoleConfirm(t *testing.T) {
	var out bytes.Buffer
	r := newConsoleReporter(strings.NewReader("y\nno\n"), &out)
	conf := orchestrator.Confirmation{Rounds: 3}

	assert.True(t, r.Confirm(context.Background(), conf, 1))
	assert.Contains(t, out.String(), "(y/N)")
	assert.False(t, r.Confirm(context.Background(), conf, 2))
	assert.Contains(t, out.String(), "2 из 3")
}

func TestConsoleConfirmCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := newConsoleReporter(pr, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, r.Confirm(ctx, orchestrator.Confirmation{Rounds: 1}, 1))
}

func TestConsoleProgress(t *testing.T) {
	var out bytes.Buffer
	r := newConsoleReporter(strings.NewReader(""), &out)
	r.Progress(orchestrator.Status{State: orchestrator.StateWiping, Line: "Wiping disk.img", Fraction: 0})
	r.Progress(orchestrator.Status{State: orchestrator.StateWiping, Line: "Wiping disk.img", Fraction: 0.5})
	r.Warn("short write")
	r.Finished(orchestrator.Summary{Success: true})

	text := out.String()
	assert.Contains(t, text, "Wiping disk.img\n")
	assert.Contains(t, text, " 50.0%")
	assert.Contains(t, text, "Предупреждение: short write")
	assert.Contains(t, text, "Done.")
}

func TestPrintSystemInfo(t *testing.T) {
	var out bytes.Buffer
	printSystemInfo(&out, app.SystemInfo{IsAdmin: true, OS: "windows", Architecture: "amd64", User: "operator", EngineVolume: "D:"})

	text := out.String()
	assert.Contains(t, text, "windows/amd64")
	assert.Contains(t, text, "администратор: да")
	assert.Contains(t, text, "Том hdzero: D:")
	assert.Contains(t, text, "системный том: -")
}

func TestPrintReports(t *testing.T) {
	var out bytes.Buffer
	printReports(&out, "./reports", nil)
	assert.Equal(t, "Отчётов нет в ./reports\n", out.String())

	out.Reset()
	modified := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	printReports(&out, "./reports", []app.ReportInfo{
		{Name: "hdzero_report_20260102_100000.json", Size: 512, ModifiedAt: modified},
	})
	assert.Equal(t, "2026-01-02 10:00:00  hdzero_report_20260102_100000.json  512 B\n", out.String())
}
