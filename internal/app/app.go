package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"hdzero/internal/config"
	"hdzero/internal/logging"
	"hdzero/internal/orchestrator"
	"hdzero/internal/partition"
	"hdzero/internal/reporting"
	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

// App связывает конфигурацию, инвентаризацию и драйвер затирания.
// Консольный режим и TUI работают только через него.
type App struct {
	logger    *logging.EnterpriseLogger
	config    *config.Config
	inventory *system.Inventory
	driver    *orchestrator.Driver
	guard     security.Guard
}

// New собирает рабочие зависимости из конфигурации
func New(cfg *config.Config, logger *logging.EnterpriseLogger, reporter orchestrator.Reporter) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	header, err := reporting.LoadHeader(cfg.Log.HeaderFile)
	if err != nil {
		logger.Log("WARN", "Не удалось прочитать заголовок журнала", "path", cfg.Log.HeaderFile, "error", err.Error())
	}

	inventory := system.NewInventory(system.NewSource())
	mounts := system.NewMountTable()
	table := partition.NewController(partition.ExecRunner{Logger: logger}, mounts, partition.Timing{
		DismountRetries: cfg.Timing.DismountRetries,
		DismountDelay:   cfg.DismountDelay(),
		MountRetries:    cfg.Timing.MountRetries,
		MountDelay:      cfg.MountDelay(),
	}, logger)
	wiper := wipe.NewSupervisor(cfg.Wiper.Path, logger)
	guard := security.NewGuard()

	settings := orchestrator.Settings{
		LogHeader:   header,
		LogDir:      cfg.Log.Dir,
		LineTimeout: cfg.LineTimeout(),
		Guard:       guard,
	}
	if cfg.Reporting.Enabled {
		settings.ReportDir = cfg.Reporting.LocalPath
	}

	driver := orchestrator.New(orchestrator.Deps{
		Inventory:      inventory,
		PartitionTable: table,
		Wiper:          wiper,
		Reporter:       reporter,
		Logger:         logger,
	}, settings)

	logger.Log("DEBUG", "Приложение инициализировано",
		"wiper", cfg.Wiper.Path, "engine_volume", guard.EngineVolume, "system_volume", guard.SystemVolume)

	return &App{
		logger:    logger,
		config:    cfg,
		inventory: inventory,
		driver:    driver,
		guard:     guard,
	}, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.config
}

// Drives возвращает свежий снимок физических дисков
func (a *App) Drives(ctx context.Context) ([]system.Drive, error) {
	drives, err := a.inventory.ListDrives(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list drives")
	}
	return drives, nil
}

// Partitions возвращает разделы диска
func (a *App) Partitions(ctx context.Context, index int) ([]system.Partition, error) {
	return a.inventory.GetPartitions(ctx, index)
}

// Hazards reports why a drive must not be wiped, if at all.
func (a *App) Hazards(drive system.Drive) []security.Hazard {
	return a.guard.DriveHazards(drive.Mounts)
}

// Options переводит настройки конфигурации в параметры запуска
func (a *App) Options() wipe.Options {
	return OptionsFromConfig(a.config)
}

// OptionsFromConfig builds run options from the configured defaults.
// An invalid block size falls back to auto.
func OptionsFromConfig(cfg *config.Config) wipe.Options {
	bs, err := config.ParseBlockSize(cfg.Options.BlockSize)
	if err != nil {
		bs = 0
	}
	return wipe.Options{
		Extra:        cfg.Options.Extra,
		FillFF:       cfg.Options.FillFF,
		Verify:       cfg.Options.Verify,
		Check:        cfg.Options.Check,
		BlockSize:    bs,
		Filesystem:   cfg.Options.Filesystem,
		PartTable:    cfg.Options.PartTable,
		VolumeLabel:  cfg.Options.VolumeLabel,
		WriteLog:     cfg.Options.WriteLog,
		AskTwiceMore: cfg.Options.AskTwice,
		DeleteAfter:  cfg.Options.Delete,
		Dummy:        cfg.Wiper.DummyMode,
	}.Normalize()
}

// DriveRequest builds a run request for an inventoried drive.
func DriveRequest(drive system.Drive, opts wipe.Options) orchestrator.Request {
	return orchestrator.Request{
		Target: wipe.NewDriveTarget(wipe.DriveTarget{
			DeviceID: drive.DeviceID,
			Index:    drive.Index,
			Size:     drive.Size,
			Mounts:   drive.Mounts,
		}),
		Options: opts,
	}
}

// FileRequest builds a run request for files. Paths are made absolute.
func FileRequest(files []string, opts wipe.Options) orchestrator.Request {
	abs := make([]string, 0, len(files))
	for _, f := range files {
		if p, err := filepath.Abs(f); err == nil {
			f = p
		}
		abs = append(abs, f)
	}
	return orchestrator.Request{Target: wipe.NewFileTarget(abs...), Options: opts}
}

// Start запускает затирание в фоне
func (a *App) Start(req orchestrator.Request) error {
	if err := a.driver.Start(req); err != nil {
		a.logger.Log("WARN", "Запуск отклонён", "error", err.Error())
		return err
	}
	return nil
}

// Run выполняет затирание в текущей горутине
func (a *App) Run(ctx context.Context, req orchestrator.Request) (orchestrator.Summary, error) {
	return a.driver.Run(ctx, req)
}

// Cancel останавливает текущий запуск
func (a *App) Cancel() {
	a.logger.Log("INFO", "Запрошена отмена")
	a.driver.Cancel()
}

func (a *App) Busy() bool {
	return a.driver.Busy()
}

func (a *App) Status() orchestrator.Status {
	return a.driver.Status()
}

func (a *App) Wait() {
	a.driver.Wait()
}

// ReportInfo represents information about a report file
type ReportInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// GetReports lists saved JSON reports, newest first.
func (a *App) GetReports() ([]ReportInfo, error) {
	return ListReports(a.config.Reporting.LocalPath)
}

// ListReports scans dir for hdzero JSON reports.
func ListReports(dir string) ([]ReportInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []ReportInfo{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read reports directory")
	}

	reports := []ReportInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || !strings.HasPrefix(entry.Name(), "hdzero_report_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, ReportInfo{
			Name:       entry.Name(),
			Path:       filepath.Join(dir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ModifiedAt.After(reports[j].ModifiedAt)
	})
	return reports, nil
}

// SystemInfo represents system information for footer
type SystemInfo struct {
	IsAdmin      bool   `json:"isAdmin"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	User         string `json:"user"`
	EngineVolume string `json:"engineVolume"`
	SystemVolume string `json:"systemVolume"`
}

// GetSystemInfo returns system information for display
func (a *App) GetSystemInfo() SystemInfo {
	return SystemInfo{
		IsAdmin:      security.IsAdmin(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		User:         os.Getenv("USERNAME"),
		EngineVolume: a.guard.EngineVolume,
		SystemVolume: a.guard.SystemVolume,
	}
}
