package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hdzero/internal/app"
	"hdzero/internal/config"
	"hdzero/internal/logging"
	"hdzero/internal/orchestrator"
	"hdzero/internal/reporting"
	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/tui"
)

const (
	AppName = "hdzero"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
	EXIT_WARNING = 2
)

var (
	cfg        *config.Config
	logger     *logging.EnterpriseLogger
	verbose    bool
	configPath string
	profile    string
	exitCode   = EXIT_SUCCESS

	settings = viper.New()
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:           "hdzero",
	Short:         "hdzero - безопасное затирание дисков и файлов",
	Long:          "Оркестратор затирания: размонтирование, очистка таблицы разделов, запуск затирателя, новый раздел и журнал сессии",
	Version:       reporting.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать физические диски и разделы",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var wipeCmd = &cobra.Command{
	Use:   "wipe (--drive N | --files FILE...)",
	Short: "Затереть диск или файлы",
	RunE:  runWipe,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Показать сохранённые отчёты",
	Args:  cobra.NoArgs,
	RunE:  runReports,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Интерактивный режим",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Работа с конфигурацией",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Записать конфигурацию по умолчанию",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Путь к конфигурации")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Профиль (quick/thorough/check)")
	rootCmd.PersistentFlags().String("wiper", "", "Путь к затирателю")
	rootCmd.PersistentFlags().String("log-dir", "", "Каталог журналов сессии")

	wipeCmd.Flags().Int("drive", -1, "Номер физического диска")
	wipeCmd.Flags().Bool("files", false, "Затирать файлы, перечисленные аргументами")
	wipeCmd.Flags().Bool("extra", false, "Дополнительные проходы")
	wipeCmd.Flags().Bool("ff", false, "Заполнять 0xFF вместо нулей")
	wipeCmd.Flags().Bool("verify", false, "Проверять после записи")
	wipeCmd.Flags().Bool("check", false, "Только проверка, без записи")
	wipeCmd.Flags().String("blocksize", "", "Размер блока в байтах или auto")
	wipeCmd.Flags().String("fs", "", "Файловая система нового раздела (ntfs/exfat/fat32)")
	wipeCmd.Flags().String("parttable", "", "Таблица разделов (none/gpt/mbr)")
	wipeCmd.Flags().String("label", "", "Метка нового тома")
	wipeCmd.Flags().Bool("log", false, "Писать журнал сессии")
	wipeCmd.Flags().Bool("ask-twice", false, "Спрашивать подтверждение ещё дважды")
	wipeCmd.Flags().Bool("delete", false, "Удалять файлы после затирания")
	wipeCmd.Flags().Bool("dummy", false, "Тестовый режим затирателя")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(listCmd, wipeCmd, reportsCmd, tuiCmd, configCmd)
}

// setup загружает конфигурацию, профиль, переопределения и логгер
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки конфигурации")
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return errors.Wrapf(err, "ошибка применения профиля %s", profile)
		}
	}

	if err := bindOverrides(settings, cmd.Flags()); err != nil {
		return err
	}
	if err := applyOverrides(settings, cfg); err != nil {
		return errors.Wrap(err, "невалидные параметры")
	}

	logger, err = logging.NewEnterpriseLogger(cfg, verbose)
	if err != nil {
		return errors.Wrap(err, "ошибка инициализации логгера")
	}
	if profile != "" {
		logger.Log("INFO", "Применён профиль", "profile", profile)
	}

	if !security.IsAdmin() {
		logger.Log("WARN", "Нет прав администратора, операции с дисками могут завершиться ошибкой")
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := app.New(cfg, logger, nil)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSystemInfo(out, a.GetSystemInfo())

	drives, err := a.Drives(ctx)
	if err != nil {
		return err
	}
	if len(drives) == 0 {
		fmt.Fprintln(out, "Диски не найдены")
		return nil
	}

	for _, d := range drives {
		fmt.Fprintf(out, "%d  %s  %s  %s\n", d.Index, d.DeviceID, d.Label, d.MediaType)
		fmt.Fprintf(out, "   %s\n", system.ReadableSize(d.Size))
		for _, h := range a.Hazards(d) {
			fmt.Fprintf(out, "   ! %s\n", h.Describe())
		}
		parts, err := a.Partitions(ctx, d.Index)
		if err != nil {
			logger.Log("WARN", "Не удалось получить разделы", "drive", d.DeviceID, "error", err.Error())
			continue
		}
		for _, p := range parts {
			fmt.Fprintf(out, "   %-3s %s, %s, %s\n", p.VolumeID, p.PartitionID, p.Description, system.ReadableSize(p.Size))
		}
	}
	return nil
}

func printSystemInfo(out io.Writer, info app.SystemInfo) {
	admin := "нет"
	if info.IsAdmin {
		admin = "да"
	}
	fmt.Fprintf(out, "%s/%s, пользователь %s, администратор: %s\n", info.OS, info.Architecture, info.User, admin)
	fmt.Fprintf(out, "Том hdzero: %s, системный том: %s\n\n", orDash(info.EngineVolume), orDash(info.SystemVolume))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runReports(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg, logger, nil)
	if err != nil {
		return err
	}
	reports, err := a.GetReports()
	if err != nil {
		return err
	}
	printReports(cmd.OutOrStdout(), a.Config().Reporting.LocalPath, reports)
	return nil
}

func printReports(out io.Writer, dir string, reports []app.ReportInfo) {
	if len(reports) == 0 {
		fmt.Fprintf(out, "Отчётов нет в %s\n", dir)
		return
	}
	for _, r := range reports {
		size := uint64(r.Size)
		fmt.Fprintf(out, "%s  %s  %s\n", r.ModifiedAt.Format("2006-01-02 15:04:05"), r.Name, system.ReadableSize(&size))
	}
}

func runWipe(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("drive")
	files, _ := cmd.Flags().GetBool("files")
	if files == (index >= 0) {
		return errors.New("укажите либо --drive N, либо --files FILE...")
	}
	if files && len(args) == 0 {
		return errors.New("не указаны файлы")
	}
	if !files && len(args) > 0 {
		return errors.Newf("лишние аргументы: %s", strings.Join(args, " "))
	}

	console := newConsoleReporter(os.Stdin, cmd.OutOrStdout())
	a, err := app.New(cfg, logger, console)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var req orchestrator.Request
	if files {
		req = app.FileRequest(args, a.Options())
	} else {
		drive, err := findDrive(ctx, a, index)
		if err != nil {
			return err
		}
		req = app.DriveRequest(drive, a.Options())
	}

	// Установка обработчиков сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Log("WARN", "Получен сигнал, отменяем затирание", "signal", sig.String())
			a.Cancel()
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Log("INFO", "Запуск hdzero", "version", reporting.Version, "target", req.Target.String())
	summary, err := a.Run(ctx, req)
	if err != nil {
		return err
	}
	exitCode = summaryExitCode(summary)
	return nil
}

func findDrive(ctx context.Context, a *app.App, index int) (system.Drive, error) {
	drives, err := a.Drives(ctx)
	if err != nil {
		return system.Drive{}, err
	}
	for _, d := range drives {
		if d.Index == index {
			return d, nil
		}
	}
	return system.Drive{}, errors.Wrapf(system.ErrDriveNotFound, "диск %d", index)
}

// summaryExitCode: 0 - успех, 2 - предупреждения, отказ или отмена, 1 - ошибки
func summaryExitCode(s orchestrator.Summary) int {
	switch {
	case s.Success && len(s.Warnings) == 0:
		return EXIT_SUCCESS
	case s.Success, s.Declined, s.Cancelled:
		return EXIT_WARNING
	default:
		return EXIT_ERROR
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	reporter := tui.NewReporter()
	a, err := app.New(cfg, logger, reporter)
	if err != nil {
		return err
	}
	logger.Log("INFO", "Запуск интерактивного режима")

	err = tui.Run(a, reporter)
	if a.Busy() {
		a.Cancel()
		a.Wait()
	}
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("файл %s уже существует", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return errors.Wrap(err, "ошибка сохранения конфигурации")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Конфигурация записана: %s\n", path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Подсказка: %s\n", hint)
		}
		os.Exit(EXIT_ERROR)
	}
	os.Exit(exitCode)
}
