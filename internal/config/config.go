package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Конфигурация hdzero
type Config struct {
	Wiper     WiperConfig     `yaml:"wiper"`
	Options   OptionsConfig   `yaml:"options"`
	Timing    TimingConfig    `yaml:"timing"`
	Log       SessionLogCfg   `yaml:"log"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// WiperConfig описывает внешний исполняемый файл затирания
type WiperConfig struct {
	Path      string `yaml:"path" validate:"required"`
	DummyMode bool   `yaml:"dummy_mode"`
}

// OptionsConfig хранит значения опций по умолчанию для нового запуска
type OptionsConfig struct {
	Extra       bool   `yaml:"extra"`
	FillFF      bool   `yaml:"ff"`
	Verify      bool   `yaml:"verify"`
	Check       bool   `yaml:"check"`
	BlockSize   string `yaml:"blocksize"`
	Filesystem  string `yaml:"fs" validate:"oneof=ntfs exfat fat32"`
	PartTable   string `yaml:"parttable" validate:"oneof=none gpt mbr"`
	VolumeLabel string `yaml:"volname" validate:"max=32"`
	WriteLog    bool   `yaml:"log"`
	AskTwice    bool   `yaml:"asktwice"`
	Delete      bool   `yaml:"delete"`
}

// TimingConfig задаёт константы повторов и ожидания
type TimingConfig struct {
	DismountRetries int    `yaml:"dismount_retries" validate:"min=1,max=600"`
	DismountDelay   string `yaml:"dismount_delay"`
	MountRetries    int    `yaml:"mount_retries" validate:"min=1,max=600"`
	MountDelay      string `yaml:"mount_delay"`
	LineTimeout     string `yaml:"line_timeout"`
}

// SessionLogCfg описывает журнал сессии затирания
type SessionLogCfg struct {
	HeaderFile string `yaml:"header_file"`
	Dir        string `yaml:"dir"`
}

type LoggingConfig struct {
	Level   string `yaml:"level" validate:"oneof=DEBUG INFO WARN ERROR"`
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

type ReportingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalPath string `yaml:"local_path"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Wiper: WiperConfig{
			Path:      filepath.Join(exeDir(), "zerod.exe"),
			DummyMode: false,
		},
		Options: OptionsConfig{
			BlockSize:   "auto",
			Filesystem:  "ntfs",
			PartTable:   "gpt",
			VolumeLabel: "Volume",
			WriteLog:    true,
		},
		Timing: TimingConfig{
			DismountRetries: 10,
			DismountDelay:   "1s",
			MountRetries:    30,
			MountDelay:      "1s",
			LineTimeout:     "0s",
		},
		Log: SessionLogCfg{
			HeaderFile: filepath.Join(exeDir(), "logheader.txt"),
			Dir:        "./logs",
		},
		Logging: LoggingConfig{
			Level:   "INFO",
			File:    "",
			Verbose: false,
		},
		Reporting: ReportingConfig{
			Enabled:   false,
			LocalPath: "./reports",
		},
	}
}

// Load загружает конфигурацию из файла
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Незаданные ключи сохраняют значения по умолчанию
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.Options.Filesystem = strings.ToLower(config.Options.Filesystem)
	config.Options.PartTable = strings.ToLower(config.Options.PartTable)

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

var validate = validator.New()

// Validate проверяет конфигурацию и возвращает все найденные ошибки
func Validate(config *Config) error {
	var result *multierror.Error
	if err := validate.Struct(config); err != nil {
		result = multierror.Append(result, err)
	}

	if _, err := ParseBlockSize(config.Options.BlockSize); err != nil {
		result = multierror.Append(result, err)
	}

	for _, delay := range []struct{ name, value string }{
		{"dismount_delay", config.Timing.DismountDelay},
		{"mount_delay", config.Timing.MountDelay},
	} {
		d, err := time.ParseDuration(delay.value)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid %s: %q", delay.name, delay.value))
			continue
		}
		if d <= 0 || d > time.Minute {
			result = multierror.Append(result, fmt.Errorf("%s must be between 0 and 1m, got %s", delay.name, delay.value))
		}
	}

	if config.Timing.LineTimeout != "" {
		d, err := time.ParseDuration(config.Timing.LineTimeout)
		if err != nil || d < 0 {
			result = multierror.Append(result, fmt.Errorf("invalid line_timeout: %q", config.Timing.LineTimeout))
		}
	}

	return result.ErrorOrNil()
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ParseBlockSize разбирает значение blocksize: "auto" или пусто означает 0.
// Проверка кратности 512 выполняется при сборке аргументов затирателя.
func ParseBlockSize(value string) (int, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || value == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid blocksize: %q", value)
	}
	return n, nil
}

// DismountDelay возвращает паузу между проверками размонтирования
func (config *Config) DismountDelay() time.Duration {
	return parseDelay(config.Timing.DismountDelay)
}

// MountDelay возвращает паузу между проверками появления тома
func (config *Config) MountDelay() time.Duration {
	return parseDelay(config.Timing.MountDelay)
}

// LineTimeout возвращает максимальное время ожидания строки от затирателя.
// Ноль отключает ограничение.
func (config *Config) LineTimeout() time.Duration {
	d, err := time.ParseDuration(config.Timing.LineTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func parseDelay(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return time.Second // Fallback
	}
	return d
}

// exeDir возвращает каталог исполняемого файла
func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
