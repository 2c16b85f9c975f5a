package main

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hdzero/internal/config"
)

// override связывает ключ конфигурации, флаг и переменную HDZERO_*
type override struct {
	key   string
	flag  string
	apply func(v *viper.Viper, c *config.Config)
}

func boolOpt(key, flag string, field func(*config.Config) *bool) override {
	return override{key: key, flag: flag, apply: func(v *viper.Viper, c *config.Config) {
		*field(c) = v.GetBool(key)
	}}
}

func stringOpt(key, flag string, field func(*config.Config) *string) override {
	return override{key: key, flag: flag, apply: func(v *viper.Viper, c *config.Config) {
		*field(c) = v.GetString(key)
	}}
}

func intOpt(key string, field func(*config.Config) *int) override {
	return override{key: key, apply: func(v *viper.Viper, c *config.Config) {
		*field(c) = v.GetInt(key)
	}}
}

var overrides = []override{
	stringOpt("wiper.path", "wiper", func(c *config.Config) *string { return &c.Wiper.Path }),
	boolOpt("wiper.dummy_mode", "dummy", func(c *config.Config) *bool { return &c.Wiper.DummyMode }),
	boolOpt("options.extra", "extra", func(c *config.Config) *bool { return &c.Options.Extra }),
	boolOpt("options.ff", "ff", func(c *config.Config) *bool { return &c.Options.FillFF }),
	boolOpt("options.verify", "verify", func(c *config.Config) *bool { return &c.Options.Verify }),
	boolOpt("options.check", "check", func(c *config.Config) *bool { return &c.Options.Check }),
	stringOpt("options.blocksize", "blocksize", func(c *config.Config) *string { return &c.Options.BlockSize }),
	stringOpt("options.fs", "fs", func(c *config.Config) *string { return &c.Options.Filesystem }),
	stringOpt("options.parttable", "parttable", func(c *config.Config) *string { return &c.Options.PartTable }),
	stringOpt("options.volname", "label", func(c *config.Config) *string { return &c.Options.VolumeLabel }),
	boolOpt("options.log", "log", func(c *config.Config) *bool { return &c.Options.WriteLog }),
	boolOpt("options.asktwice", "ask-twice", func(c *config.Config) *bool { return &c.Options.AskTwice }),
	boolOpt("options.delete", "delete", func(c *config.Config) *bool { return &c.Options.Delete }),
	intOpt("timing.dismount_retries", func(c *config.Config) *int { return &c.Timing.DismountRetries }),
	stringOpt("timing.dismount_delay", "", func(c *config.Config) *string { return &c.Timing.DismountDelay }),
	intOpt("timing.mount_retries", func(c *config.Config) *int { return &c.Timing.MountRetries }),
	stringOpt("timing.mount_delay", "", func(c *config.Config) *string { return &c.Timing.MountDelay }),
	stringOpt("timing.line_timeout", "", func(c *config.Config) *string { return &c.Timing.LineTimeout }),
	stringOpt("log.dir", "log-dir", func(c *config.Config) *string { return &c.Log.Dir }),
	stringOpt("logging.level", "", func(c *config.Config) *string { return &c.Logging.Level }),
	stringOpt("logging.file", "", func(c *config.Config) *string { return &c.Logging.File }),
}

// bindOverrides привязывает флаги команды и переменные окружения HDZERO_*
func bindOverrides(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("HDZERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var result *multierror.Error
	for _, o := range overrides {
		if err := v.BindEnv(o.key); err != nil {
			result = multierror.Append(result, err)
		}
		if o.flag == "" {
			continue
		}
		if f := flags.Lookup(o.flag); f != nil {
			if err := v.BindPFlag(o.key, f); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

// applyOverrides переносит заданные значения в конфигурацию и проверяет её
func applyOverrides(v *viper.Viper, cfg *config.Config) error {
	for _, o := range overrides {
		if v.IsSet(o.key) {
			o.apply(v, cfg)
		}
	}
	cfg.Options.Filesystem = strings.ToLower(cfg.Options.Filesystem)
	cfg.Options.PartTable = strings.ToLower(cfg.Options.PartTable)
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	return config.Validate(cfg)
}
