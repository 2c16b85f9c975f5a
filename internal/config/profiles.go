package config

import (
	"fmt"
)

// ApplyProfile применяет набор опций затирания к конфигурации
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "quick":
		cfg.Options.Extra = false
		cfg.Options.Verify = false
		cfg.Options.Check = false
		cfg.Options.BlockSize = "auto"
	case "thorough":
		cfg.Options.Extra = true
		cfg.Options.Verify = true
		cfg.Options.Check = false
	case "check":
		cfg.Options.Check = true
		cfg.Options.Extra = false
		cfg.Options.Verify = false
		cfg.Options.Delete = false
		cfg.Options.PartTable = "none"
	default:
		return fmt.Errorf("неизвестный профиль: %s", profile)
	}
	return nil
}
