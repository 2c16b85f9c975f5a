package system

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizeVolume приводит путь к виду "E:"
func NormalizeVolume(path string) string {
	path = strings.TrimSpace(path)
	if len(path) == 1 {
		return strings.ToUpper(path) + ":"
	}
	if len(path) >= 2 && path[1] == ':' {
		return strings.ToUpper(path[:2])
	}
	return path
}

// EngineVolume возвращает том, с которого запущен исполняемый файл
func EngineVolume() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	vol := filepath.VolumeName(exe)
	if vol == "" {
		return ""
	}
	return NormalizeVolume(vol)
}

// VolumeReachable проверяет, что корень тома доступен
func VolumeReachable(volume string) bool {
	_, err := os.Stat(NormalizeVolume(volume) + string(os.PathSeparator))
	return err == nil
}
