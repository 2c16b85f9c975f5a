package security

import (
	"os"
	"strings"

	"hdzero/internal/system"
)

// Hazard описывает причину, по которой диск нельзя затирать
type Hazard string

const (
	HazardHostsEngine  Hazard = "HOSTS_ENGINE"
	HazardSystemVolume Hazard = "SYSTEM_VOLUME"
)

// Describe возвращает текст предупреждения для пользователя
func (h Hazard) Describe() string {
	switch h {
	case HazardHostsEngine:
		return "drive hosts the running hdzero executable"
	case HazardSystemVolume:
		return "drive hosts the Windows system volume"
	}
	return string(h)
}

// Guard знает тома, которые нельзя затирать
type Guard struct {
	EngineVolume string
	SystemVolume string
}

// NewGuard определяет тома текущего процесса и системы
func NewGuard() Guard {
	return Guard{
		EngineVolume: system.EngineVolume(),
		SystemVolume: system.SystemVolume(),
	}
}

// DriveHazards проверяет тома диска
func (g Guard) DriveHazards(mounts []string) []Hazard {
	var hazards []Hazard
	if g.EngineVolume != "" && containsVolume(mounts, g.EngineVolume) {
		hazards = append(hazards, HazardHostsEngine)
	}
	if g.SystemVolume != "" && containsVolume(mounts, g.SystemVolume) {
		hazards = append(hazards, HazardSystemVolume)
	}
	return hazards
}

// FileHazards flags files that live inside the running executable or the
// Windows directory.
func (g Guard) FileHazards(path string) []Hazard {
	var hazards []Hazard
	if exe, err := os.Executable(); err == nil && samePath(exe, path) {
		hazards = append(hazards, HazardHostsEngine)
	}
	if windir := os.Getenv("WINDIR"); windir != "" && underDir(path, windir) {
		hazards = append(hazards, HazardSystemVolume)
	}
	return hazards
}

func containsVolume(mounts []string, volume string) bool {
	volume = system.NormalizeVolume(volume)
	for _, m := range mounts {
		if system.NormalizeVolume(m) == volume {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	return strings.EqualFold(cleanPath(a), cleanPath(b))
}

func underDir(path, dir string) bool {
	p, d := strings.ToLower(cleanPath(path)), strings.ToLower(cleanPath(dir))
	return strings.HasPrefix(p, d+`\`)
}

func cleanPath(p string) string {
	return strings.TrimRight(strings.ReplaceAll(p, "/", `\`), `\`)
}
