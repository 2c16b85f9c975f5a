//go:build !windows

package system

import "os"

// SystemVolume возвращает системный том по WINDIR, если он задан
func SystemVolume() string {
	if windir := os.Getenv("WINDIR"); len(windir) >= 2 && windir[1] == ':' {
		return NormalizeVolume(windir[:2])
	}
	return ""
}

func logicalDriveLetters() []string {
	return nil
}
