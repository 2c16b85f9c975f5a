//go:build windows

package system

import (
	"os"

	"golang.org/x/sys/windows"
)

// SystemVolume возвращает системный том (C:, D:, и т.д.)
func SystemVolume() string {
	sysDir, err := windows.GetSystemDirectory()
	if err == nil && len(sysDir) >= 2 {
		return NormalizeVolume(sysDir[:2])
	}

	// Fallback
	if windir := os.Getenv("WINDIR"); len(windir) >= 2 {
		return NormalizeVolume(windir[:2])
	}
	return "C:"
}

// logicalDriveLetters возвращает все занятые буквы дисков, включая
// приводы без носителя, которых нет в таблице монтирования
func logicalDriveLetters() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}

	var drives []string
	for c := 0; c < 26; c++ {
		if mask&(1<<uint(c)) != 0 {
			drives = append(drives, string(rune('A'+c))+":")
		}
	}
	return drives
}
