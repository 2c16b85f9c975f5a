//go:build windows

package security

import "golang.org/x/sys/windows"

// Проверка прав администратора по токену процесса
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
