//go:build !windows

package security

// IsAdmin вне Windows всегда false: операции с дисками там недоступны
func IsAdmin() bool {
	return false
}
