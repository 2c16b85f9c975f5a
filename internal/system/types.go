package system

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrDriveNotFound возвращается, если диска с таким индексом нет
	ErrDriveNotFound = errors.New("drive not found")
	// ErrUnsupported возвращается на платформах без WMI
	ErrUnsupported = errors.New("device inventory is only available on windows")
)

// Drive is a read-only snapshot of one physical drive.
type Drive struct {
	Index     int
	DeviceID  string // \\.\PHYSICALDRIVEn
	Label     string
	Size      *uint64 // nil when the OS did not report a size
	MediaType string
	Mounts    []string // mounted volumes, e.g. "E:"
}

// Partition is a logical volume backed by a drive.
type Partition struct {
	VolumeID    string // "E:"
	PartitionID string // "Disk #1, Partition #0"
	DriveID     string
	Description string
	Size        *uint64
}

// RawDrive is one Win32_DiskDrive row.
type RawDrive struct {
	Index     int
	DeviceID  string
	Caption   string
	MediaType string
	Size      *uint64
}

// PartitionLink is one Win32_LogicalDiskToPartition association.
type PartitionLink struct {
	Antecedent string
	Dependent  string
}

// LogicalDisk is one Win32_LogicalDisk row.
type LogicalDisk struct {
	DeviceID    string
	Description string
	VolumeName  string
	Size        *uint64
}
