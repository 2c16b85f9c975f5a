//go:build windows

package system

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/yusufpapurcu/wmi"
)

type win32DiskDrive struct {
	Index     uint32
	DeviceID  string
	Caption   string
	MediaType *string
	Size      *uint64
}

type win32LogicalDiskToPartition struct {
	Antecedent string
	Dependent  string
}

type win32LogicalDisk struct {
	DeviceID    string
	Description *string
	VolumeName  *string
	Size        *uint64
}

// WMISource читает сведения об устройствах через WMI
type WMISource struct{}

// NewSource возвращает источник для текущей платформы
func NewSource() Source {
	return WMISource{}
}

func (WMISource) DiskDrives(ctx context.Context) ([]RawDrive, error) {
	var rows []win32DiskDrive
	if err := query(ctx, "SELECT Index, DeviceID, Caption, MediaType, Size FROM Win32_DiskDrive", &rows); err != nil {
		return nil, err
	}
	out := make([]RawDrive, 0, len(rows))
	for _, r := range rows {
		out = append(out, RawDrive{
			Index:     int(r.Index),
			DeviceID:  r.DeviceID,
			Caption:   r.Caption,
			MediaType: deref(r.MediaType),
			Size:      r.Size,
		})
	}
	return out, nil
}

func (WMISource) PartitionLinks(ctx context.Context) ([]PartitionLink, error) {
	var rows []win32LogicalDiskToPartition
	if err := query(ctx, "SELECT Antecedent, Dependent FROM Win32_LogicalDiskToPartition", &rows); err != nil {
		return nil, err
	}
	out := make([]PartitionLink, 0, len(rows))
	for _, r := range rows {
		out = append(out, PartitionLink{Antecedent: r.Antecedent, Dependent: r.Dependent})
	}
	return out, nil
}

func (WMISource) LogicalDisks(ctx context.Context) ([]LogicalDisk, error) {
	var rows []win32LogicalDisk
	if err := query(ctx, "SELECT DeviceID, Description, VolumeName, Size FROM Win32_LogicalDisk", &rows); err != nil {
		return nil, err
	}
	out := make([]LogicalDisk, 0, len(rows))
	for _, r := range rows {
		out = append(out, LogicalDisk{
			DeviceID:    r.DeviceID,
			Description: deref(r.Description),
			VolumeName:  deref(r.VolumeName),
			Size:        r.Size,
		})
	}
	return out, nil
}

// query выполняет WMI запрос. Сам запрос не прерывается, контекст
// проверяется до и после него.
func query(ctx context.Context, q string, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := wmi.Query(q, dst); err != nil {
		return errors.Wrapf(err, "wmi: %s", q)
	}
	return ctx.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
