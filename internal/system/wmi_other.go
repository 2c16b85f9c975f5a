//go:build !windows

package system

import "context"

type unsupportedSource struct{}

// NewSource возвращает источник для текущей платформы
func NewSource() Source {
	return unsupportedSource{}
}

func (unsupportedSource) DiskDrives(context.Context) ([]RawDrive, error) {
	return nil, ErrUnsupported
}

func (unsupportedSource) PartitionLinks(context.Context) ([]PartitionLink, error) {
	return nil, ErrUnsupported
}

func (unsupportedSource) LogicalDisks(context.Context) ([]LogicalDisk, error) {
	return nil, ErrUnsupported
}
