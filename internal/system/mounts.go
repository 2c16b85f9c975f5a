package system

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/disk"
)

// MountTable перечисляет смонтированные тома
type MountTable struct {
	// partitions подменяется в тестах
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

func NewMountTable() *MountTable {
	return &MountTable{partitions: disk.PartitionsWithContext}
}

// Mounted возвращает смонтированные тома вида "E:"
func (m *MountTable) Mounted(ctx context.Context) ([]string, error) {
	stats, err := m.partitions(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "list mounted partitions")
	}

	seen := make(map[string]struct{}, len(stats))
	for _, s := range stats {
		seen[NormalizeVolume(s.Mountpoint)] = struct{}{}
	}
	return sortedKeys(seen), nil
}

// UsedLetters возвращает занятые буквы: смонтированные тома плюс
// буквы, зарезервированные системой
func (m *MountTable) UsedLetters(ctx context.Context) ([]string, error) {
	mounted, err := m.Mounted(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(mounted))
	for _, v := range mounted {
		seen[v] = struct{}{}
	}
	for _, v := range logicalDriveLetters() {
		seen[v] = struct{}{}
	}
	return sortedKeys(seen), nil
}

// IsMounted проверяет наличие тома в таблице
func (m *MountTable) IsMounted(ctx context.Context, volume string) (bool, error) {
	mounted, err := m.Mounted(ctx)
	if err != nil {
		return false, err
	}
	volume = NormalizeVolume(volume)
	for _, v := range mounted {
		if v == volume {
			return true, nil
		}
	}
	return false, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
