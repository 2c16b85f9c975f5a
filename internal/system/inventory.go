package system

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Source отдаёт сырые записи об устройствах
type Source interface {
	DiskDrives(ctx context.Context) ([]RawDrive, error)
	PartitionLinks(ctx context.Context) ([]PartitionLink, error)
	LogicalDisks(ctx context.Context) ([]LogicalDisk, error)
}

// Inventory перечисляет физические диски и их тома
type Inventory struct {
	source Source
}

func NewInventory(source Source) *Inventory {
	return &Inventory{source: source}
}

// ListDrives возвращает диски, отсортированные по индексу
func (inv *Inventory) ListDrives(ctx context.Context) ([]Drive, error) {
	raw, err := inv.source.DiskDrives(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query disk drives")
	}

	parts, err := inv.partitionsByDisk(ctx)
	if err != nil {
		return nil, err
	}

	drives := make([]Drive, 0, len(raw))
	for _, r := range raw {
		d := Drive{
			Index:     r.Index,
			DeviceID:  r.DeviceID,
			Label:     r.Caption,
			Size:      r.Size,
			MediaType: r.MediaType,
			Mounts:    []string{},
		}
		for _, p := range parts[r.Index] {
			d.Mounts = append(d.Mounts, p.VolumeID)
		}
		sort.Strings(d.Mounts)
		drives = append(drives, d)
	}

	sort.Slice(drives, func(i, j int) bool { return drives[i].Index < drives[j].Index })
	return drives, nil
}

// GetDrive возвращает диск по индексу или ErrDriveNotFound
func (inv *Inventory) GetDrive(ctx context.Context, index int) (Drive, error) {
	drives, err := inv.ListDrives(ctx)
	if err != nil {
		return Drive{}, err
	}
	for _, d := range drives {
		if d.Index == index {
			return d, nil
		}
	}
	return Drive{}, errors.Wrapf(ErrDriveNotFound, "index %d", index)
}

// GetPartitions возвращает тома диска
func (inv *Inventory) GetPartitions(ctx context.Context, index int) ([]Partition, error) {
	drive, err := inv.GetDrive(ctx, index)
	if err != nil {
		return nil, err
	}
	parts, err := inv.partitionsByDisk(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Partition, 0, len(parts[index]))
	for _, p := range parts[index] {
		p.DriveID = drive.DeviceID
		out = append(out, p)
	}
	return out, nil
}

func (inv *Inventory) partitionsByDisk(ctx context.Context) (map[int][]Partition, error) {
	links, err := inv.source.PartitionLinks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query partition links")
	}
	logical, err := inv.source.LogicalDisks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query logical disks")
	}

	byID := make(map[string]LogicalDisk, len(logical))
	for _, l := range logical {
		byID[strings.ToUpper(l.DeviceID)] = l
	}

	out := make(map[int][]Partition)
	for _, link := range links {
		disk, partID, ok := ParsePartitionRef(link.Antecedent)
		if !ok {
			continue
		}
		volume, ok := ParseLogicalRef(link.Dependent)
		if !ok {
			continue
		}
		p := Partition{VolumeID: volume, PartitionID: partID}
		if l, found := byID[volume]; found {
			p.Description = l.Description
			p.Size = l.Size
		}
		out[disk] = append(out[disk], p)
	}
	for disk := range out {
		sort.Slice(out[disk], func(i, j int) bool { return out[disk][i].VolumeID < out[disk][j].VolumeID })
	}
	return out, nil
}

var (
	partitionRef = regexp.MustCompile(`DeviceID="(Disk #(\d+), Partition #\d+)"`)
	logicalRef   = regexp.MustCompile(`DeviceID="([A-Za-z]:)"`)
)

// ParsePartitionRef разбирает ссылку на Win32_DiskPartition
func ParsePartitionRef(ref string) (disk int, partitionID string, ok bool) {
	m := partitionRef.FindStringSubmatch(ref)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, "", false
	}
	return n, m[1], true
}

// ParseLogicalRef разбирает ссылку на Win32_LogicalDisk
func ParseLogicalRef(ref string) (string, bool) {
	m := logicalRef.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}
