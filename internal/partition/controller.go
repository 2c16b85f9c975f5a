package partition

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"hdzero/internal/logging"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

var (
	ErrNoTable      = errors.New("partition table kind is none")
	ErrBadTable     = errors.New("unknown partition table kind")
	ErrBadDevice    = errors.New("not a physical drive id")
	ErrNoFreeLetter = errors.New("no free drive letter between D: and Z:")
	ErrMountTimeout = errors.New("new volume did not appear")
)

// Mounts отдаёт текущее состояние монтирования
type Mounts interface {
	Mounted(ctx context.Context) ([]string, error)
	UsedLetters(ctx context.Context) ([]string, error)
}

// Timing задаёт число повторов и паузы между проверками
type Timing struct {
	DismountRetries int
	DismountDelay   time.Duration
	MountRetries    int
	MountDelay      time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		DismountRetries: 10,
		DismountDelay:   time.Second,
		MountRetries:    30,
		MountDelay:      time.Second,
	}
}

// withDefaults заполняет незаданные поля значениями DefaultTiming
func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.DismountRetries <= 0 {
		t.DismountRetries = def.DismountRetries
	}
	if t.DismountDelay <= 0 {
		t.DismountDelay = def.DismountDelay
	}
	if t.MountRetries <= 0 {
		t.MountRetries = def.MountRetries
	}
	if t.MountDelay <= 0 {
		t.MountDelay = def.MountDelay
	}
	return t
}

// Request describes the partition to create after a wipe.
type Request struct {
	DriveID    string
	Label      string
	Table      string // gpt or mbr
	Filesystem string
	Letter     string // preferred, may be empty
}

// Controller dismounts volumes and rewrites partition tables with diskpart.
type Controller struct {
	Runner    Runner
	Mounts    Mounts
	Reachable func(volume string) bool
	Timing    Timing
	TempDir   string
	Logger    *logging.EnterpriseLogger
}

func NewController(runner Runner, mounts Mounts, timing Timing, logger *logging.EnterpriseLogger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		Runner:    runner,
		Mounts:    mounts,
		Reachable: system.VolumeReachable,
		Timing:    timing.withDefaults(),
		Logger:    logger,
	}
}

// Dismount requests a dismount of every volume and waits for them to
// disappear. It returns the volumes that are still mounted.
func (c *Controller) Dismount(ctx context.Context, volumes []string) []string {
	remaining := make([]string, 0, len(volumes))
	if len(volumes) == 0 {
		return remaining
	}

	for _, v := range volumes {
		vol := system.NormalizeVolume(v)
		// Код возврата не важен, результат проверяется опросом
		if _, err := c.Runner.Run(ctx, "mountvol", vol+`\`, "/p"); err != nil {
			c.Logger.Log("WARN", "mountvol вернул ошибку", "volume", vol, "error", err.Error())
		}
	}

	remaining = normalizeAll(volumes)
	for attempt := 0; attempt < max(1, c.Timing.DismountRetries); attempt++ {
		mounted, err := c.Mounts.Mounted(ctx)
		if err != nil {
			c.Logger.Log("WARN", "Не удалось получить список томов", "error", err.Error())
		} else {
			remaining = intersect(remaining, mounted)
			if len(remaining) == 0 {
				return remaining
			}
		}
		if !sleep(ctx, c.Timing.DismountDelay) {
			break
		}
	}

	c.Logger.Log("WARN", "Тома остались смонтированными", "volumes", remaining)
	return remaining
}

// ClearTable destroys the partition table of the drive.
func (c *Controller) ClearTable(ctx context.Context, driveID string) error {
	disk, err := ParseDiskNumber(driveID)
	if err != nil {
		return err
	}
	c.Logger.Log("INFO", "Очистка таблицы разделов", "drive", driveID)
	return c.runScript(ctx, []string{
		fmt.Sprintf("select disk %d", disk),
		"clean",
	})
}

// CreatePartition creates one primary partition spanning the drive and
// returns the assigned volume, e.g. "E:", once it is reachable.
func (c *Controller) CreatePartition(ctx context.Context, req Request) (string, error) {
	table := strings.ToLower(req.Table)
	switch table {
	case wipe.PartTableGPT, wipe.PartTableMBR:
	case wipe.PartTableNone, "":
		return "", ErrNoTable
	default:
		return "", errors.Wrapf(ErrBadTable, "%q", req.Table)
	}

	disk, err := ParseDiskNumber(req.DriveID)
	if err != nil {
		return "", err
	}

	letter, err := c.pickLetter(ctx, req.Letter)
	if err != nil {
		return "", err
	}

	fs := strings.ToLower(req.Filesystem)
	if fs == "" {
		fs = "ntfs"
	}

	c.Logger.Log("INFO", "Создание раздела", "drive", req.DriveID, "table", table, "fs", fs, "letter", letter)
	script := []string{
		fmt.Sprintf("select disk %d", disk),
		"clean",
		"convert " + table,
		"create partition primary",
		fmt.Sprintf(`format quick fs=%s label="%s"`, fs, sanitizeLabel(req.Label)),
		"assign letter=" + strings.TrimSuffix(letter, ":"),
	}
	if err := c.runScript(ctx, script); err != nil {
		return "", err
	}

	for attempt := 0; attempt < max(1, c.Timing.MountRetries); attempt++ {
		if c.isMounted(ctx, letter) && c.Reachable(letter) {
			return letter, nil
		}
		if !sleep(ctx, c.Timing.MountDelay) {
			return "", ctx.Err()
		}
	}
	return "", errors.Wrapf(ErrMountTimeout, "%s", letter)
}

func (c *Controller) pickLetter(ctx context.Context, preferred string) (string, error) {
	used, err := c.Mounts.UsedLetters(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list used drive letters")
	}
	taken := make(map[string]bool, len(used))
	for _, u := range used {
		taken[system.NormalizeVolume(u)] = true
	}

	if preferred != "" {
		p := system.NormalizeVolume(preferred)
		if len(p) == 2 && p[0] >= 'D' && p[0] <= 'Z' && !taken[p] {
			return p, nil
		}
		c.Logger.Log("WARN", "Предпочтительная буква недоступна", "letter", preferred)
	}

	for l := 'D'; l <= 'Z'; l++ {
		v := string(l) + ":"
		if !taken[v] {
			return v, nil
		}
	}
	return "", ErrNoFreeLetter
}

func (c *Controller) isMounted(ctx context.Context, volume string) bool {
	mounted, err := c.Mounts.Mounted(ctx)
	if err != nil {
		return false
	}
	for _, m := range mounted {
		if m == volume {
			return true
		}
	}
	return false
}

// runScript пишет сценарий diskpart во временный файл и всегда удаляет его
func (c *Controller) runScript(ctx context.Context, lines []string) error {
	f, err := os.CreateTemp(c.TempDir, "hdzero-diskpart-*.txt")
	if err != nil {
		return errors.Wrap(err, "create diskpart script")
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			c.Logger.Log("WARN", "Не удалось удалить временный сценарий", "path", path, "error", err.Error())
		}
	}()

	_, werr := f.WriteString(strings.Join(lines, "\r\n") + "\r\n")
	cerr := f.Close()
	if werr != nil {
		return errors.Wrap(werr, "write diskpart script")
	}
	if cerr != nil {
		return errors.Wrap(cerr, "close diskpart script")
	}

	out, err := c.Runner.Run(ctx, "diskpart", "/s", path)
	if err != nil {
		return errors.WithDetail(errors.Wrap(err, "diskpart script failed"), strings.TrimSpace(out))
	}
	return nil
}

var physicalDrive = regexp.MustCompile(`(?i)^\\\\\.\\PHYSICALDRIVE(\d+)$`)

// ParseDiskNumber maps \\.\PHYSICALDRIVEn to n.
func ParseDiskNumber(deviceID string) (int, error) {
	m := physicalDrive.FindStringSubmatch(strings.TrimSpace(deviceID))
	if m == nil {
		return 0, errors.Wrapf(ErrBadDevice, "%q", deviceID)
	}
	return strconv.Atoi(m[1])
}

func sanitizeLabel(label string) string {
	label = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(label)
	return strings.TrimSpace(label)
}

func normalizeAll(volumes []string) []string {
	out := make([]string, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, system.NormalizeVolume(v))
	}
	return out
}

func intersect(want, have []string) []string {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[system.NormalizeVolume(h)] = true
	}
	out := make([]string, 0, len(want))
	for _, w := range want {
		if set[w] {
			out = append(out, w)
		}
	}
	return out
}

// sleep returns false if the context ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
