package wipe

import (
	"strings"
	"time"
)

// Статусы вызова затирателя
const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusFailed    = "FAILED"
)

// Типы таблицы разделов
const (
	PartTableNone = "none"
	PartTableGPT  = "gpt"
	PartTableMBR  = "mbr"
)

type TargetKind int

const (
	TargetDrive TargetKind = iota
	TargetFiles
)

func (k TargetKind) String() string {
	if k == TargetFiles {
		return "files"
	}
	return "drive"
}

// DriveTarget описывает физический диск для затирания
type DriveTarget struct {
	DeviceID string
	Index    int
	Size     *uint64
	Mounts   []string
}

// Target is either a drive or an ordered list of files. It does not change
// for the lifetime of a run.
type Target struct {
	Kind  TargetKind
	Drive *DriveTarget
	Files []string
}

func NewDriveTarget(d DriveTarget) Target {
	d.Mounts = append([]string(nil), d.Mounts...)
	return Target{Kind: TargetDrive, Drive: &d}
}

func NewFileTarget(files ...string) Target {
	return Target{Kind: TargetFiles, Files: append([]string(nil), files...)}
}

// Paths возвращает пути, передаваемые затирателю по одному за вызов
func (t Target) Paths() []string {
	if t.Kind == TargetDrive {
		if t.Drive == nil {
			return nil
		}
		return []string{t.Drive.DeviceID}
	}
	return t.Files
}

func (t Target) String() string {
	return strings.Join(t.Paths(), ", ")
}

// Options is the per-run snapshot of wipe settings.
type Options struct {
	Extra        bool
	FillFF       bool
	Verify       bool
	Check        bool
	BlockSize    int // 0 = auto
	Filesystem   string
	PartTable    string
	VolumeLabel  string
	WriteLog     bool
	AskTwiceMore bool
	DeleteAfter  bool
	Dummy        bool
}

// Normalize снимает extra и verify в режиме проверки
func (o Options) Normalize() Options {
	if o.Check {
		o.Extra = false
		o.Verify = false
	}
	o.PartTable = strings.ToLower(o.PartTable)
	if o.PartTable == "" {
		o.PartTable = PartTableNone
	}
	o.Filesystem = strings.ToLower(o.Filesystem)
	return o
}

// Invocation - результат одного запуска затирателя
type Invocation struct {
	Target    string
	Status    string // COMPLETED, CANCELLED, FAILED
	StartTime time.Time
	EndTime   *time.Time
	Bytes     uint64
	ExitCode  int
	Deleted   bool
	Error     string
	Warnings  []string
}

// Finish проставляет статус и время окончания
func (inv *Invocation) Finish(status string, err error) {
	now := time.Now()
	inv.EndTime = &now
	inv.Status = status
	if err != nil {
		inv.Error = err.Error()
	}
}
