package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

// State - фаза конечного автомата запуска
type State string

const (
	StateIdle       State = "IDLE"
	StateConfirming State = "CONFIRMING"
	StatePreparing  State = "PREPARING"
	StateWiping     State = "WIPING"
	StateFinalizing State = "FINALIZING"
	StateReporting  State = "REPORTING"
)

var (
	ErrBusy           = errors.New("a wipe is already running")
	ErrProtectedDrive = errors.New("target hosts the running program or the system volume")
	ErrCancelled      = errors.New("run cancelled")
	ErrStillMounted   = errors.New("volumes are still mounted")
	ErrLineTimeout    = errors.New("wiper stopped producing output")
	ErrEmptyTarget    = errors.New("nothing to wipe")
)

// Request is a confirmed target plus the options captured at run start.
type Request struct {
	Target  wipe.Target
	Options wipe.Options
}

// Confirmation is shown to the user before anything destructive happens.
type Confirmation struct {
	RunID      string
	Target     wipe.Target
	Drive      *system.Drive
	Partitions []system.Partition
	Hazards    []security.Hazard
	Options    wipe.Options
	Rounds     int
}

// Text формирует вопрос для пользователя
func (c Confirmation) Text() string {
	var b strings.Builder
	if c.Drive != nil {
		fmt.Fprintf(&b, "%s\n%s, %s\n%s\n", c.Drive.DeviceID, c.Drive.Label, c.Drive.MediaType, system.ReadableSize(c.Drive.Size))
		if len(c.Partitions) > 0 {
			b.WriteString("\nPartitions:\n")
			for _, p := range c.Partitions {
				fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s\n", p.VolumeID, p.PartitionID, p.Description, system.ReadableSize(p.Size))
			}
		}
	} else {
		fmt.Fprintf(&b, "%d file(s):\n", len(c.Target.Files))
		for _, f := range c.Target.Files {
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	for _, h := range c.Hazards {
		fmt.Fprintf(&b, "\nDANGER: %s\n", h.Describe())
	}
	if c.Options.Check {
		b.WriteString("\nCheck only, nothing will be written.\n")
	} else {
		b.WriteString("\nAll data will be destroyed. Are you sure?\n")
	}
	return b.String()
}

// Status is the published progress snapshot.
type Status struct {
	RunID    string
	State    State
	Target   string
	Item     int // 1-based index of the current file or drive
	Items    int
	Fraction float64
	Line     string
}

// Summary is the terminal result of a run.
type Summary struct {
	RunID       string
	Target      wipe.Target
	Success     bool
	Declined    bool
	Cancelled   bool
	Hazards     []security.Hazard
	MountPoint  string
	Warnings    []string
	Errors      []string
	Failed      []string // targets whose wipe failed
	Invocations []wipe.Invocation
	LogFile     string
	ReportFile  string
	Err         error
	StartTime   time.Time
	EndTime     time.Time
}

// Text возвращает итог для пользователя
func (s Summary) Text() string {
	var b strings.Builder
	switch {
	case s.Declined:
		b.WriteString("Aborted, nothing was changed.\n")
	case s.Cancelled:
		b.WriteString("Cancelled.\n")
	case s.Success:
		b.WriteString("Done.\n")
		if s.MountPoint != "" {
			fmt.Fprintf(&b, "New volume: %s\n", s.MountPoint)
		}
	default:
		b.WriteString("Finished with errors.\n")
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "Error: %s\n", e)
	}
	if s.LogFile != "" {
		fmt.Fprintf(&b, "Log: %s\n", s.LogFile)
	}
	return b.String()
}
