package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"

	"hdzero/internal/logging"
	"hdzero/internal/partition"
	"hdzero/internal/reporting"
	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

// Deps are the collaborators of the driver.
type Deps struct {
	Inventory      Inventory
	PartitionTable PartitionTable
	Wiper          Wiper
	Reporter       Reporter
	Logger         *logging.EnterpriseLogger
}

// Settings are fixed for the lifetime of the driver.
type Settings struct {
	LogHeader   string
	LogDir      string // empty: the log is discarded unless a chooser picks a file
	ReportDir   string // empty: no JSON report
	LineTimeout time.Duration
	Guard       security.Guard
	Remove      func(path string) error
}

// Driver runs one wipe at a time on its own goroutine.
type Driver struct {
	deps     Deps
	settings Settings

	busy      atomic.Bool
	cancelled atomic.Bool

	ctlMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	proc   wipe.Process

	statusMu sync.RWMutex
	status   Status

	tickLog *rate.Limiter
}

func New(deps Deps, settings Settings) *Driver {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if settings.Remove == nil {
		settings.Remove = os.Remove
	}
	return &Driver{
		deps:     deps,
		settings: settings,
		status:   Status{State: StateIdle},
		tickLog:  rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Start begins a run in the background. It returns ErrBusy while another
// run is active.
func (d *Driver) Start(req Request) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	ctx, done := d.begin(context.Background())
	go d.execute(ctx, req, done)
	return nil
}

// Run executes a run on the calling goroutine.
func (d *Driver) Run(ctx context.Context, req Request) (Summary, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return Summary{}, ErrBusy
	}
	ctx, done := d.begin(ctx)
	return d.execute(ctx, req, done), nil
}

// Cancel stops the active run. Calling it while idle does nothing.
func (d *Driver) Cancel() {
	d.ctlMu.Lock()
	if !d.busy.Load() {
		d.ctlMu.Unlock()
		return
	}
	d.cancelled.Store(true)
	cancel, proc := d.cancel, d.proc
	d.ctlMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if proc != nil {
		if err := proc.Terminate(); err != nil {
			d.deps.Logger.Log("WARN", "Не удалось остановить затиратель", "error", err.Error())
		}
	}
}

// Wait blocks until the current run, if any, has delivered its summary.
func (d *Driver) Wait() {
	d.ctlMu.Lock()
	done := d.done
	d.ctlMu.Unlock()
	if done != nil {
		<-done
	}
}

// Busy сообщает, идёт ли запуск
func (d *Driver) Busy() bool {
	return d.busy.Load()
}

// Status возвращает последний опубликованный статус
func (d *Driver) Status() Status {
	d.statusMu.RLock()
	defer d.statusMu.RUnlock()
	return d.status
}

func (d *Driver) begin(parent context.Context) (context.Context, chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	d.ctlMu.Lock()
	d.cancel = cancel
	d.done = done
	// Cancel мог прийти между захватом busy и этим местом
	if d.cancelled.Load() {
		cancel()
	}
	d.ctlMu.Unlock()
	return ctx, done
}

func (d *Driver) execute(ctx context.Context, req Request, done chan struct{}) Summary {
	defer close(done)

	s := d.run(ctx, req)
	s.EndTime = time.Now()

	d.ctlMu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = nil
	d.proc = nil
	d.ctlMu.Unlock()

	d.publish(func(st *Status) { *st = Status{RunID: s.RunID, State: StateIdle, Fraction: st.Fraction, Line: st.Line} })
	d.ctlMu.Lock()
	d.cancelled.Store(false)
	d.busy.Store(false)
	d.ctlMu.Unlock()

	d.deps.Logger.Log("INFO", "Запуск завершён",
		"run_id", s.RunID, "success", s.Success, "cancelled", s.Cancelled, "declined", s.Declined,
		"errors", len(s.Errors), "warnings", len(s.Warnings))
	d.deps.Reporter.Finished(s)
	return s
}

// run is the state machine body.
func (d *Driver) run(ctx context.Context, req Request) Summary {
	opts := req.Options.Normalize()
	s := Summary{
		RunID:     uuid.NewString(),
		Target:    req.Target,
		StartTime: time.Now(),
	}
	d.publish(func(st *Status) {
		*st = Status{RunID: s.RunID, State: StateConfirming, Target: req.Target.String()}
	})
	d.deps.Logger.Log("INFO", "Новый запуск", "run_id", s.RunID, "target", req.Target.String(), "kind", req.Target.Kind.String())

	// Confirming
	conf, err := d.confirmation(ctx, s.RunID, req.Target, opts)
	if err != nil {
		return d.fail(s, err)
	}
	if len(conf.Hazards) > 0 {
		s.Hazards = conf.Hazards
		names := make([]string, 0, len(conf.Hazards))
		for _, h := range conf.Hazards {
			names = append(names, h.Describe())
		}
		msg := "refusing to wipe: " + strings.Join(names, "; ")
		d.deps.Reporter.Warn(msg)
		return d.fail(s, errors.WithHint(errors.Wrap(ErrProtectedDrive, msg), "select a different drive"))
	}
	for round := 1; round <= conf.Rounds; round++ {
		if !d.deps.Reporter.Confirm(ctx, conf, round) {
			if d.isCancelled(ctx) {
				return d.cancelledSummary(s)
			}
			d.deps.Logger.Log("INFO", "Запуск отклонён пользователем", "run_id", s.RunID, "round", round)
			s.Declined = true
			return s
		}
	}
	if d.isCancelled(ctx) {
		return d.cancelledSummary(s)
	}

	log := reporting.NewSessionLog()
	log.Start(d.settings.LogHeader)
	log.TimestampMarker()
	appendLog := func(line string) {
		if opts.WriteLog {
			log.Append(line)
		}
	}
	appendLog(fmt.Sprintf("Target: %s", req.Target.String()))

	if req.Target.Kind == wipe.TargetDrive {
		if cancelled := d.runDrive(ctx, conf.Drive, opts, &s, appendLog); cancelled {
			return d.cancelledSummary(s)
		}
	} else {
		if cancelled := d.runFiles(ctx, req.Target.Files, opts, &s, appendLog); cancelled {
			return d.cancelledSummary(s)
		}
	}
	if s.Declined {
		// leftover mounts: nothing was touched
		return s
	}

	// Reporting
	d.setState(StateReporting)
	s.Success = len(s.Errors) == 0
	log.TimestampMarker()
	if opts.WriteLog {
		d.flushLog(log, &s)
	}
	d.saveReport(req.Target, opts, &s)
	return s
}

func (d *Driver) confirmation(ctx context.Context, runID string, target wipe.Target, opts wipe.Options) (Confirmation, error) {
	conf := Confirmation{RunID: runID, Target: target, Options: opts, Rounds: 1}
	if opts.AskTwiceMore {
		conf.Rounds = 3
	}

	switch target.Kind {
	case wipe.TargetDrive:
		if target.Drive == nil {
			return conf, ErrEmptyTarget
		}
		drive, err := d.deps.Inventory.GetDrive(ctx, target.Drive.Index)
		if err != nil {
			return conf, errors.Wrapf(err, "drive %d", target.Drive.Index)
		}
		if !strings.EqualFold(drive.DeviceID, target.Drive.DeviceID) {
			return conf, errors.Wrapf(system.ErrDriveNotFound, "drive %d is now %s, refresh the list", target.Drive.Index, drive.DeviceID)
		}
		parts, err := d.deps.Inventory.GetPartitions(ctx, target.Drive.Index)
		if err != nil {
			return conf, errors.Wrapf(err, "partitions of drive %d", target.Drive.Index)
		}
		conf.Drive = &drive
		conf.Partitions = parts
		conf.Hazards = d.settings.Guard.DriveHazards(drive.Mounts)

	case wipe.TargetFiles:
		if len(target.Files) == 0 {
			return conf, ErrEmptyTarget
		}
		seen := map[security.Hazard]bool{}
		for _, f := range target.Files {
			for _, h := range d.settings.Guard.FileHazards(f) {
				if !seen[h] {
					seen[h] = true
					conf.Hazards = append(conf.Hazards, h)
				}
			}
		}
	}
	return conf, nil
}

// runDrive prepares, wipes and finalizes a drive. It reports whether the
// run was cancelled.
func (d *Driver) runDrive(ctx context.Context, drive *system.Drive, opts wipe.Options, s *Summary, appendLog func(string)) bool {
	// Preparing
	d.setState(StatePreparing)
	d.publishLine("Dismounting " + strings.Join(drive.Mounts, ", "))
	left := d.deps.PartitionTable.Dismount(ctx, drive.Mounts)
	if d.isCancelled(ctx) {
		return true
	}
	if len(left) > 0 {
		msg := errors.Wrapf(ErrStillMounted, "%s", strings.Join(left, ", ")).Error()
		s.Warnings = append(s.Warnings, msg)
		d.deps.Reporter.Warn(msg)
		s.Declined = true
		return false
	}
	appendLog("Dismounted " + strings.Join(drive.Mounts, ", "))

	if !opts.Check {
		d.publishLine("Clearing partition table")
		if err := d.deps.PartitionTable.ClearTable(ctx, drive.DeviceID); err != nil {
			if d.isCancelled(ctx) {
				return true
			}
			d.addError(s, errors.Wrap(err, "clear partition table"))
			appendLog("Error: " + err.Error())
			return false
		}
		appendLog("Partition table cleared")
	}
	if d.isCancelled(ctx) {
		return true
	}

	// Wiping
	d.setState(StateWiping)
	inv, err := d.invoke(ctx, drive.DeviceID, 1, 1, opts, appendLog)
	s.Invocations = append(s.Invocations, inv)
	if errors.Is(err, ErrCancelled) {
		return true
	}
	if err != nil {
		s.Failed = append(s.Failed, drive.DeviceID)
		d.addError(s, err)
		return false
	}

	// Finalizing
	if opts.PartTable == wipe.PartTableNone || opts.Check {
		return false
	}
	d.setState(StateFinalizing)
	d.publishLine("Creating partition")
	preferred := ""
	if len(drive.Mounts) > 0 {
		preferred = drive.Mounts[0]
	}
	mp, err := d.deps.PartitionTable.CreatePartition(ctx, partition.Request{
		DriveID:    drive.DeviceID,
		Label:      opts.VolumeLabel,
		Table:      opts.PartTable,
		Filesystem: opts.Filesystem,
		Letter:     preferred,
	})
	if d.isCancelled(ctx) {
		return true
	}
	if err != nil {
		msg := "could not create partition: " + err.Error()
		s.Warnings = append(s.Warnings, msg)
		d.deps.Reporter.Warn(msg)
		appendLog("Warning: " + msg)
		return false
	}
	s.MountPoint = mp
	appendLog("New partition mounted as " + mp)
	d.publishLine("New volume " + mp)
	return false
}

// runFiles wipes files one after another. A failed file does not stop the
// batch.
func (d *Driver) runFiles(ctx context.Context, files []string, opts wipe.Options, s *Summary, appendLog func(string)) bool {
	d.setState(StateWiping)

	var merr *multierror.Error
	for i, file := range files {
		if d.isCancelled(ctx) {
			return true
		}
		inv, err := d.invoke(ctx, file, i+1, len(files), opts, appendLog)
		if errors.Is(err, ErrCancelled) {
			s.Invocations = append(s.Invocations, inv)
			return true
		}
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "%s", file))
			s.Failed = append(s.Failed, file)
			s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", file, err.Error()))
			s.Invocations = append(s.Invocations, inv)
			continue
		}

		if opts.DeleteAfter && !opts.Check && inv.ExitCode == 0 {
			if err := d.settings.Remove(file); err != nil {
				msg := fmt.Sprintf("could not delete %s: %s", file, err.Error())
				s.Warnings = append(s.Warnings, msg)
				inv.Warnings = append(inv.Warnings, msg)
				d.deps.Reporter.Warn(msg)
				appendLog("Warning: " + msg)
			} else {
				inv.Deleted = true
				appendLog("Deleted " + file)
			}
		}
		s.Invocations = append(s.Invocations, inv)
	}
	if err := merr.ErrorOrNil(); err != nil {
		s.Err = err
	}
	return false
}

// invoke runs the wiper once and streams its output.
func (d *Driver) invoke(ctx context.Context, path string, item, items int, opts wipe.Options, appendLog func(string)) (wipe.Invocation, error) {
	inv := wipe.Invocation{Target: path, Status: wipe.StatusRunning, StartTime: time.Now()}
	d.publish(func(st *Status) {
		st.Target, st.Item, st.Items, st.Fraction, st.Line = path, item, items, 0, "Wiping "+path
	})
	appendLog("Wiping " + path)

	proc, err := d.deps.Wiper.Launch(ctx, path, opts)
	if err != nil {
		inv.Finish(wipe.StatusFailed, err)
		return inv, errors.Wrapf(err, "launch wiper for %s", path)
	}

	d.ctlMu.Lock()
	d.proc = proc
	d.ctlMu.Unlock()
	defer func() {
		d.ctlMu.Lock()
		d.proc = nil
		d.ctlMu.Unlock()
	}()
	if d.cancelled.Load() {
		_ = proc.Terminate()
	}

	var timeout <-chan time.Time
	var timer *time.Timer
	if d.settings.LineTimeout > 0 {
		timer = time.NewTimer(d.settings.LineTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	tracker := wipe.NewTracker(opts)
	lines := proc.Lines()
	timedOut := false

read:
	for {
		select {
		case <-ctx.Done():
			_ = proc.Terminate()
			break read

		case <-timeout:
			timedOut = true
			_ = proc.Terminate()
			break read

		case line, ok := <-lines:
			if !ok {
				break read
			}
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d.settings.LineTimeout)
			}

			u := tracker.Apply(wipe.Parse(line))
			switch u.Event.Kind {
			case wipe.EventSummary:
				inv.Bytes = u.Event.Bytes
			case wipe.EventWarning:
				inv.Warnings = append(inv.Warnings, u.Text)
			case wipe.EventTick:
				if d.tickLog.Allow() {
					d.deps.Logger.Log("DEBUG", "Прогресс", "target", path, "fraction", u.Fraction)
				}
			}
			if u.Text != "" {
				appendLog(u.Text)
			}
			d.publish(func(st *Status) {
				st.Fraction = u.Fraction
				if u.Text != "" {
					st.Line = u.Text
				}
			})
		}
	}

	exit, werr := proc.Wait()
	inv.ExitCode = exit.Code

	if d.isCancelled(ctx) {
		inv.Finish(wipe.StatusCancelled, nil)
		appendLog("Cancelled")
		return inv, ErrCancelled
	}
	if timedOut {
		err := errors.Wrapf(ErrLineTimeout, "no output for %s", d.settings.LineTimeout)
		inv.Finish(wipe.StatusFailed, err)
		appendLog("Error: " + err.Error())
		return inv, err
	}
	if werr != nil {
		inv.Finish(wipe.StatusFailed, werr)
		for _, l := range strings.Split(strings.TrimSpace(exit.Stderr), "\n") {
			if l = strings.TrimSpace(l); l != "" {
				appendLog(l)
			}
		}
		d.deps.Logger.Log("ERROR", "Затиратель завершился с ошибкой", "target", path, "code", exit.Code, "error", werr.Error())
		return inv, werr
	}

	inv.Finish(wipe.StatusCompleted, nil)
	d.publish(func(st *Status) { st.Fraction = 1 })
	return inv, nil
}

func (d *Driver) flushLog(log *reporting.SessionLog, s *Summary) {
	dest := ""
	if d.settings.LogDir != "" {
		dest = filepath.Join(d.settings.LogDir, reporting.LogFileName(s.StartTime))
	}
	if chooser, ok := d.deps.Reporter.(LogDestinationChooser); ok {
		dest = chooser.ChooseLogDestination(dest)
	}
	if err := log.Flush(dest); err != nil {
		// best effort
		d.deps.Logger.Log("WARN", "Не удалось сохранить журнал", "path", dest, "error", err.Error())
		return
	}
	s.LogFile = dest
}

func (d *Driver) saveReport(target wipe.Target, opts wipe.Options, s *Summary) {
	if d.settings.ReportDir == "" {
		return
	}
	report := reporting.GenerateReport(s.RunID, target, opts, s.Invocations, s.StartTime, time.Now())
	report.MountPoint = s.MountPoint
	report.Warnings = s.Warnings
	report.Errors = s.Errors
	path, err := reporting.SaveReport(report, d.settings.ReportDir)
	if err != nil {
		d.deps.Logger.Log("WARN", "Не удалось сохранить отчёт", "error", err.Error())
		return
	}
	s.ReportFile = path
}

func (d *Driver) fail(s Summary, err error) Summary {
	d.addError(&s, err)
	d.deps.Logger.Log("ERROR", "Запуск прерван", "run_id", s.RunID, "error", err.Error())
	return s
}

func (d *Driver) addError(s *Summary, err error) {
	s.Errors = append(s.Errors, err.Error())
	s.Err = multierror.Append(s.Err, err).ErrorOrNil()
}

func (d *Driver) cancelledSummary(s Summary) Summary {
	s.Cancelled = true
	s.Success = false
	d.deps.Logger.Log("INFO", "Запуск отменён", "run_id", s.RunID)
	return s
}

func (d *Driver) isCancelled(ctx context.Context) bool {
	return d.cancelled.Load() || ctx.Err() != nil
}

func (d *Driver) setState(state State) {
	d.publish(func(st *Status) { st.State = state })
}

func (d *Driver) publishLine(line string) {
	d.publish(func(st *Status) { st.Line = line })
}

func (d *Driver) publish(update func(*Status)) {
	d.statusMu.Lock()
	update(&d.status)
	snapshot := d.status
	d.statusMu.Unlock()
	d.deps.Reporter.Progress(snapshot)
}
