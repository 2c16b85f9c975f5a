package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hdzero/internal/orchestrator"
	"hdzero/internal/orchestrator/mocks"
	"hdzero/internal/partition"
	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

const device = `\\.\PHYSICALDRIVE1`

type harness struct {
	inv    *mocks.MockInventory
	table  *mocks.MockPartitionTable
	wiper  *mocks.MockWiper
	rep    *mocks.MockReporter
	ctrl   *gomock.Controller
	driver *orchestrator.Driver
}

func newHarness(t *testing.T, settings orchestrator.Settings) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		ctrl:  ctrl,
		inv:   mocks.NewMockInventory(ctrl),
		table: mocks.NewMockPartitionTable(ctrl),
		wiper: mocks.NewMockWiper(ctrl),
		rep:   mocks.NewMockReporter(ctrl),
	}
	h.rep.EXPECT().Progress(gomock.Any()).AnyTimes()
	h.driver = h.build(h.rep, settings)
	return h
}

func (h *harness) build(rep orchestrator.Reporter, settings orchestrator.Settings) *orchestrator.Driver {
	return orchestrator.New(orchestrator.Deps{
		Inventory:      h.inv,
		PartitionTable: h.table,
		Wiper:          h.wiper,
		Reporter:       rep,
	}, settings)
}

func size(n uint64) *uint64 { return &n }

func testDrive() system.Drive {
	return system.Drive{
		Index:     1,
		DeviceID:  device,
		Label:     "USB Flash",
		Size:      size(128_000_000_000),
		MediaType: "Removable Media",
		Mounts:    []string{"E:"},
	}
}

func driveTarget() wipe.Target {
	d := testDrive()
	return wipe.NewDriveTarget(wipe.DriveTarget{DeviceID: d.DeviceID, Index: d.Index, Size: d.Size, Mounts: d.Mounts})
}

func (h *harness) expectDrive() {
	h.inv.EXPECT().GetDrive(gomock.Any(), 1).Return(testDrive(), nil)
	h.inv.EXPECT().GetPartitions(gomock.Any(), 1).Return([]system.Partition{
		{VolumeID: "E:", PartitionID: "Disk #1, Partition #0", DriveID: device, Description: "Installable File System", Size: size(127_999_000_000)},
	}, nil)
}

// output возвращает закрытый канал с готовыми строками
func output(lines ...string) <-chan string {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

func finishedProcess(ctrl *gomock.Controller, exit wipe.Exit, err error, lines ...string) *mocks.MockProcess {
	p := mocks.NewMockProcess(ctrl)
	p.EXPECT().Lines().Return(output(lines...))
	p.EXPECT().Wait().Return(exit, err)
	p.EXPECT().Terminate().Return(nil).AnyTimes()
	return p
}

func TestDriveWipeFullSequence(t *testing.T) {
	reports := t.TempDir()
	h := newHarness(t, orchestrator.Settings{ReportDir: reports})
	h.expectDrive()

	proc := finishedProcess(h.ctrl, wipe.Exit{Lines: 4}, nil,
		"Wiping "+device,
		"... 64000000000 of 128000000000",
		"... 128000000000 of 128000000000",
		"All done, 128000000000 bytes were wiped",
	)

	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(_ context.Context, c orchestrator.Confirmation, _ int) bool {
			assert.Equal(t, device, c.Drive.DeviceID)
			assert.Len(t, c.Partitions, 1)
			assert.Empty(t, c.Hazards)
			assert.Contains(t, c.Text(), "All data will be destroyed")
			return true
		})

	gomock.InOrder(
		h.table.EXPECT().Dismount(gomock.Any(), []string{"E:"}).Return([]string{}),
		h.table.EXPECT().ClearTable(gomock.Any(), device).Return(nil),
		h.wiper.EXPECT().Launch(gomock.Any(), device, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, opts wipe.Options) (wipe.Process, error) {
				assert.False(t, opts.Extra)
				assert.Equal(t, []string{device}, wipe.BuildArgs(device, opts))
				return proc, nil
			}),
		h.table.EXPECT().CreatePartition(gomock.Any(), partition.Request{
			DriveID:    device,
			Label:      "Volume",
			Table:      "gpt",
			Filesystem: "ntfs",
			Letter:     "E:",
		}).Return("E:", nil),
	)

	var finished orchestrator.Summary
	h.rep.EXPECT().Finished(gomock.Any()).Do(func(s orchestrator.Summary) { finished = s })

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "GPT", Filesystem: "NTFS", VolumeLabel: "Volume"},
	})
	require.NoError(t, err)

	assert.True(t, s.Success)
	assert.Equal(t, "E:", s.MountPoint)
	assert.Empty(t, s.Errors)
	require.Len(t, s.Invocations, 1)
	assert.Equal(t, wipe.StatusCompleted, s.Invocations[0].Status)
	assert.Equal(t, uint64(128_000_000_000), s.Invocations[0].Bytes)
	assert.Equal(t, s.RunID, finished.RunID)
	assert.NotEmpty(t, s.ReportFile)
	assert.FileExists(t, s.ReportFile)

	st := h.driver.Status()
	assert.Equal(t, orchestrator.StateIdle, st.State)
	assert.Equal(t, 1.0, st.Fraction)
	assert.False(t, h.driver.Busy())
}

func TestDriveWipeDeclined(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(false)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	assert.True(t, s.Declined)
	assert.False(t, s.Success)
	assert.Empty(t, s.Invocations)
}

func TestAskTwiceMoreNeedsThreeAnswers(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	gomock.InOrder(
		h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true),
		h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 2).Return(true),
		h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 3).Return(false),
	)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{AskTwiceMore: true},
	})
	require.NoError(t, err)
	assert.True(t, s.Declined)
}

func TestProtectedDriveRefused(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{Guard: security.Guard{EngineVolume: "E:", SystemVolume: "C:"}})
	h.expectDrive()
	h.rep.EXPECT().Warn(gomock.Any())
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	assert.False(t, s.Success)
	assert.Equal(t, []security.Hazard{security.HazardHostsEngine}, s.Hazards)
	assert.ErrorIs(t, s.Err, orchestrator.ErrProtectedDrive)
}

func TestDriveChangedSinceSelection(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	other := testDrive()
	other.DeviceID = `\\.\PHYSICALDRIVE2`
	h.inv.EXPECT().GetDrive(gomock.Any(), 1).Return(other, nil)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	assert.False(t, s.Success)
	assert.ErrorIs(t, s.Err, system.ErrDriveNotFound)
}

func TestLeftoverMountsAbortBeforeClear(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), []string{"E:"}).Return([]string{"E:"})
	h.rep.EXPECT().Warn(gomock.Any())
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	assert.True(t, s.Declined)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "E:")
}

func TestClearTableFailureSkipsWiper(t *testing.T) {
	reports := t.TempDir()
	h := newHarness(t, orchestrator.Settings{ReportDir: reports})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).Return([]string{})
	h.table.EXPECT().ClearTable(gomock.Any(), device).Return(errors.New("diskpart failed"))
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "gpt"},
	})
	require.NoError(t, err)
	assert.False(t, s.Success)
	require.Len(t, s.Errors, 1)
	assert.Contains(t, s.Errors[0], "diskpart failed")
	assert.FileExists(t, s.ReportFile)
}

func TestWiperFailureSkipsFinalizing(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).Return([]string{})
	h.table.EXPECT().ClearTable(gomock.Any(), device).Return(nil)
	fail := &wipe.ExitError{Code: 2, Stderr: "access denied"}
	proc := finishedProcess(h.ctrl, wipe.Exit{Code: 2, Stderr: "access denied", Lines: 1}, fail, "Wiping "+device)
	h.wiper.EXPECT().Launch(gomock.Any(), device, gomock.Any()).Return(proc, nil)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "gpt"},
	})
	require.NoError(t, err)
	assert.False(t, s.Success)
	assert.Equal(t, []string{device}, s.Failed)
	require.Len(t, s.Invocations, 1)
	assert.Equal(t, wipe.StatusFailed, s.Invocations[0].Status)
	assert.Equal(t, 2, s.Invocations[0].ExitCode)
	assert.Contains(t, s.Errors[0], "access denied")
}

func TestCheckModeSkipsTableOperations(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).Return([]string{})
	proc := finishedProcess(h.ctrl, wipe.Exit{Lines: 1}, nil, "All done, 128000000000 bytes were wiped")
	h.wiper.EXPECT().Launch(gomock.Any(), device, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, opts wipe.Options) (wipe.Process, error) {
			assert.True(t, opts.Check)
			assert.False(t, opts.Extra)
			assert.False(t, opts.Verify)
			return proc, nil
		})
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{Check: true, Extra: true, Verify: true, PartTable: "gpt"},
	})
	require.NoError(t, err)
	assert.True(t, s.Success)
	assert.Empty(t, s.MountPoint)
}

func TestPartitionFailureIsWarning(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).Return([]string{})
	h.table.EXPECT().ClearTable(gomock.Any(), device).Return(nil)
	proc := finishedProcess(h.ctrl, wipe.Exit{Lines: 1}, nil, "All done, 128000000000 bytes were wiped")
	h.wiper.EXPECT().Launch(gomock.Any(), device, gomock.Any()).Return(proc, nil)
	h.table.EXPECT().CreatePartition(gomock.Any(), gomock.Any()).Return("", partition.ErrMountTimeout)
	h.rep.EXPECT().Warn(gomock.Any())
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "mbr", Filesystem: "exfat"},
	})
	require.NoError(t, err)
	assert.True(t, s.Success)
	assert.Empty(t, s.MountPoint)
	require.Len(t, s.Warnings, 1)
}

func TestCancelDuringWipe(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).Return([]string{})
	h.table.EXPECT().ClearTable(gomock.Any(), device).Return(nil)

	lines := make(chan string, 1)
	var once sync.Once
	proc := mocks.NewMockProcess(h.ctrl)
	proc.EXPECT().Lines().Return((<-chan string)(lines))
	proc.EXPECT().Terminate().DoAndReturn(func() error {
		once.Do(func() { close(lines) })
		return nil
	}).MinTimes(1)
	proc.EXPECT().Wait().Return(wipe.Exit{Code: 1, Lines: 1}, wipe.ErrTerminated)

	launched := make(chan struct{})
	h.wiper.EXPECT().Launch(gomock.Any(), device, gomock.Any()).DoAndReturn(
		func(context.Context, string, wipe.Options) (wipe.Process, error) {
			lines <- "... 10 of 100"
			close(launched)
			return proc, nil
		})

	finished := make(chan orchestrator.Summary, 1)
	h.rep.EXPECT().Finished(gomock.Any()).Do(func(s orchestrator.Summary) { finished <- s })

	require.NoError(t, h.driver.Start(orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "gpt"},
	}))
	<-launched
	h.driver.Cancel()
	h.driver.Wait()

	select {
	case s := <-finished:
		assert.True(t, s.Cancelled)
		assert.False(t, s.Success)
		require.Len(t, s.Invocations, 1)
		assert.Equal(t, wipe.StatusCancelled, s.Invocations[0].Status)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	assert.False(t, h.driver.Busy())
}

func TestCancelWhileDismounting(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{ReportDir: t.TempDir()})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), []string{"E:"}).DoAndReturn(
		func(context.Context, []string) []string {
			h.driver.Cancel()
			return []string{}
		})
	var finished orchestrator.Summary
	h.rep.EXPECT().Finished(gomock.Any()).Do(func(s orchestrator.Summary) { finished = s })

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  driveTarget(),
		Options: wipe.Options{PartTable: "gpt", WriteLog: true},
	})
	require.NoError(t, err)
	assert.True(t, s.Cancelled)
	assert.False(t, s.Success)
	assert.Empty(t, s.Invocations)
	assert.Empty(t, s.ReportFile)
	assert.Empty(t, s.LogFile)
	assert.Equal(t, s.RunID, finished.RunID)
	assert.False(t, h.driver.Busy())
}

func TestCancelDoesNotCarryIntoNextRun(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.table.EXPECT().Dismount(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []string) []string {
			h.driver.Cancel()
			return []string{}
		})
	h.rep.EXPECT().Finished(gomock.Any()).Times(2)

	first, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	require.True(t, first.Cancelled)

	// отмена вне запуска ничего не делает
	h.driver.Cancel()

	h.expectDrive()
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, _ orchestrator.Confirmation, _ int) bool {
			assert.NoError(t, ctx.Err())
			return false
		})
	second, err := h.driver.Run(context.Background(), orchestrator.Request{Target: driveTarget()})
	require.NoError(t, err)
	assert.False(t, second.Cancelled)
	assert.True(t, second.Declined)
}

func TestLineTimeoutFailsInvocation(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{LineTimeout: 50 * time.Millisecond})
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)

	file := filepath.Join(t.TempDir(), "stuck.bin")
	lines := make(chan string)
	var once sync.Once
	proc := mocks.NewMockProcess(h.ctrl)
	proc.EXPECT().Lines().Return((<-chan string)(lines))
	proc.EXPECT().Terminate().DoAndReturn(func() error {
		once.Do(func() { close(lines) })
		return nil
	}).MinTimes(1)
	proc.EXPECT().Wait().Return(wipe.Exit{Code: 1}, wipe.ErrTerminated)
	h.wiper.EXPECT().Launch(gomock.Any(), file, gomock.Any()).Return(proc, nil)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: wipe.NewFileTarget(file)})
	require.NoError(t, err)
	assert.False(t, s.Cancelled)
	assert.False(t, s.Success)
	assert.Equal(t, []string{file}, s.Failed)
	assert.Contains(t, s.Errors[0], orchestrator.ErrLineTimeout.Error())
}

func TestFileBatchIsolatesFailures(t *testing.T) {
	var removed []string
	h := newHarness(t, orchestrator.Settings{
		Remove: func(p string) error { removed = append(removed, p); return nil },
	})
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "a.bin"),
		filepath.Join(dir, "b.bin"),
		filepath.Join(dir, "c.bin"),
	}
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(_ context.Context, c orchestrator.Confirmation, _ int) bool {
			assert.Nil(t, c.Drive)
			assert.Contains(t, c.Text(), "3 file(s)")
			return true
		})

	ok := func() wipe.Process {
		return finishedProcess(h.ctrl, wipe.Exit{Lines: 1}, nil, "All done, 4096 bytes were wiped")
	}
	gomock.InOrder(
		h.wiper.EXPECT().Launch(gomock.Any(), files[0], gomock.Any()).Return(ok(), nil),
		h.wiper.EXPECT().Launch(gomock.Any(), files[1], gomock.Any()).Return(
			finishedProcess(h.ctrl, wipe.Exit{Code: 5, Lines: 1}, &wipe.ExitError{Code: 5, Stderr: "locked"}, "Wiping b.bin"), nil),
		h.wiper.EXPECT().Launch(gomock.Any(), files[2], gomock.Any()).Return(ok(), nil),
	)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  wipe.NewFileTarget(files...),
		Options: wipe.Options{DeleteAfter: true},
	})
	require.NoError(t, err)

	assert.False(t, s.Success)
	assert.Equal(t, []string{files[1]}, s.Failed)
	assert.Equal(t, []string{files[0], files[2]}, removed)
	require.Len(t, s.Invocations, 3)
	assert.True(t, s.Invocations[0].Deleted)
	assert.False(t, s.Invocations[1].Deleted)
	assert.True(t, s.Invocations[2].Deleted)
	assert.ErrorContains(t, s.Err, "locked")
}

func TestDeleteFailureIsWarning(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{
		Remove: func(string) error { return os.ErrPermission },
	})
	file := filepath.Join(t.TempDir(), "a.bin")
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.wiper.EXPECT().Launch(gomock.Any(), file, gomock.Any()).Return(
		finishedProcess(h.ctrl, wipe.Exit{Lines: 1}, nil, "All done, 4096 bytes were wiped"), nil)
	h.rep.EXPECT().Warn(gomock.Any())
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  wipe.NewFileTarget(file),
		Options: wipe.Options{DeleteAfter: true},
	})
	require.NoError(t, err)
	assert.True(t, s.Success)
	require.Len(t, s.Warnings, 1)
	assert.False(t, s.Invocations[0].Deleted)
}

func TestBusyDriverRefusesSecondRun(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	file := filepath.Join(t.TempDir(), "a.bin")

	entered := make(chan struct{})
	release := make(chan struct{})
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).DoAndReturn(
		func(context.Context, orchestrator.Confirmation, int) bool {
			close(entered)
			<-release
			return false
		})
	h.rep.EXPECT().Finished(gomock.Any())

	req := orchestrator.Request{Target: wipe.NewFileTarget(file)}
	require.NoError(t, h.driver.Start(req))
	<-entered

	assert.ErrorIs(t, h.driver.Start(req), orchestrator.ErrBusy)
	_, err := h.driver.Run(context.Background(), req)
	assert.ErrorIs(t, err, orchestrator.ErrBusy)
	assert.Equal(t, orchestrator.StateConfirming, h.driver.Status().State)

	close(release)
	h.driver.Wait()
	assert.False(t, h.driver.Busy())
}

func TestSessionLogWrittenToLogDir(t *testing.T) {
	logs := t.TempDir()
	h := newHarness(t, orchestrator.Settings{LogHeader: "Lab 7 workstation", LogDir: logs})
	file := filepath.Join(t.TempDir(), "a.bin")
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.wiper.EXPECT().Launch(gomock.Any(), file, gomock.Any()).Return(
		finishedProcess(h.ctrl, wipe.Exit{Lines: 3}, nil,
			"Calculating size",
			"Warning: short write",
			"All done, 4096 bytes were wiped"), nil)
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{
		Target:  wipe.NewFileTarget(file),
		Options: wipe.Options{WriteLog: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, s.LogFile)
	assert.Equal(t, logs, filepath.Dir(s.LogFile))

	data, err := os.ReadFile(s.LogFile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Lab 7 workstation")
	assert.Contains(t, text, "Warning: short write")
	assert.Contains(t, text, "All done, 4096 bytes were wiped")
	assert.NotContains(t, text, "Calculating")
	assert.Equal(t, []string{"Warning: short write"}, s.Invocations[0].Warnings)
}

type choosingReporter struct {
	*mocks.MockReporter
	*mocks.MockLogDestinationChooser
}

func TestChooserDiscardsLog(t *testing.T) {
	logs := t.TempDir()
	h := newHarness(t, orchestrator.Settings{LogDir: logs})
	chooser := mocks.NewMockLogDestinationChooser(h.ctrl)
	driver := h.build(choosingReporter{h.rep, chooser}, orchestrator.Settings{LogDir: logs})

	file := filepath.Join(t.TempDir(), "a.bin")
	h.rep.EXPECT().Confirm(gomock.Any(), gomock.Any(), 1).Return(true)
	h.wiper.EXPECT().Launch(gomock.Any(), file, gomock.Any()).Return(
		finishedProcess(h.ctrl, wipe.Exit{Lines: 1}, nil, "All done, 4096 bytes were wiped"), nil)
	chooser.EXPECT().ChooseLogDestination(gomock.Any()).DoAndReturn(func(suggested string) string {
		assert.Equal(t, logs, filepath.Dir(suggested))
		return ""
	})
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := driver.Run(context.Background(), orchestrator.Request{
		Target:  wipe.NewFileTarget(file),
		Options: wipe.Options{WriteLog: true},
	})
	require.NoError(t, err)
	assert.Empty(t, s.LogFile)

	entries, err := os.ReadDir(logs)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmptyFileTarget(t *testing.T) {
	h := newHarness(t, orchestrator.Settings{})
	h.rep.EXPECT().Finished(gomock.Any())

	s, err := h.driver.Run(context.Background(), orchestrator.Request{Target: wipe.NewFileTarget()})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Err, orchestrator.ErrEmptyTarget)
}
