package orchestrator

import (
	"context"

	"hdzero/internal/partition"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_orchestrator.go -package=mocks
//go:generate mockgen -destination=mocks/mock_process.go -package=mocks hdzero/internal/wipe Process

// Inventory resolves the drive selected by the user.
type Inventory interface {
	GetDrive(ctx context.Context, index int) (system.Drive, error)
	GetPartitions(ctx context.Context, index int) ([]system.Partition, error)
}

// PartitionTable prepares and restores drives around a wipe.
type PartitionTable interface {
	Dismount(ctx context.Context, volumes []string) []string
	ClearTable(ctx context.Context, driveID string) error
	CreatePartition(ctx context.Context, req partition.Request) (string, error)
}

// Wiper launches the external wiping executable.
type Wiper interface {
	Launch(ctx context.Context, target string, opts wipe.Options) (wipe.Process, error)
}

// Reporter is the UI side of a run. Progress and Warn are called from the
// worker goroutine.
type Reporter interface {
	Confirm(ctx context.Context, c Confirmation, round int) bool
	Progress(s Status)
	Warn(msg string)
	Finished(s Summary)
}

// LogDestinationChooser may be implemented by a Reporter to pick the log
// file. Returning "" discards the log.
type LogDestinationChooser interface {
	ChooseLogDestination(suggested string) string
}
