package wipe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"hdzero/internal/logging"
)

var (
	// ErrWiperFailed - затиратель завершился с ненулевым кодом
	ErrWiperFailed = errors.New("wiper exited with non-zero code")
	// ErrNoOutput - затиратель ничего не вывел в stdout
	ErrNoOutput = errors.New("wiper produced no output")
	// ErrTerminated - процесс был остановлен через Terminate
	ErrTerminated = errors.New("wiper terminated")
)

// ExitError carries the exit code and captured stderr of a failed wiper.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("wiper exited with code %d", e.Code)
	}
	return fmt.Sprintf("wiper exited with code %d: %s", e.Code, msg)
}

func (e *ExitError) Is(target error) bool {
	return target == ErrWiperFailed
}

// Exit is the outcome of a finished wiper process.
type Exit struct {
	Code   int
	Stderr string
	Lines  int
}

// Process is a running wiper.
type Process interface {
	// Lines is closed when stdout reaches EOF.
	Lines() <-chan string
	Terminate() error
	Wait() (Exit, error)
}

// Supervisor запускает внешний затиратель
type Supervisor struct {
	Path   string
	Env    []string
	Logger *logging.EnterpriseLogger
}

func NewSupervisor(path string, logger *logging.EnterpriseLogger) *Supervisor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Supervisor{Path: path, Logger: logger}
}

// Launch starts the wiper for one target path.
func (s *Supervisor) Launch(ctx context.Context, target string, opts Options) (Process, error) {
	opts = opts.Normalize()
	args := BuildArgs(target, opts)

	cmd := exec.CommandContext(ctx, s.Path, args...)
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stderr pipe")
	}

	s.Logger.Log("INFO", "Запуск затирателя", "path", s.Path, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "start wiper %s", s.Path),
			"check wiper.path in the configuration",
		)
	}

	p := &process{
		cmd:   cmd,
		lines: make(chan string, 64),
		stop:  make(chan struct{}),
		dummy: opts.Dummy,
	}

	p.group.Go(func() error {
		defer close(p.lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			p.mu.Lock()
			p.count++
			p.mu.Unlock()
			select {
			case p.lines <- scanner.Text():
			case <-p.stop:
				// Читатель ушёл, дочитываем pipe до EOF
				_, _ = io.Copy(io.Discard, stdout)
				return nil
			}
		}
		return scanner.Err()
	})
	p.group.Go(func() error {
		_, err := io.Copy(&p.stderr, stderr)
		return err
	})

	return p, nil
}

type process struct {
	cmd   *exec.Cmd
	group errgroup.Group
	lines chan string
	stop  chan struct{}
	dummy bool

	stopOnce sync.Once

	mu         sync.Mutex
	count      int
	terminated bool
	stderr     bytes.Buffer
}

func (p *process) Lines() <-chan string {
	return p.lines
}

// Terminate останавливает процесс. Повторный вызов безопасен.
func (p *process) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	p.mu.Unlock()
	p.stopOnce.Do(func() { close(p.stop) })

	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "kill wiper")
	}
	return nil
}

// Wait waits for the process and its pipes. Lines not yet read are dropped.
func (p *process) Wait() (Exit, error) {
	p.stopOnce.Do(func() { close(p.stop) })

	readErr := p.group.Wait()
	waitErr := p.cmd.Wait()

	p.mu.Lock()
	exit := Exit{
		Code:   p.cmd.ProcessState.ExitCode(),
		Stderr: p.stderr.String(),
		Lines:  p.count,
	}
	terminated := p.terminated
	p.mu.Unlock()

	if terminated {
		return exit, ErrTerminated
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return exit, errors.Wrap(waitErr, "wait wiper")
	}
	if exit.Code != 0 && !p.dummy {
		return exit, &ExitError{Code: exit.Code, Stderr: exit.Stderr}
	}
	if exit.Lines == 0 {
		return exit, ErrNoOutput
	}
	if readErr != nil {
		return exit, errors.Wrap(readErr, "read wiper output")
	}
	return exit, nil
}
