package wipe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeWiperEnv = "HDZERO_FAKE_WIPER"

// The test binary doubles as the wiper when fakeWiperEnv is set.
func TestMain(m *testing.M) {
	if scenario := os.Getenv(fakeWiperEnv); scenario != "" {
		os.Exit(fakeWiper(scenario, os.Args[1:]))
	}
	os.Exit(m.Run())
}

func fakeWiper(scenario string, args []string) int {
	switch scenario {
	case "ok":
		fmt.Println("Pass 1 of 1, writing 0x00")
		fmt.Println("Calculating best block size")
		fmt.Println("Using block size of 4096 bytes")
		for i := 1; i <= 4; i++ {
			fmt.Printf("... %d of 4096 bytes\n", i*1024)
		}
		fmt.Printf("Verifying %s\n", args[0])
		fmt.Println("All done, 4096 bytes were wiped")
		return 0
	case "args":
		fmt.Println(strings.Join(args, " "))
		return 0
	case "fail":
		fmt.Println("Pass 1 of 1, writing 0x00")
		fmt.Fprintf(os.Stderr, "Error: could not open %s to write\n", args[0])
		return 1
	case "silent":
		return 0
	case "hang":
		fmt.Println("Pass 1 of 1, writing 0x00")
		time.Sleep(30 * time.Second)
		return 0
	}
	return 2
}

func fakeSupervisor(t *testing.T, scenario string) *Supervisor {
	t.Helper()
	s := NewSupervisor(os.Args[0], nil)
	s.Env = []string{fakeWiperEnv + "=" + scenario}
	return s
}

func collect(p Process) []string {
	var lines []string
	for line := range p.Lines() {
		lines = append(lines, line)
	}
	return lines
}

func TestSupervisorSuccess(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "ok").Launch(context.Background(), "disk.img", Options{})
	require.NoError(t, err)

	lines := collect(p)
	exit, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, exit.Code)
	assert.Equal(t, len(lines), exit.Lines)
	assert.Equal(t, "Pass 1 of 1, writing 0x00", lines[0])
	assert.Equal(t, "All done, 4096 bytes were wiped", lines[len(lines)-1])

	tr := NewTracker(Options{})
	for _, line := range lines {
		tr.Apply(Parse(line))
	}
	assert.Equal(t, 1.0, tr.Fraction())
}

func TestSupervisorPassesArguments(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "args").Launch(context.Background(), "disk.img", Options{BlockSize: 4096, Verify: true})
	require.NoError(t, err)

	lines := collect(p)
	_, err = p.Wait()
	require.NoError(t, err)
	assert.Equal(t, []string{"disk.img 4096 /v"}, lines)
}

func TestSupervisorNonZeroExit(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "fail").Launch(context.Background(), "disk.img", Options{})
	require.NoError(t, err)

	collect(p)
	exit, err := p.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWiperFailed)
	assert.Equal(t, 1, exit.Code)
	assert.Contains(t, err.Error(), "could not open disk.img to write")
}

func TestSupervisorDummyToleratesExitCode(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "fail").Launch(context.Background(), "disk.img", Options{Dummy: true})
	require.NoError(t, err)

	collect(p)
	exit, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, exit.Code)
}

func TestSupervisorNoOutput(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "silent").Launch(context.Background(), "disk.img", Options{})
	require.NoError(t, err)

	assert.Empty(t, collect(p))
	_, err = p.Wait()
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestSupervisorTerminate(t *testing.T) {
	t.Parallel()

	p, err := fakeSupervisor(t, "hang").Launch(context.Background(), "disk.img", Options{})
	require.NoError(t, err)

	first := <-p.Lines()
	assert.Equal(t, "Pass 1 of 1, writing 0x00", first)

	start := time.Now()
	require.NoError(t, p.Terminate())
	require.NoError(t, p.Terminate())

	_, err = p.Wait()
	assert.ErrorIs(t, err, ErrTerminated)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestSupervisorMissingExecutable(t *testing.T) {
	t.Parallel()

	s := NewSupervisor("/nonexistent/zerod.exe", nil)
	_, err := s.Launch(context.Background(), "disk.img", Options{})
	assert.Error(t, err)
}
