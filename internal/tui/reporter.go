package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"hdzero/internal/orchestrator"
)

type confirmMsg struct {
	conf  orchestrator.Confirmation
	round int
	reply chan<- bool
}

type statusMsg orchestrator.Status

type warnMsg string

type finishedMsg orchestrator.Summary

// Reporter forwards driver callbacks into the running program. Until a
// program is attached every confirmation is answered with no.
type Reporter struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// Attach подключает программу bubbletea
func (r *Reporter) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

func (r *Reporter) send(msg tea.Msg) bool {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

func (r *Reporter) Confirm(ctx context.Context, c orchestrator.Confirmation, round int) bool {
	reply := make(chan bool, 1)
	if !r.send(confirmMsg{conf: c, round: round, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

func (r *Reporter) Progress(s orchestrator.Status) {
	r.send(statusMsg(s))
}

func (r *Reporter) Warn(msg string) {
	r.send(warnMsg(msg))
}

func (r *Reporter) Finished(s orchestrator.Summary) {
	r.send(finishedMsg(s))
}
