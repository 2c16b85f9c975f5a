package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"hdzero/internal/orchestrator"
)

const barWidth = 30

// consoleReporter - построчный интерфейс для команды wipe
type consoleReporter struct {
	in  *bufio.Reader
	out io.Writer

	mu       sync.Mutex
	fraction float64
	line     string
	inBar    bool
}

func newConsoleReporter(in io.Reader, out io.Writer) *consoleReporter {
	return &consoleReporter{in: bufio.NewReader(in), out: out, fraction: -1}
}

// Confirm печатает вопрос и ждёт ответа y/N. Отмена контекста считается отказом.
func (r *consoleReporter) Confirm(ctx context.Context, c orchestrator.Confirmation, round int) bool {
	r.mu.Lock()
	r.endBar()
	if round == 1 {
		fmt.Fprintln(r.out)
		fmt.Fprint(r.out, c.Text())
		fmt.Fprint(r.out, "Продолжить? (y/N): ")
	} else {
		fmt.Fprintf(r.out, "Подтвердите ещё раз (%d из %d). Продолжить? (y/N): ", round, c.Rounds)
	}
	r.mu.Unlock()

	answer := make(chan string, 1)
	go func() {
		line, _ := r.in.ReadString('\n')
		answer <- line
	}()

	select {
	case line := <-answer:
		return strings.ToLower(strings.TrimSpace(line)) == "y"
	case <-ctx.Done():
		fmt.Fprintln(r.out)
		return false
	}
}

// Progress перерисовывает полосу и печатает новые строки состояния
func (r *consoleReporter) Progress(s orchestrator.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Line != "" && s.Line != r.line {
		r.endBar()
		fmt.Fprintln(r.out, s.Line)
		r.line = s.Line
		r.fraction = -1
	}
	if s.State != orchestrator.StateWiping {
		return
	}
	// перерисовка только при изменении на 0.1%
	if r.fraction >= 0 && s.Fraction-r.fraction < 0.001 && s.Fraction < 1 {
		return
	}
	r.fraction = s.Fraction
	r.inBar = true
	fmt.Fprintf(r.out, "\r%s %5.1f%%", renderBar(s.Fraction), s.Fraction*100)
}

func (r *consoleReporter) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endBar()
	fmt.Fprintf(r.out, "Предупреждение: %s\n", msg)
}

func (r *consoleReporter) Finished(s orchestrator.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endBar()
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, s.Text())
	if s.ReportFile != "" {
		fmt.Fprintf(r.out, "Report: %s\n", s.ReportFile)
	}
}

func (r *consoleReporter) endBar() {
	if r.inBar {
		fmt.Fprintln(r.out)
		r.inBar = false
	}
}

func renderBar(f float64) string {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	filled := int(f * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}
