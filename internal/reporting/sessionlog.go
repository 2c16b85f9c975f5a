package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	markerLayout = "2006-01-02 15:04:05"
	lineLayout   = "15:04:05"
)

// Entry - одна строка журнала сессии
type Entry struct {
	Time   time.Time
	Text   string
	Marker bool
}

// SessionLog accumulates the status lines of one run. It is append-only
// and safe for concurrent use.
type SessionLog struct {
	mu      sync.Mutex
	header  string
	entries []Entry
	now     func() time.Time
}

func NewSessionLog() *SessionLog {
	return &SessionLog{now: time.Now}
}

// Start сбрасывает журнал и задаёт заголовок
func (l *SessionLog) Start(header string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.header = header
	l.entries = nil
}

func (l *SessionLog) Append(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Time: l.now(), Text: line})
}

// TimestampMarker appends a line holding the full date and time.
func (l *SessionLog) TimestampMarker() {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := l.now()
	l.entries = append(l.entries, Entry{Time: t, Text: t.Format(markerLayout), Marker: true})
}

// Lines возвращает копию накопленных строк
func (l *SessionLog) Lines() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Render возвращает заголовок и строки журнала одним текстом
func (l *SessionLog) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	if l.header != "" {
		b.WriteString(strings.TrimRight(l.header, "\r\n"))
		b.WriteString("\n\n")
	}
	for _, e := range l.entries {
		if e.Marker {
			b.WriteString(e.Text)
		} else {
			b.WriteString(e.Time.Format(lineLayout))
			b.WriteString(" ")
			b.WriteString(e.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Flush writes the log to dest. An empty dest discards the buffer. The file
// is written through a temporary file so a failed flush leaves nothing behind.
func (l *SessionLog) Flush(dest string) error {
	if dest == "" {
		l.mu.Lock()
		l.entries = nil
		l.mu.Unlock()
		return nil
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create log directory")
	}

	tmp, err := os.CreateTemp(dir, ".hdzero-log-*")
	if err != nil {
		return errors.Wrap(err, "create temporary log file")
	}
	tmpPath := tmp.Name()

	_, werr := tmp.WriteString(l.Render())
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpPath, dest)
	}
	if werr != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(werr, "write log %s", dest)
	}
	return nil
}

// LoadHeader читает заголовок журнала. Отсутствующий файл даёт пустой заголовок.
func LoadHeader(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "read log header %s", path)
	}
	return string(data), nil
}

// LogFileName возвращает имя файла журнала для момента t
func LogFileName(t time.Time) string {
	return "hdzero-log-" + t.Format("20060102-150405") + ".txt"
}
