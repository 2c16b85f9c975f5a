package wipe

import (
	"strconv"
	"strings"
)

// EventKind classifies one line of wiper output.
type EventKind int

const (
	EventNone EventKind = iota
	EventTick
	EventCalculating
	EventPass
	EventTesting
	EventUsing
	EventVerifying
	EventVerified
	EventSummary
	EventWarning
	EventRetry
	EventText
)

var eventNames = map[EventKind]string{
	EventNone:        "none",
	EventTick:        "tick",
	EventCalculating: "calculating",
	EventPass:        "pass",
	EventTesting:     "testing",
	EventUsing:       "using",
	EventVerifying:   "verifying",
	EventVerified:    "verified",
	EventSummary:     "summary",
	EventWarning:     "warning",
	EventRetry:       "retry",
	EventText:        "text",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is the parsed form of one output line.
type Event struct {
	Kind        EventKind
	Fraction    float64
	HasFraction bool
	Text        string

	Current   uint64 // tick position, pass or attempt number
	Total     uint64 // target size, pass or attempt count
	BlockSize uint64
	Bytes     uint64
	Qualifier string
	Path      string
}

// Parse classifies a line by its first token. It keeps no state.
func Parse(line string) Event {
	line = strings.TrimRight(line, "\r\n")
	tok := strings.Fields(line)
	if len(tok) == 0 {
		return Event{Kind: EventNone}
	}
	text := strings.TrimSpace(line)

	switch tok[0] {
	case "...":
		num, ok1 := uintAt(tok, 1)
		den, ok2 := uintAt(tok, 3)
		if !ok1 || !ok2 {
			break
		}
		return Event{
			Kind:        EventTick,
			Fraction:    fraction(num, den),
			HasFraction: true,
			Current:     num,
			Total:       den,
		}

	case "Calculating":
		return Event{Kind: EventCalculating, Text: text}

	case "Pass":
		cur, _ := uintAt(tok, 1)
		total, _ := uintAt(tok, 3)
		return Event{Kind: EventPass, Text: text, Current: cur, Total: total}

	case "Testing":
		size, _ := uintAt(tok, 3)
		return Event{Kind: EventTesting, Text: text, BlockSize: size}

	case "Using":
		size, _ := uintAt(tok, 4)
		return Event{Kind: EventUsing, Text: text, BlockSize: size}

	case "Verifying":
		return Event{Kind: EventVerifying, Text: text, Path: strings.TrimSpace(strings.TrimPrefix(text, "Verifying"))}

	case "Verified":
		// "Verified all N bytes"; a bare "Verified N" is accepted too
		n, ok := uintAt(tok, 1)
		if !ok {
			n, _ = uintAt(tok, 2)
		}
		return Event{Kind: EventVerified, Text: text, Bytes: n}

	case "All":
		n, ok := uintAt(tok, 2)
		if !ok && len(tok) > 2 {
			// "All done, PATH has N bytes" при запросе размера (/p)
			n, _ = uintAt(tok, len(tok)-2)
		}
		ev := Event{Kind: EventSummary, Text: text, Bytes: n, Fraction: 1, HasFraction: true}
		if len(tok) > 5 {
			ev.Qualifier = tok[5]
		}
		return ev

	case "Warning:":
		return Event{Kind: EventWarning, Text: text}

	case "Retrying":
		return Event{Kind: EventRetry, Text: text}

	case "Attempt":
		cur, _ := uintAt(tok, 1)
		total, _ := uintAt(tok, 3)
		return Event{Kind: EventRetry, Text: text, Current: cur, Total: total}
	}

	return Event{Kind: EventText, Text: text}
}

func uintAt(tok []string, i int) (uint64, bool) {
	if i >= len(tok) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimRight(tok[i], ",.:;"), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fraction(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return clamp(float64(num) / float64(den))
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
