package wipe

// Update is what the user sees for one parsed line.
type Update struct {
	Event    Event
	Text     string  // empty when nothing is shown or logged
	Fraction float64 // overall progress of the invocation
}

// Tracker turns the events of one invocation into overall progress.
// The fraction never decreases.
type Tracker struct {
	extra     bool
	pass      uint64
	passes    uint64
	verifying bool
	fraction  float64
}

func NewTracker(opts Options) *Tracker {
	opts = opts.Normalize()
	return &Tracker{extra: opts.Extra, pass: 1, passes: 1}
}

// Fraction возвращает текущий общий прогресс
func (t *Tracker) Fraction() float64 {
	return t.fraction
}

// Apply учитывает событие и возвращает отображаемое обновление
func (t *Tracker) Apply(ev Event) Update {
	u := Update{Event: ev, Text: ev.Text}

	switch ev.Kind {
	case EventNone, EventCalculating, EventTick:
		u.Text = ""
		if ev.Kind == EventTick && !t.verifying {
			t.advance(ev.Fraction)
		}

	case EventPass:
		if ev.Current > 0 && ev.Total > 0 && ev.Current <= ev.Total {
			t.pass, t.passes = ev.Current, ev.Total
		}
		t.verifying = false
		if !t.extra {
			u.Text = ""
		}

	case EventVerifying:
		t.verifying = true

	case EventSummary:
		t.fraction = 1
	}

	u.Fraction = t.fraction
	return u
}

func (t *Tracker) advance(f float64) {
	overall := clamp((float64(t.pass-1) + clamp(f)) / float64(t.passes))
	if overall > t.fraction {
		t.fraction = overall
	}
}
