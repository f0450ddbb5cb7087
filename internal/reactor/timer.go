package reactor

import "github.com/ahrav/reactor-core/internal/domain"

// Timer fires first at start_tag + offset, then every period. A period
// of zero disables re-firing: the timer fires exactly once.
type Timer struct {
	Component
	offset domain.TimeValue
	period domain.TimeValue

	present bool
}

// NewTimer constructs a timer owned by parent.
func NewTimer(parent *Reactor, name string, offset, period domain.TimeValue) *Timer {
	t := &Timer{Component: Component{name: name, parent: parent}, offset: offset, period: period}
	parent.registerComponent(name, t)
	return t
}

func (t *Timer) OwnerReactor() *Reactor { return t.parent }

// IsPresent reports whether the timer fired at the current tag.
func (t *Timer) IsPresent() bool { return t.present }

// Clear resets presence at tag advance.
func (t *Timer) Clear() { t.present = false }

// FireClosure returns a closure that marks this timer present; the
// scheduler pushes it as the event's delivery function at each
// scheduled firing tag.
func (t *Timer) FireClosure() func() {
	return func() { t.present = true }
}

// FirstFireTag returns the tag of this timer's first firing relative to
// startTag (the App's (0,0) startup tag).
func (t *Timer) FirstFireTag(startTag domain.Tag) (domain.Tag, error) {
	return domain.LaterTag(startTag, t.offset)
}

// NextFireTag returns the next occurrence strictly after current,
// and false if the timer's period is zero (fires exactly once).
func (t *Timer) NextFireTag(current domain.Tag) (domain.Tag, bool, error) {
	if t.period == 0 {
		return domain.Tag{}, false, nil
	}
	next, err := current.AdvanceTime(t.period)
	if err != nil {
		return domain.Tag{}, false, err
	}
	return next, true, nil
}
