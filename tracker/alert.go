package tracker

import (
	"slices"
	"time"
)

type (
	// Alerts is the list of messages shown to the user, e.g. when an
	// instrument failed to load. Alerts are kept sorted by priority, highest
	// first, and expire after their Duration.
	Alerts struct {
		alerts []Alert
	}

	Alert struct {
		Name      string // named alerts replace the previous alert with the same name
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64 // 0 = hidden, 1 = fully shown
	}

	AlertPriority int
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const (
	defaultAlertDuration = 3 * time.Second
	alertFadeTime        = 150 * time.Millisecond
)

var priorityNames = [...]string{"none", "info", "warning", "error"}

func (p AlertPriority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return "unknown"
	}
	return priorityNames[p]
}

// Iterate yields the alerts in priority order. It has the signature of an
// iter.Seq2, so it can be used as: for i, a := range alerts.Iterate { ... }
func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			return
		}
	}
}

func (m *Alerts) Len() int {
	return len(m.alerts)
}

// Update advances the time of the alerts by d, fading them in and out and
// removing the expired ones. It returns true if some alert is still fading,
// i.e. the view should be redrawn soon.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	fade := float64(d) / float64(alertFadeTime)
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := &m.alerts[i]
		if a.Duration > 0 {
			a.Duration -= d
			if a.FadeLevel < 1 {
				a.FadeLevel = min(a.FadeLevel+fade, 1)
				animating = true
			}
			continue
		}
		a.FadeLevel -= fade
		if a.FadeLevel <= 0 {
			m.alerts = slices.Delete(m.alerts, i, i+1)
			continue
		}
		animating = true
	}
	return
}

func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddAlert(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration})
}

// ClearNamed starts fading out the alert with the given name, if any.
func (m *Alerts) ClearNamed(name string) {
	for i := range m.alerts {
		if m.alerts[i].Name == name {
			m.alerts[i].Duration = 0
			return
		}
	}
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				a.FadeLevel = m.alerts[i].FadeLevel
				m.alerts = slices.Delete(m.alerts, i, i+1)
				break
			}
		}
	}
	i := 0
	for i < len(m.alerts) && m.alerts[i].Priority >= a.Priority {
		i++
	}
	m.alerts = slices.Insert(m.alerts, i, a)
}
