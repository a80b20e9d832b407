package session

import (
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/effects"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
)

// rescheduleTarget is the time asked for in the last reschedule command,
// waiting for the view to report free slots.
type rescheduleTarget struct {
	appointmentID string
	target        temporal.Expression
}

// holdAutofill remembers the target of the last reschedule effect. A
// reschedule without a target clears any earlier one.
func (s *Session) holdAutofill(effs []effects.Effect) {
	for _, e := range effs {
		r, ok := e.(effects.OpenReschedule)
		if !ok {
			continue
		}
		s.mu.Lock()
		s.autofill = nil
		if r.Target != nil {
			s.autofill = &rescheduleTarget{appointmentID: r.AppointmentID, target: *r.Target}
		}
		s.mu.Unlock()
	}
}

// ApplyRescheduleSlots picks the slot matching the held reschedule target:
// the exact time, else the same clock time, else the same day. The target is
// consumed by the first call for its appointment, match or not. An empty
// appointmentID matches any held target.
func (s *Session) ApplyRescheduleSlots(appointmentID string, slots []time.Time) (time.Time, bool) {
	s.mu.Lock()
	held := s.autofill
	if held == nil || (appointmentID != "" && appointmentID != held.appointmentID) {
		s.mu.Unlock()
		return time.Time{}, false
	}
	s.autofill = nil
	s.mu.Unlock()

	return pickSlot(held.target, slots, s.loc)
}

func pickSlot(t temporal.Expression, slots []time.Time, loc *time.Location) (time.Time, bool) {
	if t.TargetDate != nil {
		for _, slot := range slots {
			if slot.Equal(*t.TargetDate) {
				return slot, true
			}
		}
	}
	if t.HasTime {
		for _, slot := range slots {
			local := slot.In(loc)
			if local.Hour() == t.Hour && local.Minute() == t.Minute {
				return slot, true
			}
		}
	}
	if t.HasDate {
		y, m, d := t.Day.Date()
		for _, slot := range slots {
			sy, sm, sd := slot.In(loc).Date()
			if sy == y && sm == m && sd == d {
				return slot, true
			}
		}
	}
	return time.Time{}, false
}

// PendingReschedule reports the appointment whose reschedule target is held.
func (s *Session) PendingReschedule() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autofill == nil {
		return "", false
	}
	return s.autofill.appointmentID, true
}
