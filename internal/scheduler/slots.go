package scheduler

import (
	"context"
	"time"
)

// OverlapSource exposes the single store query the slot search needs: every
// persisted reservation interval overlapping [start, end).
type OverlapSource interface {
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Interval, error)
}

// SlotFinder searches forward through the business calendar for the earliest
// free, rule-compliant window. The search is a bounded linear walk: the day
// counter caps the number of day advances, so termination does not depend on
// store contents.
type SlotFinder struct {
	Calendar    BusinessCalendar
	SlotLength  time.Duration
	HorizonDays int
}

// NewSlotFinder returns a finder with the canonical one-hour window and
// 30-business-calendar-day horizon.
func NewSlotFinder(calendar BusinessCalendar) SlotFinder {
	return SlotFinder{
		Calendar:    calendar,
		SlotLength:  time.Hour,
		HorizonDays: 30,
	}
}

func (f SlotFinder) slotLength() time.Duration {
	if f.SlotLength <= 0 {
		return time.Hour
	}
	return f.SlotLength
}

func (f SlotFinder) horizonDays() int {
	if f.HorizonDays <= 0 {
		return 30
	}
	return f.HorizonDays
}

// FindNext returns the start of the earliest slot at or after from that is a
// business day, fully inside business hours and free of overlapping
// reservations. The boolean result is false when the horizon is exhausted,
// which is a valid negative outcome rather than an error.
//
// The floor is rounded up to the next half-hour boundary before the walk
// starts; no additional forward jump is applied. Repeated invocations against
// unchanged store state return the identical slot.
func (f SlotFinder) FindNext(ctx context.Context, store OverlapSource, from time.Time) (time.Time, bool, error) {
	cal := f.Calendar
	floor := RoundUpToHalfHour(from)
	daysChecked := 0

	for {
		if daysChecked > f.horizonDays() {
			return time.Time{}, false, nil
		}

		if !cal.IsBusinessDay(floor) {
			floor = cal.NextMorning(floor)
			daysChecked++
			continue
		}

		if floor.Hour() >= cal.EndHour {
			floor = cal.NextMorning(floor)
			daysChecked++
			continue
		}

		if floor.Hour() < cal.StartHour {
			floor = cal.MorningOf(floor)
		}

		end := floor.Add(f.slotLength())
		if !cal.WithinBusinessHours(floor, end) {
			floor = cal.NextMorning(floor)
			daysChecked++
			continue
		}

		conflicts, err := store.FindOverlapping(ctx, floor, end)
		if err != nil {
			return time.Time{}, false, err
		}

		if len(conflicts) == 0 {
			return floor, true, nil
		}

		// Resume past the conflicting reservation that ends last; this may
		// stay within the same day, so the day counter is untouched.
		latest := conflicts[0].End
		for _, conflict := range conflicts[1:] {
			if conflict.End.After(latest) {
				latest = conflict.End
			}
		}
		floor = RoundUpToHalfHour(latest)
	}
}
