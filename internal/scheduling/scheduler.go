package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Scheduling policy defaults: 5 pickups per district per day, hourly slots
// from 9:00, same-day booking closes at 15:00.
const (
	DefaultDailyCapacity    = 5
	DefaultSlotStartHour    = 9
	DefaultCutoffHour       = 15
	DefaultMaxLookaheadDays = 365
)

// ErrLookaheadExceeded means no day under capacity was found within the
// lookahead bound. With a positive capacity this indicates a data or
// configuration anomaly, not a full calendar.
var ErrLookaheadExceeded = errors.New("no pickup slot within lookahead window")

// BookingCounter reports how many pickups are already booked for a district
// on a date (YYYY-MM-DD, exact string match on the district).
type BookingCounter interface {
	CountByDistrictAndDate(ctx context.Context, district, date string) (int, error)
}

// Clock returns the current wall-clock time; injected so tests can pin it.
type Clock func() time.Time

// Slot is the schedule assigned to a pickup request. PickupTime uses the
// historical non-padded hour format ("9:00", not "09:00"); existing
// consumers compare these strings, so the format is load-bearing.
type Slot struct {
	PickupDate      string `json:"pickup_date"`  // YYYY-MM-DD
	PickupTime      string `json:"pickup_time"`  // H:MM
	PositionInQueue int    `json:"position_in_queue"`
}

// Scheduler assigns the next available pickup slot for a district.
//
// The count-then-decide sequence is not transactionally isolated: two
// concurrent computations for the same district and day can read the same
// count and return the same slot. Callers needing atomic reservation must
// serialize compute+insert externally (see pickups.Repo.WithDistrictLock).
type Scheduler struct {
	counter BookingCounter
	now     Clock

	capacity         int
	slotStartHour    int
	cutoffHour       int
	maxLookaheadDays int
}

// Option tweaks scheduler policy; defaults match the product rules.
type Option func(*Scheduler)

func WithCapacity(n int) Option          { return func(s *Scheduler) { s.capacity = n } }
func WithSlotStartHour(h int) Option     { return func(s *Scheduler) { s.slotStartHour = h } }
func WithCutoffHour(h int) Option        { return func(s *Scheduler) { s.cutoffHour = h } }
func WithMaxLookaheadDays(d int) Option  { return func(s *Scheduler) { s.maxLookaheadDays = d } }

func NewScheduler(counter BookingCounter, now Clock, opts ...Option) *Scheduler {
	if now == nil {
		now = time.Now
	}
	s := &Scheduler{
		counter:          counter,
		now:              now,
		capacity:         DefaultDailyCapacity,
		slotStartHour:    DefaultSlotStartHour,
		cutoffHour:       DefaultCutoffHour,
		maxLookaheadDays: DefaultMaxLookaheadDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeSchedule finds the earliest slot for the district: the first day
// (starting today before the cutoff, tomorrow after it) with fewer than
// capacity bookings; the slot hour is start+count, pushed past the current
// time for same-day bookings. Storage errors propagate unchanged; only
// reads are performed; the caller persists the returned slot.
func (s *Scheduler) ComputeSchedule(ctx context.Context, district string) (Slot, error) {
	now := s.now()
	beforeCutoff := now.Hour() < s.cutoffHour

	today := now.Format("2006-01-02")
	candidate := now
	if !beforeCutoff {
		candidate = candidate.AddDate(0, 0, 1)
	}

	for i := 0; i < s.maxLookaheadDays; i++ {
		date := candidate.Format("2006-01-02")
		count, err := s.counter.CountByDistrictAndDate(ctx, district, date)
		if err != nil {
			return Slot{}, err
		}
		if count < s.capacity {
			slotHour := s.slotStartHour + count
			slotMinute := 0
			// Same-day: never offer a slot that has already passed.
			if date == today && beforeCutoff && slotHour <= now.Hour() {
				slotHour = now.Hour() + 1
				slotMinute = now.Minute()
			}
			return Slot{
				PickupDate:      date,
				PickupTime:      fmt.Sprintf("%d:%02d", slotHour, slotMinute),
				PositionInQueue: count + 1,
			}, nil
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return Slot{}, fmt.Errorf("%w: %d days from %s for district %q",
		ErrLookaheadExceeded, s.maxLookaheadDays, today, district)
}
