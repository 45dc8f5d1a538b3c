package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// countStub serves per-date counts and records queries.
type countStub struct {
	counts  map[string]int // date -> booked count
	err     error
	queries []string
}

func (s *countStub) CountByDistrictAndDate(ctx context.Context, district, date string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.queries = append(s.queries, date)
	return s.counts[date], nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// at builds a local time on 2026-03-10 (a Tuesday) at the given clock time.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.Local)
}

const (
	day0 = "2026-03-10"
	day1 = "2026-03-11"
	day2 = "2026-03-12"
)

func TestSameDaySlotAssignment(t *testing.T) {
	// Before cutoff with k bookings today: slot is (9+k):00, position k+1.
	for k := 0; k < 5; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			stub := &countStub{counts: map[string]int{day0: k}}
			s := NewScheduler(stub, fixedClock(at(8, 0)))

			slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
			if err != nil {
				t.Fatalf("ComputeSchedule: %v", err)
			}
			if slot.PickupDate != day0 {
				t.Errorf("date = %s, want %s", slot.PickupDate, day0)
			}
			want := fmt.Sprintf("%d:00", 9+k)
			if slot.PickupTime != want {
				t.Errorf("time = %s, want %s", slot.PickupTime, want)
			}
			if slot.PositionInQueue != k+1 {
				t.Errorf("position = %d, want %d", slot.PositionInQueue, k+1)
			}
		})
	}
}

func TestHourNotZeroPadded(t *testing.T) {
	stub := &countStub{counts: map[string]int{}}
	s := NewScheduler(stub, fixedClock(at(8, 0)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupTime != "9:00" {
		t.Errorf("time = %q, want %q (hour must not be zero-padded)", slot.PickupTime, "9:00")
	}
}

func TestDayRolloverWhenFull(t *testing.T) {
	stub := &countStub{counts: map[string]int{day0: 5}}
	s := NewScheduler(stub, fixedClock(at(10, 0)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupDate != day1 {
		t.Errorf("date = %s, want %s", slot.PickupDate, day1)
	}
	if slot.PickupTime != "9:00" {
		t.Errorf("time = %s, want 9:00", slot.PickupTime)
	}
	if slot.PositionInQueue != 1 {
		t.Errorf("position = %d, want 1", slot.PositionInQueue)
	}
}

func TestMultiDayRollover(t *testing.T) {
	stub := &countStub{counts: map[string]int{day0: 5, day1: 5, day2: 2}}
	s := NewScheduler(stub, fixedClock(at(9, 0)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupDate != day2 {
		t.Errorf("date = %s, want %s", slot.PickupDate, day2)
	}
	if slot.PickupTime != "11:00" {
		t.Errorf("time = %s, want 11:00", slot.PickupTime)
	}
	if slot.PositionInQueue != 3 {
		t.Errorf("position = %d, want 3", slot.PositionInQueue)
	}
}

func TestAfterCutoffStartsTomorrow(t *testing.T) {
	// 16:00 is past the 15:00 cutoff: today is skipped entirely, even empty.
	stub := &countStub{counts: map[string]int{day0: 0, day1: 0}}
	s := NewScheduler(stub, fixedClock(at(16, 0)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupDate != day1 {
		t.Errorf("date = %s, want %s", slot.PickupDate, day1)
	}
	if len(stub.queries) != 1 || stub.queries[0] != day1 {
		t.Errorf("queried dates = %v, want [%s] only", stub.queries, day1)
	}
	if slot.PickupTime != "9:00" {
		t.Errorf("time = %s, want 9:00", slot.PickupTime)
	}
}

func TestSameDayPastSlotPushedForward(t *testing.T) {
	// 11:30 with no bookings: the natural 9:00 slot has passed; the slot is
	// pushed to current hour + 1, preserving the minute.
	stub := &countStub{counts: map[string]int{day0: 0}}
	s := NewScheduler(stub, fixedClock(at(11, 30)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupDate != day0 {
		t.Errorf("date = %s, want %s", slot.PickupDate, day0)
	}
	if slot.PickupTime != "12:30" {
		t.Errorf("time = %s, want 12:30", slot.PickupTime)
	}
	if slot.PositionInQueue != 1 {
		t.Errorf("position = %d, want 1", slot.PositionInQueue)
	}
}

func TestSameDayFutureSlotNotPushed(t *testing.T) {
	// 10:15 with 3 bookings: natural slot 12:00 is still ahead, keep it.
	stub := &countStub{counts: map[string]int{day0: 3}}
	s := NewScheduler(stub, fixedClock(at(10, 15)))

	slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if slot.PickupTime != "12:00" {
		t.Errorf("time = %s, want 12:00", slot.PickupTime)
	}
}

func TestCapacityInvariantSequential(t *testing.T) {
	// Sequential compute-then-persist cycles never place more than capacity
	// bookings on one (district, date).
	counts := map[string]int{}
	stub := &countStub{counts: counts}
	s := NewScheduler(stub, fixedClock(at(8, 0)))

	perDay := map[string]int{}
	for i := 0; i < 17; i++ {
		slot, err := s.ComputeSchedule(context.Background(), "Mysuru")
		if err != nil {
			t.Fatalf("ComputeSchedule #%d: %v", i, err)
		}
		counts[slot.PickupDate]++ // caller persists the booking
		perDay[slot.PickupDate]++
	}
	for date, n := range perDay {
		if n > 5 {
			t.Errorf("date %s has %d bookings, capacity is 5", date, n)
		}
	}
	if perDay[day0] != 5 || perDay[day1] != 5 || perDay[day2] != 5 {
		t.Errorf("expected three full days then overflow, got %v", perDay)
	}
}

func TestConcurrentReadsShareSlot(t *testing.T) {
	// Documented race behavior: two computations that observe the same count
	// both return position k+1. Atomic reservation is an opt-in handled by
	// the storage layer, not here.
	stub := &countStub{counts: map[string]int{day0: 2}}
	s := NewScheduler(stub, fixedClock(at(8, 0)))

	a, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	b, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if a != b {
		t.Errorf("slots differ without an intervening insert: %+v vs %+v", a, b)
	}
	if a.PositionInQueue != 3 {
		t.Errorf("position = %d, want 3", a.PositionInQueue)
	}
}

func TestStorageErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	stub := &countStub{err: boom}
	s := NewScheduler(stub, fixedClock(at(8, 0)))

	_, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the storage error unchanged", err)
	}
}

func TestLookaheadExceeded(t *testing.T) {
	// Every day full (capacity forced to 0): the bounded search fails with a
	// distinct configuration error instead of looping forever.
	stub := &countStub{counts: map[string]int{}}
	s := NewScheduler(stub, fixedClock(at(8, 0)), WithCapacity(0), WithMaxLookaheadDays(30))

	_, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if !errors.Is(err, ErrLookaheadExceeded) {
		t.Errorf("err = %v, want ErrLookaheadExceeded", err)
	}
	if len(stub.queries) != 30 {
		t.Errorf("queried %d days, want 30", len(stub.queries))
	}
}

func TestDistrictsIndependent(t *testing.T) {
	// Counter keyed by district as well: a full day in one district must not
	// affect another.
	full := &perDistrictStub{counts: map[string]map[string]int{
		"Mysuru":   {day0: 5},
		"Tumakuru": {},
	}}
	s := NewScheduler(full, fixedClock(at(8, 0)))

	a, err := s.ComputeSchedule(context.Background(), "Mysuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	b, err := s.ComputeSchedule(context.Background(), "Tumakuru")
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if a.PickupDate != day1 {
		t.Errorf("Mysuru date = %s, want %s", a.PickupDate, day1)
	}
	if b.PickupDate != day0 {
		t.Errorf("Tumakuru date = %s, want %s", b.PickupDate, day0)
	}
}

type perDistrictStub struct {
	counts map[string]map[string]int
}

func (s *perDistrictStub) CountByDistrictAndDate(ctx context.Context, district, date string) (int, error) {
	return s.counts[district][date], nil
}
