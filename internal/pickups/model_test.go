package pickups

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusScheduled, StatusPickedUp, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING", "in_progress"} {
		if ValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestDefaultTrackingNote(t *testing.T) {
	if got := DefaultTrackingNote(StatusCompleted); got == "" {
		t.Fatal("completed status must carry a default note")
	}
	if got := DefaultTrackingNote("unknown"); got == "" {
		t.Fatal("unknown status should still produce a generic note")
	}
}
