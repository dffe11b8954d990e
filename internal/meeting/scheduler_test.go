package meeting

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubCreator struct {
	meeting *Meeting
	err     error
	lastReq *CreateRequest
	calls   int
}

func (s *stubCreator) CreateMeeting(_ context.Context, req *CreateRequest) (*Meeting, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.meeting, nil
}

func newTestScheduler(t *testing.T, creator Creator, now time.Time) *Scheduler {
	t.Helper()

	scheduler, err := NewScheduler(creator, zap.NewNop())
	if err != nil {
		t.Fatalf("creating scheduler: %v", err)
	}
	scheduler.now = func() time.Time { return now }

	return scheduler
}

func TestScheduleSlotPolicy(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	// Whatever the invocation time, the slot is 11:00 IST on the next
	// calendar day.
	cases := []struct {
		name string
		now  time.Time
	}{
		{"morning", time.Date(2024, 3, 10, 8, 15, 0, 0, ist)},
		{"just before midnight", time.Date(2024, 3, 10, 23, 59, 59, 0, ist)},
		{"other timezone clock", time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)},
		{"month boundary", time.Date(2024, 3, 31, 13, 0, 0, 0, ist)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			creator := &stubCreator{meeting: &Meeting{ID: 42, JoinURL: "https://zoom.us/j/42"}}
			scheduler := newTestScheduler(t, creator, tc.now)

			slot, err := scheduler.Schedule(context.Background(), "candidate@example.com", "Backend Engineer")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			local := slot.StartTime.In(ist)
			if local.Hour() != 11 || local.Minute() != 0 {
				t.Fatalf("expected 11:00 local start, got %s", local.Format(time.RFC3339))
			}

			wantDate := tc.now.In(ist).AddDate(0, 0, 1)
			if local.Year() != wantDate.Year() || local.YearDay() != wantDate.YearDay() {
				t.Fatalf("expected next-day date %s, got %s", wantDate.Format("2006-01-02"), local.Format("2006-01-02"))
			}

			if slot.DurationMinutes != 60 {
				t.Fatalf("expected 60 minute duration, got %d", slot.DurationMinutes)
			}
			if slot.Timezone != "Asia/Kolkata" {
				t.Fatalf("unexpected timezone: %q", slot.Timezone)
			}
		})
	}
}

func TestScheduleCreateRequest(t *testing.T) {
	ist, _ := time.LoadLocation("Asia/Kolkata")
	creator := &stubCreator{meeting: &Meeting{ID: 7, JoinURL: "https://zoom.us/j/7", Password: "s3cret"}}
	scheduler := newTestScheduler(t, creator, time.Date(2024, 6, 1, 15, 30, 0, 0, ist))

	slot, err := scheduler.Schedule(context.Background(), "candidate@example.com", "Backend Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := creator.lastReq
	if req.Topic != "Backend Engineer Technical Interview" {
		t.Fatalf("unexpected topic: %q", req.Topic)
	}
	if req.StartTime != "2024-06-02T11:00:00" {
		t.Fatalf("unexpected start time: %q", req.StartTime)
	}
	if req.DurationMinutes != 60 {
		t.Fatalf("unexpected duration: %d", req.DurationMinutes)
	}
	if req.AttendeeEmail != "candidate@example.com" {
		t.Fatalf("unexpected attendee: %q", req.AttendeeEmail)
	}

	if slot.JoinInfo != "https://zoom.us/j/7 (passcode: s3cret)" {
		t.Fatalf("unexpected join info: %q", slot.JoinInfo)
	}
}

func TestScheduleCreationFailure(t *testing.T) {
	creator := &stubCreator{err: errors.New("api timeout")}
	scheduler := newTestScheduler(t, creator, time.Now())

	_, err := scheduler.Schedule(context.Background(), "candidate@example.com", "Backend Engineer")
	if !errors.Is(err, ErrCreationFailed) {
		t.Fatalf("expected ErrCreationFailed, got %v", err)
	}
	if creator.calls != 1 {
		t.Fatalf("expected one creation attempt, got %d", creator.calls)
	}
}

func TestScheduleValidation(t *testing.T) {
	scheduler := newTestScheduler(t, &stubCreator{}, time.Now())

	if _, err := scheduler.Schedule(context.Background(), " ", "role"); err == nil {
		t.Fatal("expected error for empty candidate email")
	}
	if _, err := scheduler.Schedule(context.Background(), "a@b.c", ""); err == nil {
		t.Fatal("expected error for empty role")
	}
}
