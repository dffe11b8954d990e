package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hireflow/hireflow/internal/meeting"
	"go.uber.org/zap"
)

type stubMailer struct {
	err             error
	calls           int
	lastInstruction string
	lastRecipient   string
}

func (s *stubMailer) SendMail(_ context.Context, instruction, recipient string) error {
	s.calls++
	s.lastInstruction = instruction
	s.lastRecipient = recipient
	return s.err
}

func TestSendRejection(t *testing.T) {
	mailer := &stubMailer{}
	dispatcher := New(mailer, zap.NewNop())

	err := dispatcher.SendRejection(context.Background(), "candidate@example.com", "Backend Engineer", "Missing Kubernetes experience")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mailer.calls != 1 {
		t.Fatalf("expected one send, got %d", mailer.calls)
	}
	if mailer.lastRecipient != "candidate@example.com" {
		t.Fatalf("unexpected recipient: %q", mailer.lastRecipient)
	}
	if !strings.Contains(mailer.lastInstruction, RejectionClosing) {
		t.Fatal("expected instruction to require the exact rejection closing")
	}
	if !strings.Contains(mailer.lastInstruction, "Missing Kubernetes experience") {
		t.Fatal("expected instruction to include the feedback")
	}
	if !strings.Contains(mailer.lastInstruction, "Backend Engineer") {
		t.Fatal("expected instruction to name the role")
	}
}

func TestSendRejectionRequiresFeedback(t *testing.T) {
	mailer := &stubMailer{}
	dispatcher := New(mailer, zap.NewNop())

	if err := dispatcher.SendRejection(context.Background(), "a@b.c", "role", "  "); err == nil {
		t.Fatal("expected error for empty feedback")
	}
	if mailer.calls != 0 {
		t.Fatal("nothing should be sent without feedback")
	}
}

func TestSendSelectionConfirmation(t *testing.T) {
	mailer := &stubMailer{}
	dispatcher := New(mailer, zap.NewNop())

	err := dispatcher.SendSelectionConfirmation(context.Background(), "candidate@example.com", "Backend Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(mailer.lastInstruction, "congratulating") {
		t.Fatal("expected congratulatory instruction")
	}
	if !strings.Contains(mailer.lastInstruction, "next steps") {
		t.Fatal("expected instruction to outline next steps")
	}
}

func TestSendInterviewConfirmation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	mailer := &stubMailer{}
	dispatcher := New(mailer, zap.NewNop())

	slot := &meeting.Slot{
		StartTime:       time.Date(2024, 6, 2, 11, 0, 0, 0, ist),
		DurationMinutes: 60,
		AttendeeEmail:   "candidate@example.com",
		Timezone:        "Asia/Kolkata",
		JoinInfo:        "https://zoom.us/j/99 (passcode: pw)",
	}

	err = dispatcher.SendInterviewConfirmation(context.Background(), "candidate@example.com", "Backend Engineer", slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Backend Engineer",
		"Asia/Kolkata",
		"https://zoom.us/j/99 (passcode: pw)",
		"join 5 minutes early",
		"Sunday, 2 June 2024 at 11:00",
	} {
		if !strings.Contains(mailer.lastInstruction, want) {
			t.Fatalf("expected instruction to contain %q", want)
		}
	}
}

func TestSendInterviewConfirmationRequiresSlot(t *testing.T) {
	dispatcher := New(&stubMailer{}, zap.NewNop())

	if err := dispatcher.SendInterviewConfirmation(context.Background(), "a@b.c", "role", nil); err == nil {
		t.Fatal("expected error for nil slot")
	}
}

func TestSendSurfacesMailerError(t *testing.T) {
	wantErr := errors.New("transport rejected message")
	dispatcher := New(&stubMailer{err: wantErr}, zap.NewNop())

	err := dispatcher.SendSelectionConfirmation(context.Background(), "a@b.c", "role")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected mailer error, got %v", err)
	}
}
