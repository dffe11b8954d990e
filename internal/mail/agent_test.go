package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubCompleter struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubTransport struct {
	err       error
	calls     int
	recipient string
	subject   string
	message   string
}

func (s *stubTransport) Send(_ context.Context, recipient, subject, message string) error {
	s.calls++
	s.recipient = recipient
	s.subject = subject
	s.message = message
	return s.err
}

func TestSendMailDeliversDraft(t *testing.T) {
	stub := &stubCompleter{response: `{"subject": "interview invitation", "message": "hello there"}`}
	transport := &stubTransport{}
	agent := NewAgent(stub, transport, "Acme", zap.NewNop())

	err := agent.SendMail(context.Background(), "Invite the candidate to interview", "candidate@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transport.calls != 1 {
		t.Fatalf("expected exactly one send, got %d", transport.calls)
	}
	if transport.recipient != "candidate@example.com" {
		t.Fatalf("unexpected recipient: %q", transport.recipient)
	}
	if transport.subject != "interview invitation" {
		t.Fatalf("unexpected subject: %q", transport.subject)
	}
	if transport.message != "hello there" {
		t.Fatalf("unexpected message: %q", transport.message)
	}

	for _, want := range []string{"Acme", "Invite the candidate to interview", "all lowercase"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected draft prompt to contain %q", want)
		}
	}
}

func TestSendMailHandlesFencedDraft(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"subject\": \"s\", \"message\": \"m\"}\n```"}
	transport := &stubTransport{}
	agent := NewAgent(stub, transport, "Acme", zap.NewNop())

	if err := agent.SendMail(context.Background(), "instruction", "a@b.c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.calls != 1 {
		t.Fatal("expected message to be sent")
	}
}

func TestSendMailRejectsBadDraft(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"not json", "here is your email"},
		{"missing subject", `{"message": "m"}`},
		{"missing message", `{"subject": "s"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &stubTransport{}
			agent := NewAgent(&stubCompleter{response: tc.response}, transport, "Acme", zap.NewNop())

			if err := agent.SendMail(context.Background(), "instruction", "a@b.c"); err == nil {
				t.Fatal("expected error for bad draft")
			}
			if transport.calls != 0 {
				t.Fatal("nothing should be sent when drafting fails")
			}
		})
	}
}

func TestSendMailSurfacesTransportError(t *testing.T) {
	wantErr := errors.New("smtp auth failed")
	agent := NewAgent(
		&stubCompleter{response: `{"subject": "s", "message": "m"}`},
		&stubTransport{err: wantErr},
		"Acme",
		zap.NewNop(),
	)

	err := agent.SendMail(context.Background(), "instruction", "a@b.c")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
