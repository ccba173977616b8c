package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return SendResult{}, errors.New("provider unavailable")
	}
	return SendResult{MessageID: "ok"}, nil
}

var validRequest = SendRequest{To: []string{"a@example.com"}, Subject: "hello"}

func TestRetryingSender_RecoversFromTransientFailure(t *testing.T) {
	flaky := &flakySender{failures: 2}
	s := NewRetryingSender(flaky, 3, time.Millisecond)

	res, err := s.Send(context.Background(), validRequest)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "ok" {
		t.Errorf("MessageID = %q", res.MessageID)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}
}

func TestRetryingSender_GivesUp(t *testing.T) {
	flaky := &flakySender{failures: 10}
	s := NewRetryingSender(flaky, 3, time.Millisecond)

	if _, err := s.Send(context.Background(), validRequest); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}
}

func TestNoopSender_RecordsSends(t *testing.T) {
	s := NewNoopSender()
	s.Send(context.Background(), SendRequest{To: []string{"a@example.com"}, Subject: "one"})
	s.Send(context.Background(), SendRequest{To: []string{"b@example.com"}, Subject: "two"})

	sent := s.Sent()
	if len(sent) != 2 || sent[1].Subject != "two" {
		t.Errorf("sent = %+v", sent)
	}
}

func TestRetryingSender_InvalidRequestNotRetried(t *testing.T) {
	flaky := &flakySender{}
	s := NewRetryingSender(flaky, 3, time.Millisecond)

	if _, err := s.Send(context.Background(), SendRequest{Subject: "hello"}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("err = %v, want ErrNoRecipients", err)
	}
	if flaky.calls != 0 {
		t.Errorf("calls = %d, want 0", flaky.calls)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("ana@example.com", "Ana & Ben", "https://planner.example.com/reset-password?token=a&b")
	if err := msg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(msg.To) != 1 || msg.To[0] != "ana@example.com" {
		t.Errorf("To = %v", msg.To)
	}
	for _, want := range []string{"Hi Ana &amp; Ben,", `href="https://planner.example.com/reset-password?token=a&amp;b"`} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q: %s", want, msg.HTML)
		}
	}
	if !strings.Contains(PasswordResetMessage("x@example.com", "", "l").HTML, "Hi there,") {
		t.Error("empty couple name should fall back to a generic greeting")
	}
}
