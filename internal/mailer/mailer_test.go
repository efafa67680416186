package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fincheck/internal/config"
	"fincheck/internal/finance"
)

func TestNew(t *testing.T) {
	log := zap.NewNop().Sugar()

	if _, ok := New(&config.Config{}, log).(*LogMailer); !ok {
		t.Error("expected LogMailer without SMTP host")
	}

	m, ok := New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", EmailFrom: "a@b.c"}, log).(*SMTPMailer)
	if !ok {
		t.Fatal("expected SMTPMailer with SMTP host")
	}
	if m.Addr != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", m.Addr)
	}
}

func TestSMTPMailerSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody string
	var gotAuth smtp.Auth

	m := &SMTPMailer{
		Addr:     "smtp.example.com:587",
		Host:     "smtp.example.com",
		Username: "user",
		Password: "pass",
		From:     "Fincheck <no-reply@fincheck.test>",
		sendMail: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotBody = addr, a, from, to, string(msg)
			return nil
		},
	}

	err := m.Send(context.Background(), Message{To: "jane@example.com", Subject: "Hello", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || gotFrom != "no-reply@fincheck.test" {
		t.Errorf("unexpected envelope %q from %q", gotAddr, gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "jane@example.com" {
		t.Errorf("unexpected recipients %v", gotTo)
	}
	if gotAuth == nil {
		t.Error("expected plain auth when username is set")
	}
	for _, want := range []string{"Subject: Hello", "Content-Type: text/html", "<p>hi</p>", "To: <jane@example.com>"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("expected body to contain %q, got:\n%s", want, gotBody)
		}
	}
}

func TestSMTPMailerSendErrors(t *testing.T) {
	failing := &SMTPMailer{
		From: "no-reply@fincheck.test",
		sendMail: func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		},
	}

	t.Run("bad_recipient", func(t *testing.T) {
		if err := failing.Send(context.Background(), Message{To: "not an address"}); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("relay_failure", func(t *testing.T) {
		err := failing.Send(context.Background(), Message{To: "jane@example.com"})
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected relay error, got %v", err)
		}
	})

	t.Run("context_canceled", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		slow := &SMTPMailer{
			From: "no-reply@fincheck.test",
			sendMail: func(string, smtp.Auth, string, []string, []byte) error {
				<-block
				return nil
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := slow.Send(ctx, Message{To: "jane@example.com"}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestLogMailer(t *testing.T) {
	if err := NewLogMailer(zap.NewNop().Sugar()).Send(context.Background(), Message{To: "x@y.z"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWelcomeMessage(t *testing.T) {
	msg, err := WelcomeMessage("jane@example.com", "<Jane>", "https://app.fincheck.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.To != "jane@example.com" || msg.Subject != "Welcome to Fincheck" {
		t.Errorf("unexpected message header %+v", msg)
	}
	if strings.Contains(msg.HTML, "<Jane>") || !strings.Contains(msg.HTML, "&lt;Jane&gt;") {
		t.Error("expected name to be HTML-escaped")
	}
	if !strings.Contains(msg.HTML, "https://app.fincheck.test") {
		t.Error("expected app link in body")
	}
}

func TestWeeklySummaryMessage(t *testing.T) {
	report := finance.WeeklyReport{
		Email:          "jane@example.com",
		Currency:       "USD",
		WeekStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC),
		TotalIncome:    decimal.RequireFromString("4000"),
		TotalExpenses:  decimal.RequireFromString("312.5"),
		PercentUsed:    decimal.RequireFromString("41.2"),
		ComparisonText: "120% ↑ vs previous week",
	}

	msg, err := WeeklySummaryMessage(report, "https://app.fincheck.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Subject != "Your Fincheck week: Mar 2" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"$4000.00", "$312.50", "41.2%", "120% ↑ vs previous week", "Mar 2 to Mar 8, 2026", "jane@example.com"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}
