package mailer

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildRegistrationEmail(t *testing.T) {
	e := BuildRegistrationEmail(RegistrationEmailData{
		SiteName:     "EventHub",
		AttendeeName: "Ada",
		EventTitle:   "Go <Meetup>",
		EventDate:    "Monday, March 3, 2025",
		EventTime:    "18:30",
		Location:     "Main Hall",
	})

	if e.Subject != "Registration confirmed: Go <Meetup>" {
		t.Errorf("Subject = %q", e.Subject)
	}
	for _, want := range []string{"Ada", "Go <Meetup>", "Monday, March 3, 2025", "18:30", "Main Hall"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if !strings.Contains(e.HTMLBody, "Go &lt;Meetup&gt;") {
		t.Error("HTML body should escape the title")
	}
	if strings.Contains(e.HTMLBody, "<Meetup>") {
		t.Error("HTML body contains unescaped markup")
	}
}

func TestCompose(t *testing.T) {
	m := New(Config{Host: "localhost", Port: 1025, From: "noreply@eventhub.test", FromName: "EventHub"}, zap.NewNop())

	tests := []struct {
		name      string
		email     Email
		wantParts []string
	}{
		{
			name:      "text only",
			email:     Email{To: "a@example.com", Subject: "Hi", TextBody: "hello"},
			wantParts: []string{"To: a@example.com", `Content-Type: text/plain; charset="utf-8"`, "hello"},
		},
		{
			name:      "multipart",
			email:     Email{To: "a@example.com", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>rich</p>"},
			wantParts: []string{"multipart/alternative; boundary=", "plain", "<p>rich</p>", "text/html"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := m.compose(tt.email)
			if err != nil {
				t.Fatalf("compose: %v", err)
			}
			msg := string(raw)
			for _, want := range append(tt.wantParts, "From: \"EventHub\" <noreply@eventhub.test>", "Message-ID: <", "@eventhub.test>") {
				if !strings.Contains(msg, want) {
					t.Errorf("message missing %q:\n%s", want, msg)
				}
			}
		})
	}
}

func TestSend_EmptyRecipient(t *testing.T) {
	m := New(Config{Host: "localhost", Port: 1025}, zap.NewNop())
	if err := m.Send(context.Background(), Email{Subject: "x"}); err == nil {
		t.Error("expected error for empty recipient")
	}
}
