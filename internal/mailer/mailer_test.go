package mailer

import (
	"strings"
	"testing"
)

func TestRenderSubjects(t *testing.T) {
	tests := map[string]string{
		TemplateWelcome:       "MRW: Welcome",
		TemplatePasswordReset: "MRW: Password Recovery",
		TemplateContactAck:    "MRW: Your Message",
		TemplateContactAdmin:  "MRW: A New Message on The Website",
		TemplateSubscribed:    "MRW: You've Been Added To the Mailing List",
	}
	data := map[string]any{
		"FullName": "Ada", "Password": "aB3xY9",
		"Email": "ada@example.com", "Content": "hi", "PhoneNumber": "", "Subject": "",
	}
	for file, want := range tests {
		t.Run(file, func(t *testing.T) {
			r, err := Render(file, data)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if r.Subject != want {
				t.Errorf("Subject = %q, want %q", r.Subject, want)
			}
			if r.PlainBody == "" || r.HTMLBody == "" {
				t.Error("empty body")
			}
		})
	}
}

func TestRenderPasswordResetIncludesPassword(t *testing.T) {
	r, err := Render(TemplatePasswordReset, map[string]any{"FullName": "Ada", "Password": "aB3xY9"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r.PlainBody, "aB3xY9") || !strings.Contains(r.HTMLBody, "<b>aB3xY9</b>") {
		t.Errorf("password missing: %+v", r)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	r, err := Render(TemplateContactAdmin, map[string]any{"Email": "x@example.com", "Content": "<script>alert(1)</script>"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(r.HTMLBody, "<script>") {
		t.Errorf("html body not escaped: %s", r.HTMLBody)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("missing.tmpl", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
