package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var (
	layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background:#f3f4f6;">
  <div style="padding:32px;">
    <div style="max-width:600px;margin:auto;background:#fff;border-radius:8px;padding:32px;">
      <div style="font-size:16px;color:#111827;">{{.Content}}</div>
      <div style="margin-top:32px;text-align:center;color:#9ca3af;font-size:12px;">&copy; {{.Year}} Course Marketplace</div>
    </div>
  </div>
</body>
</html>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<h2 style="margin-top:0;">Reset your password</h2>
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Use the code below on the reset page:</p>
<p style="text-align:center;font-size:28px;letter-spacing:6px;font-weight:bold;margin:24px 0;">{{.Code}}</p>
{{if .ResetURL}}<p style="text-align:center;"><a href="{{.ResetURL}}" style="background:#2563eb;color:#fff;padding:12px 24px;text-decoration:none;border-radius:6px;">Reset Password</a></p>{{end}}
<p style="color:#6b7280;">If you did not request this, ignore this email. Your password will not change.</p>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(`<h2 style="margin-top:0;">Welcome, {{.Name}}!</h2>
<p>Your account is ready. Browse the catalog and enroll in your first course.</p>`))
)

func renderLayout(content string) (string, error) {
	var buf bytes.Buffer
	err := layoutTmpl.Execute(&buf, map[string]interface{}{
		"Content": template.HTML(content),
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render layout: %w", err)
	}
	return buf.String(), nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// ResetCodeMessage builds the password reset email carrying code.
func ResetCodeMessage(to, name, code, frontendURL string) (Message, error) {
	resetURL := ""
	if frontendURL != "" {
		resetURL = frontendURL + "/reset-password"
	}

	html, err := render(resetTmpl, map[string]string{"Name": name, "Code": code, "ResetURL": resetURL})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "Reset Password",
		HTML:    html,
		Text:    fmt.Sprintf("Your password reset code is %s", code),
	}, nil
}

// WelcomeMessage builds the registration greeting.
func WelcomeMessage(to, name string) (Message, error) {
	html, err := render(welcomeTmpl, map[string]string{"Name": name})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Welcome to Course Marketplace",
		HTML:    html,
		Text:    fmt.Sprintf("Hello %s, welcome to Course Marketplace!", name),
	}, nil
}

// TestMessage is used by the non-production test endpoint.
func TestMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Test email",
		HTML:    "<p>This is a test email. SMTP delivery works.</p>",
		Text:    "This is a test email. SMTP delivery works.",
	}
}
