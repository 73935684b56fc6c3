// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	SiteName     string
	AttendeeName string
	EventTitle   string
	EventDate    string // e.g., "Monday, March 3, 2025"
	EventTime    string // "HH:MM"
	Location     string
}

// BuildRegistrationEmail creates a registration confirmation with both HTML
// and text bodies.
func BuildRegistrationEmail(data RegistrationEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Registration confirmed: %s", data.EventTitle),
		TextBody: buildRegistrationText(data),
		HTMLBody: buildRegistrationHTML(data),
	}
}

func buildRegistrationText(data RegistrationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.AttendeeName)
	fmt.Fprintf(&buf, "You're registered for %s.\n\n", data.EventTitle)
	fmt.Fprintf(&buf, "Date: %s\n", data.EventDate)
	fmt.Fprintf(&buf, "Time: %s\n", data.EventTime)
	fmt.Fprintf(&buf, "Location: %s\n\n", data.Location)
	fmt.Fprintf(&buf, "See you there!\n%s\n", data.SiteName)
	return buf.String()
}

var registrationTmpl = template.Must(template.New("registration").Parse(registrationHTMLTemplate))

func buildRegistrationHTML(data RegistrationEmailData) string {
	var buf bytes.Buffer
	_ = registrationTmpl.Execute(&buf, data)
	return buf.String()
}

const registrationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Registration Confirmed</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.AttendeeName}},</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">You're registered for <strong>{{.EventTitle}}</strong>.</p>
              <table role="presentation" cellspacing="0" cellpadding="4" style="font-size: 14px; color: #1f2937;">
                <tr><td style="color: #6b7280;">Date</td><td>{{.EventDate}}</td></tr>
                <tr><td style="color: #6b7280;">Time</td><td>{{.EventTime}}</td></tr>
                <tr><td style="color: #6b7280;">Location</td><td>{{.Location}}</td></tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You received this email because you registered for an event.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
