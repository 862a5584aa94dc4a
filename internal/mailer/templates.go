package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Contact is the part of a contact-form submission that goes into mail.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
	SentAt  time.Time
}

var lagos = time.FixedZone("WAT", 60*60)

var contactHTML = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #333;">
<h2>New Contact Form Submission</h2>
<p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Submitted:</strong> {{.Submitted}} (WAT)</p>
<p style="white-space: pre-wrap;">{{.Message}}</p>
<hr><p>You can reply directly to this email to respond to the sender.</p>
</body></html>`))

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #333;">
<h2>Message Received</h2>
<p>Dear {{.Name}},</p>
<p>We have received your message with the subject: <strong>"{{.Subject}}"</strong></p>
<p>Our support team will review your message and get back to you within 24 hours during business days.</p>
<p>Thank you for using PricePulse!</p>
<hr><p>This is an automated response. Please do not reply to this email.</p>
</body></html>`))

// ContactNotification is the mail sent to the support inbox for a new
// submission. Replies go straight to the sender.
func ContactNotification(supportAddr string, c Contact) Message {
	submitted := c.SentAt.In(lagos).Format("02 Jan 2006 15:04")
	text := fmt.Sprintf(`New Contact Form Submission from PricePulse

From: %s (%s)
Subject: %s
Submitted: %s (WAT)

Message:
%s

---
This message was sent through the PricePulse contact form.
You can reply directly to this email to respond to the sender.
`, c.Name, c.Email, c.Subject, submitted, c.Message)

	return Message{
		To:      supportAddr,
		ReplyTo: c.Email,
		Subject: "[PricePulse Contact] " + c.Subject,
		Text:    text,
		HTML: render(contactHTML, map[string]string{
			"Name":      c.Name,
			"Email":     c.Email,
			"Subject":   c.Subject,
			"Submitted": submitted,
			"Message":   c.Message,
		}),
	}
}

// ContactConfirmation acknowledges a submission to its sender.
func ContactConfirmation(c Contact) Message {
	text := fmt.Sprintf(`Dear %s,

Thank you for contacting PricePulse!

We have received your message with the subject: "%s"

Our support team will review your message and get back to you within 24 hours during business days.

Thank you for using PricePulse!

---
This is an automated response. Please do not reply to this email.
PricePulse - Transparent Market Prices
`, c.Name, c.Subject)

	return Message{
		To:      c.Email,
		Subject: "Thank you for contacting PricePulse - We've received your message",
		Text:    text,
		HTML:    render(confirmationHTML, map[string]string{"Name": c.Name, "Subject": c.Subject}),
	}
}

func render(t *template.Template, data map[string]string) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
