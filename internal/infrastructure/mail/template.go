// Package mail contains the OTP email providers: console, SMTP and SendGrid.
package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

const otpSubject = "EducTrack - Your Login Code"

var otpHTML = htmltemplate.Must(htmltemplate.New("otp.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">EducTrack Login Code</h2>
  <p>Hello,</p>
  <p>Your login code for EducTrack is:</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 4px; margin: 20px 0;">{{.Code}}</div>
  <p>This code will expire in {{.Minutes}} minutes. If you didn't request this code, please ignore this email.</p>
  <p>Role: {{.Role}}</p>
  <p>Best regards,<br>EducTrack Team</p>
</div>
`))

var otpText = texttemplate.Must(texttemplate.New("otp.txt").Parse(`Hello,

Your login code for EducTrack is: {{.Code}}

This code will expire in {{.Minutes}} minutes. If you didn't request this code, please ignore this email.

Role: {{.Role}}

Best regards,
EducTrack Team
`))

// Message is a rendered OTP email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type otpData struct {
	Code    string
	Role    string
	Minutes int
}

// RenderOTP builds the login code email. validity is shown rounded down to
// whole minutes, never below one.
func RenderOTP(to, code, role string, validity time.Duration) (Message, error) {
	data := otpData{Code: code, Role: role, Minutes: int(validity / time.Minute)}
	if data.Minutes < 1 {
		data.Minutes = 1
	}

	var html, text bytes.Buffer
	if err := otpHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render otp html: %w", err)
	}
	if err := otpText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render otp text: %w", err)
	}

	return Message{
		To:      to,
		Subject: otpSubject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
