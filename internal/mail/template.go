package mail

import (
	"html/template"
	"strings"
	"time"
)

const verificationSubject = "Verify Your True Home Account"

// Verification email body carried over from the original True Home mailer.
var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .code-box { background: white; border: 2px dashed #667eea; padding: 20px; text-align: center; margin: 20px 0; border-radius: 8px; }
    .code { font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #667eea; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 12px; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🏠 True Home</h1>
      <p>Welcome to Your New Home Journey</p>
    </div>
    <div class="content">
      <h2>Verify Your Email Address</h2>
      <p>Thank you for registering with True Home! To complete your registration, please enter the verification code below:</p>

      <div class="code-box">
        <p style="margin: 0; color: #666;">Your Verification Code</p>
        <div class="code">{{.Code}}</div>
      </div>

      <div class="warning">
        <strong>⚠️ Important:</strong> This code will expire in 10 minutes. Please verify your account promptly.
      </div>

      <p>If you didn't create an account with True Home, please ignore this email.</p>

      <div class="footer">
        <p>© {{.Year}} True Home. All rights reserved.</p>
        <p>Find your dream home with us!</p>
      </div>
    </div>
  </div>
</body>
</html>`))

// NewVerificationMessage renders the verification mail for a code.
func NewVerificationMessage(to, code string) (Message, error) {
	var b strings.Builder

	err := verificationTmpl.Execute(&b, struct {
		Code string
		Year int
	}{
		Code: code,
		Year: time.Now().Year(),
	})

	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       to,
		Subject:  verificationSubject,
		HTMLBody: b.String(),
	}, nil
}
