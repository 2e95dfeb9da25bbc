package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@hosteldesk.app"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendFeeReminderEmail sends a fee reminder to one resident
func (e *EmailService) SendFeeReminderEmail(toEmail, residentName, title, message string, dueDate time.Time) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Fee reminder for %s dropped", toEmail)
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("%s - Hostel Desk", title)
	body := e.buildFeeReminderBody(residentName, title, message, dueDate)

	return e.sendEmail(toEmail, subject, body)
}

// SendCredentialsEmail delivers a generated login to an approved resident
func (e *EmailService) SendCredentialsEmail(toEmail, residentName, hostelID, username, password string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Credentials for %s dropped", toEmail)
		return fmt.Errorf("SMTP not configured")
	}

	subject := "Your Hostel Account - Hostel Desk"
	body := e.buildCredentialsBody(residentName, hostelID, username, password)

	return e.sendEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset email to a panel user
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, resetToken)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.appURL, resetToken)
	if userName == "" {
		userName = "User"
	}

	subject := "Reset Your Password - Hostel Desk"
	body := e.wrapBody("Reset Your Password", fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>We received a request to reset the password for your Hostel Desk account. Click the button below to create a new password:</p>
        <p style="text-align: center;">
            <a href="%s" class="button">Reset Password</a>
        </p>
        <p>If the button doesn't work, copy and paste this link into your browser:</p>
        <div class="link-text">%s</div>
        <div class="warning">
            <strong>Important:</strong> This link will expire in 1 hour. If you didn't request a password reset, please ignore this email.
        </div>`, userName, resetLink, resetLink))

	return e.sendEmail(toEmail, subject, body)
}

// buildFeeReminderBody creates the HTML email body for a fee reminder
func (e *EmailService) buildFeeReminderBody(residentName, title, message string, dueDate time.Time) string {
	if residentName == "" {
		residentName = "Resident"
	}

	return e.wrapBody(title, fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>%s</p>
        <div class="warning">
            <strong>Due date:</strong> %s
        </div>
        <p>Please clear your dues at the hostel office or through the resident portal before the due date.</p>`,
		residentName, message, dueDate.Format("02 January 2006")))
}

// buildCredentialsBody creates the HTML email body for credential delivery
func (e *EmailService) buildCredentialsBody(residentName, hostelID, username, password string) string {
	if residentName == "" {
		residentName = "Resident"
	}

	return e.wrapBody("Welcome to the Hostel", fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>Your hostel registration has been approved. Your details:</p>
        <div class="link-text">
            Hostel ID: <strong>%s</strong><br>
            Username: <strong>%s</strong><br>
            Password: <strong>%s</strong>
        </div>
        <div class="warning">
            <strong>Important:</strong> Please change your password after your first login.
        </div>`, residentName, hostelID, username, password))
}

// wrapBody wraps content in the shared HTML email chrome
func (e *EmailService) wrapBody(heading, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Hostel Desk</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #1a3c5e;
        }
        .logo h1 {
            color: #1a3c5e;
            font-size: 28px;
            margin: 0;
            letter-spacing: -0.5px;
        }
        h2 {
            color: #1a3c5e;
            margin-top: 0;
        }
        .button {
            display: inline-block;
            background-color: #1a3c5e;
            color: #ffffff !important;
            padding: 14px 28px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            margin: 20px 0;
        }
        .link-text {
            word-break: break-all;
            color: #666;
            font-size: 13px;
            background-color: #f5f5f5;
            padding: 10px;
            border-radius: 4px;
            margin-top: 15px;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
        .warning {
            background-color: #fff3cd;
            border: 1px solid #ffc107;
            border-radius: 4px;
            padding: 12px;
            margin-top: 20px;
            font-size: 13px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>Hostel Desk</h1>
        </div>

        <h2>%s</h2>
        %s

        <div class="footer">
            <p><strong>Hostel Desk</strong></p>
            <p>This is an automated message from the hostel office.</p>
        </div>
    </div>
</body>
</html>`, heading, heading, content)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	// Build the email message with proper headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("Hostel Desk <%s>", e.from)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write([]byte(message.String()))
	if err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent to: %s", to)
	return nil
}
