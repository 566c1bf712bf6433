package utils

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	return html.EscapeString(strings.Fields(name)[0])
}

func sendAsync(to, subject, body, kind string) {
	go func() {
		if err := SendEmail(to, subject, body); err != nil {
			log.Printf("Failed to send %s email to %s: %v", kind, to, err)
		}
	}()
}

func orderConfirmationBody(name, orderNumber, total string) string {
	return fmt.Sprintf(`<h2>Thank you for your order!</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> has been placed successfully.</p>
<p>Order total: <strong>%s</strong></p>
<p>We'll let you know as soon as it ships.</p>
<p>SOS GOG</p>`, firstName(name), html.EscapeString(orderNumber), html.EscapeString(total))
}

func orderStatusBody(name, orderNumber, status string) string {
	return fmt.Sprintf(`<h2>Order Status Update</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>
<p>SOS GOG</p>`, firstName(name), html.EscapeString(orderNumber), html.EscapeString(status))
}

func applicationReceivedBody(name, businessName string) string {
	return fmt.Sprintf(`<h2>Application received</h2>
<p>Hi %s,</p>
<p>Thank you for applying to showcase <strong>%s</strong> with SOS GOG.</p>
<p>Our team reviews every application and will contact you with next steps.</p>
<p>SOS GOG</p>`, firstName(name), html.EscapeString(businessName))
}

func applicationDecisionBody(name, businessName, status string) string {
	return fmt.Sprintf(`<h2>Your application has been %s</h2>
<p>Hi %s,</p>
<p>The application for <strong>%s</strong> has been %s.</p>
<p>SOS GOG</p>`, html.EscapeString(status), firstName(name), html.EscapeString(businessName), html.EscapeString(status))
}

// SendOrderConfirmation mails the shopper in the background. total is the
// already formatted amount.
func SendOrderConfirmation(email, name, orderNumber, total string) {
	sendAsync(email, fmt.Sprintf("Order Confirmed - %s", orderNumber), orderConfirmationBody(name, orderNumber, total), "order confirmation")
}

func SendOrderStatusUpdate(email, name, orderNumber, status string) {
	sendAsync(email, fmt.Sprintf("Order %s - Status Update", orderNumber), orderStatusBody(name, orderNumber, status), "status update")
}

func SendApplicationReceived(email, name, businessName string) {
	sendAsync(email, "We received your designer application", applicationReceivedBody(name, businessName), "application received")
}

func SendApplicationDecision(email, name, businessName, status string) {
	sendAsync(email, fmt.Sprintf("Your designer application has been %s", status), applicationDecisionBody(name, businessName, status), "application decision")
}
