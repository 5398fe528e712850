package utils

import (
	"fmt"
	"log"
	"net/http"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail(config.AppConfig.EmailName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("[EMAIL] SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}
	return nil
}

// SendEnrollmentConfirmation mails a student after a confirmed purchase
func SendEnrollmentConfirmation(email, name, courseTitle, planType string) error {
	subject := fmt.Sprintf("You're enrolled in %s", courseTitle)
	body := getEmailTemplate("Enrollment Confirmed", fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your payment went through and you're now enrolled in <b>%s</b> on the <b>%s</b> plan.</p>
		<p>Head over to <i>My Enrollments</i> to start learning.</p>
	`, name, courseTitle, planType))
	return SendEmail(email, name, subject, body)
}

// SendUpgradeConfirmation mails a student after a premium upgrade
func SendUpgradeConfirmation(email, name, courseTitle string) error {
	subject := fmt.Sprintf("Premium unlocked for %s", courseTitle)
	body := getEmailTemplate("Premium Upgrade Confirmed", fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your upgrade payment went through. <b>%s</b> is now on the <b>premium</b> plan:
		all premium lessons, 1-on-1 mentorship and code reviews are unlocked.</p>
	`, name, courseTitle))
	return SendEmail(email, name, subject, body)
}

// getEmailTemplate wraps body content in the shared HTML shell
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A40; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A40; line-height: 1.6; }
			.content h2 { color: #1A1A40; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				%s &middot; This is an automated message, please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent, config.AppConfig.EmailName)
}
