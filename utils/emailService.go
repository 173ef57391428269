package utils

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"time"

	"learnit/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML message through SendGrid. Without an API key the
// message is only logged.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendgridKey == "" {
		log.Printf("[EMAIL] to=%s subject=%q (SENDGRID_API_KEY not set, not sent)", toEmail, subject)
		return nil
	}

	from := sgmail.NewEmail(cfg.EmailSenderName, cfg.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, "["+cfg.EmailSenderName+"] "+subject, to, "", htmlBody)

	resp, err := sendgrid.NewSendClient(cfg.SendgridKey).Send(message)
	if err != nil {
		LogError("send email to "+toEmail, err)
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
		LogError("send email to "+toEmail, err)
		return err
	}

	log.Printf("[EMAIL] sent %q to %s", subject, toEmail)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #111827; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2563EB; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LearnIt</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d LearnIt. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent, time.Now().Year())
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnIt</strong>! Your account has been created.</p>
		<p>Browse the catalogue and enroll in your first course.</p>
	`, html.EscapeString(name))

	go SendEmail(email, name, "Welcome to LearnIt", getEmailTemplate("Welcome Onboard!", body))
}

func SendCertificateEmail(email, name, courseTitle, certificateURL string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<p><a class="btn" href="%s">Download your certificate</a></p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(certificateURL))

	go SendEmail(email, name, "Your certificate for "+courseTitle, getEmailTemplate("Course Completed", body))
}

func SendSubscriptionEmail(email, name, planName string, expiresAt time.Time) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your <strong>%s</strong> subscription is active until %s.</p>
		<p>All premium courses are now open to you.</p>
	`, html.EscapeString(name), html.EscapeString(planName), expiresAt.Format("January 2, 2006"))

	go SendEmail(email, name, "Subscription Confirmed: "+planName, getEmailTemplate("Subscription Successful", body))
}

func SendSubscriptionExpiryReminder(email, name, planName string, expiresAt *time.Time) {
	when := "soon"
	if expiresAt != nil {
		when = "on " + expiresAt.Format("January 2, 2006")
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your <strong>%s</strong> subscription expires %s.</p>
		<p>Renew it to keep access to premium courses.</p>
	`, html.EscapeString(name), html.EscapeString(planName), when)

	go SendEmail(email, name, "Your subscription is about to expire", getEmailTemplate("Subscription Expiring", body))
}

func SendSupportReplyEmail(email, name, ticketTitle, reply string) {
	go SendEmail(email, name, "Re: "+ticketTitle, supportReplyEmail(name, ticketTitle, reply))
}

// supportReplyEmail renders the reply notice; user text is escaped
func supportReplyEmail(name, ticketTitle, reply string) string {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Our support team replied to your ticket <strong>%s</strong>:</p>
		<blockquote>%s</blockquote>
	`, html.EscapeString(name), html.EscapeString(ticketTitle), html.EscapeString(reply))

	return getEmailTemplate("Support Reply", body)
}

func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Complete every lesson to earn your certificate.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	go SendEmail(email, name, "Enrollment Confirmed: "+courseTitle, getEmailTemplate("Enrollment Successful", body))
}
