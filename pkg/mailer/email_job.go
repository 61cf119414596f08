package mailer

import (
	"errors"

	"github.com/oksasatya/go-ecommerce-backend/pkg/mailer/templates"
)

// Template names understood by the worker.
const (
	TemplateWelcome      = "welcome"
	TemplateOrderCreated = "order_created"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Attempt  int            `json:"attempt,omitempty"`
}

// Retry returns the job for its next delivery, or false once maxAttempts
// deliveries have failed.
func (j EmailJob) Retry(maxAttempts int) (EmailJob, bool) {
	if j.Attempt+1 >= maxAttempts {
		return j, false
	}
	j.Attempt++
	return j, true
}

var ErrEmptyEmail = errors.New("email job has no recipient or body")

// Compose resolves the subject and bodies of job, rendering its template if set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", ErrEmptyEmail
	}
	if job.Template != "" {
		subject, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return "", "", "", err
		}
		if job.Subject != "" {
			subject = job.Subject
		}
		text = job.Text
		if text == "" {
			text = subject
		}
		return subject, text, html, nil
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", ErrEmptyEmail
	}
	return job.Subject, job.Text, job.HTML, nil
}
