package mailer

import (
	"context"

	"github.com/oksasatya/bookshelf/pkg/mailer/templates"
)

// Deliver renders job (when it names a template) and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	job.EnsureRecipient()
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, templates.Complete(job.Data))
		if err != nil {
			return err
		}
	}
	return s.Send(ctx, job.To, subject, text, html)
}
