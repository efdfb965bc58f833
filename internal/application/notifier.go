package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/pkg/mailer"
	tpl "github.com/oksasatya/bookshelf/pkg/mailer/templates"
)

// JobPublisher enqueues a JSON job; *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier enqueues account emails. A nil Notifier, or one without a publisher, does nothing.
type Notifier struct {
	pub     JobPublisher
	appName string
	appURL  string
	logger  *logrus.Logger
	now     func() time.Time
}

func NewNotifier(pub JobPublisher, appName, appURL string, logger *logrus.Logger) *Notifier {
	return &Notifier{pub: pub, appName: appName, appURL: appURL, logger: logger, now: time.Now}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if !n.enabled() {
		return
	}
	n.publish(ctx, u.Email, tpl.Welcome, n.data(u))
}

func (n *Notifier) PasswordChanged(ctx context.Context, u *entity.User) {
	if !n.enabled() {
		return
	}
	n.publish(ctx, u.Email, tpl.PasswordChanged, n.data(u, tpl.WithTime(n.now())))
}

// EmailChanged goes to the previous address so a hijacked account is noticed.
func (n *Notifier) EmailChanged(ctx context.Context, u *entity.User, oldEmail string) {
	if !n.enabled() {
		return
	}
	n.publish(ctx, oldEmail, tpl.EmailChanged, n.data(u, tpl.WithEmailChange(oldEmail, u.Email), tpl.WithTime(n.now())))
}

func (n *Notifier) ResetLink(ctx context.Context, u *entity.User, link string, expires time.Time) {
	if !n.enabled() {
		return
	}
	n.publish(ctx, u.Email, tpl.ResetPassword, n.data(u, tpl.WithResetURL(link), tpl.WithExpiresAt(expires)))
}

func (n *Notifier) data(u *entity.User, opts ...tpl.Option) map[string]any {
	return tpl.ToMap(tpl.NewBaseEmailData(n.appName, n.appURL, u.Name, u.Email, opts...))
}

func (n *Notifier) enabled() bool { return n != nil && n.pub != nil }

func (n *Notifier) publish(ctx context.Context, to, template string, data map[string]any) {
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := n.pub.PublishJSON(ctx, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithField("template", template).Warn("enqueue email failed")
	}
}
