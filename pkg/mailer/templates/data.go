package templates

import "time"

const stampLayout = "02 January 2006, 15:04"

// EmailData is what every account email template may reference.
type EmailData struct {
	Name    string
	Email   string
	AppName string
	AppURL  string

	ResetURL      string
	ExpiresAtText string

	OldEmail string
	NewEmail string
	Time     string
}

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format(stampLayout) }
}

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) { d.ExpiresAtText = t.UTC().Format(stampLayout) }
}

func WithEmailChange(oldEmail, newEmail string) Option {
	return func(d *EmailData) {
		d.OldEmail = oldEmail
		d.NewEmail = newEmail
	}
}

// NewBaseEmailData fills the account fields, then applies opts.
func NewBaseEmailData(appName, appURL, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName, AppURL: appURL}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// ToMap flattens d into the EmailJob.Data shape. Every key is present so templates never see a missing field.
func ToMap(d EmailData) map[string]any {
	return map[string]any{
		"Name":          d.Name,
		"Email":         d.Email,
		"AppName":       d.AppName,
		"AppURL":        d.AppURL,
		"ResetURL":      d.ResetURL,
		"ExpiresAtText": d.ExpiresAtText,
		"OldEmail":      d.OldEmail,
		"NewEmail":      d.NewEmail,
		"Time":          d.Time,
	}
}

// Complete adds every EmailData key missing from m as "". Jobs from older publishers render the same way.
func Complete(m map[string]any) map[string]any {
	out := ToMap(EmailData{})
	for k, v := range m {
		out[k] = v
	}
	return out
}
