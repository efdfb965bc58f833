package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/pkg/mailer/templates"
)

type captureSender struct {
	to, subject, text, html string
}

func (c *captureSender) Send(_ context.Context, to, subject, text, html string) error {
	c.to, c.subject, c.text, c.html = to, subject, text, html
	return nil
}

func TestDeliver_RendersTemplate(t *testing.T) {
	s := &captureSender{}
	job := EmailJob{
		To:       "ada@example.com",
		Template: templates.Welcome,
		Data:     map[string]any{"Name": "Ada", "AppName": "Bookshelf"},
	}
	require.NoError(t, Deliver(context.Background(), s, job))
	assert.Equal(t, "ada@example.com", s.to)
	assert.Equal(t, "Welcome to Bookshelf", s.subject)
	assert.Contains(t, s.text, "ada@example.com")
}

func TestDeliver_PreRendered(t *testing.T) {
	s := &captureSender{}
	job := EmailJob{To: "ada@example.com", Subject: "hi", Text: "plain"}
	require.NoError(t, Deliver(context.Background(), s, job))
	assert.Equal(t, "hi", s.subject)
	assert.Equal(t, "plain", s.text)
}
