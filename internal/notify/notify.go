// Package notify formats reminder notifications and hands them to a transport.
package notify

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/pathakanu/remindmail/internal/model"
	"github.com/sirupsen/logrus"
)

// Subject is used for every reminder notification.
const Subject = "Reminder: it's time!"

// Message is one outbound notification.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Transport delivers a prepared message. Implementations make exactly one attempt.
type Transport interface {
	Channel() model.Channel
	Send(ctx context.Context, msg Message) error
}

// Dispatcher renders reminder messages and reports delivery as a boolean.
type Dispatcher struct {
	transport Transport
	logger    logrus.FieldLogger
}

func NewDispatcher(transport Transport, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{transport: transport, logger: logger}
}

// Channel reports which user address the dispatcher delivers to.
func (d *Dispatcher) Channel() model.Channel {
	return d.transport.Channel()
}

// SendReminder makes one delivery attempt and returns true when the transport accepted the message.
// Transport errors are logged, never returned.
func (d *Dispatcher) SendReminder(ctx context.Context, address, displayName, targetTime, label string) bool {
	msg, err := Render(address, displayName, targetTime, label)
	if err != nil {
		d.logger.WithError(err).WithField("to", address).Error("notify: render reminder")
		return false
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"to":      address,
			"channel": d.transport.Channel(),
		}).Warn("notify: send reminder failed")
		return false
	}

	d.logger.WithFields(logrus.Fields{
		"to":      address,
		"channel": d.transport.Channel(),
	}).Info("notify: reminder sent")
	return true
}

type content struct {
	Name  string
	Time  string
	Label string
}

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<div style="font-family: sans-serif;">
<h2>Hi {{.Name}},</h2>
<p>This is your reminder scheduled for <strong>{{.Time}}</strong>.</p>
{{- if .Label}}
<p>{{.Label}}</p>
{{- end}}
<p style="color: #888;">You are receiving this because you set up a recurring reminder.</p>
</div>`))

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`Hi {{.Name}},

This is your reminder scheduled for {{.Time}}.
{{- if .Label}}

{{.Label}}
{{- end}}
`))

// Render builds the message for one reminder. An empty displayName falls back to model.DefaultDisplayName.
func Render(address, displayName, targetTime, label string) (Message, error) {
	if strings.TrimSpace(address) == "" {
		return Message{}, fmt.Errorf("recipient address is empty")
	}

	data := content{
		Name:  strings.TrimSpace(displayName),
		Time:  targetTime,
		Label: strings.TrimSpace(label),
	}
	if data.Name == "" {
		data.Name = model.DefaultDisplayName
	}

	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}
	if err := textBody.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}

	return Message{
		To:       address,
		Subject:  Subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
