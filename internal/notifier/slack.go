package notifier

import (
	"log/slog"

	"github.com/slack-go/slack"
)

// SlackNotifier posts messages to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Logger     *slog.Logger
}

var _ Notifier = SlackNotifier{}

func (s SlackNotifier) Notify(msg Message) {
	s.Logger.Debug("notifying on slack", "title", msg.Title)
	err := slack.PostWebhook(s.WebhookURL, &slack.WebhookMessage{
		Attachments: []slack.Attachment{{
			Color: msg.Color,
			Title: msg.Title,
			Text:  msg.Text,
		}},
	})
	if err != nil {
		s.Logger.Error("notifier failed to post message", "err", err)
	}
}
