package notifier

import (
	"log/slog"
)

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ Notifier = SLogNotifier{}

func (s SLogNotifier) Notify(msg Message) {
	s.Logger.Info(msg.Title, "text", msg.Text)
}
