// Package notifier informs the user when the battery goes offline, comes back online or changes mode.
package notifier

type Notifier interface {
	Notify(Message)
}

// Message is a single notification.
type Message struct {
	Title string
	Text  string
	// Color of the message, as used by Slack attachments: good, warning or danger.
	Color string
}

type Notifiers []Notifier

func (n Notifiers) Notify(msg Message) {
	for _, l := range n {
		l.Notify(msg)
	}
}
