package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	// UrgencyNormal is the zero value, matching notify-send's default
	UrgencyNormal Urgency = iota
	UrgencyLow
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a notifier; a disabled one drops every notification
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		command: "notify-send",
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send argument list
func (n *Notifier) Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "todolist")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	cmd := exec.Command(n.command, n.Args(notification)...)
	return cmd.Run()
}

// SendTasksClosed reports the result of an overdue sweep
func (n *Notifier) SendTasksClosed(count int) error {
	body := "1 overdue task was closed"
	if count != 1 {
		body = fmt.Sprintf("%d overdue tasks were closed", count)
	}

	return n.Send(Notification{
		Title:   "Overdue tasks closed",
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}
