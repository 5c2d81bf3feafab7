// Package notifier forwards time-log events to a Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"log"

	tele "gopkg.in/telebot.v3"

	"github.com/blogem/time-tracker/models"
)

// Sender is the part of *tele.Bot the notifier uses
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Subscriber is the part of the change feed the notifier reads
type Subscriber interface {
	Subscribe() (<-chan models.ChangeEvent, func())
}

// Runner runs sends off the feed goroutine
type Runner interface {
	Go(fn func(ctx context.Context) error) error
}

// Notifier posts one message per recorded time log
type Notifier struct {
	sender Sender
	chat   tele.ChatID
	runner Runner
}

// NewTelegramBot creates a bot for sending only; it never polls for updates
func NewTelegramBot(token string) (*tele.Bot, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// New creates a notifier sending to chatID
func New(sender Sender, chatID int64, runner Runner) *Notifier {
	return &Notifier{
		sender: sender,
		chat:   tele.ChatID(chatID),
		runner: runner,
	}
}

// Run forwards events until ctx is done or the feed closes
func (n *Notifier) Run(ctx context.Context, feed Subscriber) {
	events, cancel := feed.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			text, ok := Message(event)
			if !ok {
				continue
			}
			if err := n.runner.Go(func(ctx context.Context) error {
				return n.send(text)
			}); err != nil {
				log.Printf("Telegram notification dropped: %v", err)
			}
		}
	}
}

func (n *Notifier) send(text string) error {
	if _, err := n.sender.Send(n.chat, text); err != nil {
		log.Printf("Failed to send telegram notification: %v", err)
		return err
	}
	return nil
}

// Message renders the notification for event. Only time-log inserts
// produce one.
func Message(event models.ChangeEvent) (string, bool) {
	if event.Table != models.TableTimeLogs || event.Type != models.ChangeInsert {
		return "", false
	}

	var entry models.TimeLog
	switch record := event.Record.(type) {
	case models.TimeLog:
		entry = record
	case *models.TimeLog:
		entry = *record
	default:
		return "", false
	}

	return fmt.Sprintf("%s: %s at %s (%s)",
		entry.EmployeeName, entry.Type.Label(), entry.Timestamp, models.FormatDisplayDate(entry.Date)), true
}
