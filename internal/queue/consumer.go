package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Consumer drains the booking.confirmed queue.  Each event is appended as
// one line to <dir>/booking.log and, when a mailer is set and the event
// carries an address, mailed to the customer.
type Consumer struct {
	url    string
	dir    string
	mailer MailSender
	log    *zap.Logger

	fileMu sync.Mutex
}

func NewConsumer(url, dir string, mailer MailSender, log *zap.Logger) *Consumer {
	if dir == "" {
		dir = "logs"
	}
	return &Consumer{url: url, dir: dir, mailer: mailer, log: log}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := declareBookingQueue(ch); err != nil {
		return err
	}
	msgs, err := ch.ConsumeWithContext(ctx, BookingQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(d.Body); err != nil {
			c.log.Error("handle booking event failed", zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle processes one message body.  A mail failure is logged but does not
// reject the message; the log line is already written.
func (c *Consumer) Handle(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	if err := c.appendLine(FormatLogLine(ev)); err != nil {
		return err
	}
	if c.mailer != nil && ev.Email != "" {
		if err := c.mailer.Send(ev.Email, ev.Subject, ev.Message+"\n\n"+ev.QRPayload); err != nil {
			c.log.Warn("confirmation mail failed", zap.String("booking_id", ev.BookingID), zap.Error(err))
		}
	}
	return nil
}

func (c *Consumer) appendLine(line string) error {
	c.fileMu.Lock()
	defer c.fileMu.Unlock()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLogLine renders an event as one line of booking.log.
func FormatLogLine(ev BookingConfirmedEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | user=%s | movie=%q | theater=%q | date=%s | time=%q | total=%d cents | payment=%s | seats=[%s]\n",
		ev.ConfirmedAt, ev.BookingID, ev.Username, ev.MovieTitle, ev.Theater, ev.Date, ev.Time, ev.PriceCents, ev.PaymentMethod, strings.Join(ev.Seats, ","))
}
