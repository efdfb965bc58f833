package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/config"
	"github.com/oksasatya/bookshelf/pkg/helpers"
	"github.com/oksasatya/bookshelf/pkg/mailer"
)

const (
	sendTimeout = 15 * time.Second
	consumerTag = "email-worker"
	prefetch    = 16
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, consumerTag, prefetch)
	if err != nil {
		logger.Fatalf("amqp consume: %v", err)
	}
	defer consumer.Close()

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stopCtx := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopCtx()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	err = run(ctx, logger, mg, msgs)
	_ = consumer.Cancel()
	if errors.Is(err, errDeliveriesClosed) {
		// Exit non-zero so the supervisor restarts the worker against a fresh connection.
		consumer.Close()
		logger.Fatal("delivery channel closed; exiting")
	}
	logger.Info("shutting down...")
}

var errDeliveriesClosed = errors.New("delivery channel closed")

// run handles deliveries one at a time until ctx is done or the broker closes msgs.
// A send already in progress finishes after ctx is cancelled; its own timeout still applies.
func run(ctx context.Context, logger *logrus.Logger, s mailer.Sender, msgs <-chan amqp.Delivery) error {
	sendCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			handle(sendCtx, logger, s, msg)
		}
	}
}

// handle acks delivered mail, drops malformed jobs and requeues send failures.
func handle(ctx context.Context, logger *logrus.Logger, s mailer.Sender, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		helpers.LogError(logger, "bad email job", err, nil)
		_ = msg.Nack(false, false)
		return
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := mailer.Deliver(c, s, job); err != nil {
		helpers.LogError(logger, "email delivery failed", err, logrus.Fields{"template": job.Template})
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
}
