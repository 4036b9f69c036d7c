package main // booking.confirmed consumer

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadWorker()
	newLogger := zap.NewDevelopment
	if cfg.Env == "prod" {
		newLogger = zap.NewProduction
	}
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var mailer queue.MailSender
	if cfg.SMTP.Enabled() {
		mailer = queue.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Info("SMTP not configured; confirmations are only logged")
	}
	consumer := queue.NewConsumer(cfg.AMQPURL, cfg.LogDir, mailer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("booking consumer started", zap.String("queue", queue.BookingQueue))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
