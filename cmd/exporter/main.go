package main

import (
	"context"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"soundcrate/internal/export"
	"soundcrate/internal/logging"
	"soundcrate/internal/mail"
	"soundcrate/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	mailer := mail.New(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open channel")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(export.QueueName, true, false, false, false, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to declare export queue")
	}

	// Auto-ack: each message gets a single handling attempt. A poisoned
	// message is logged and dropped rather than redelivered forever.
	deliveries, err := ch.Consume(export.QueueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start consuming")
	}

	worker := export.NewWorker(dataStore, mailer, log)

	log.Info().Str("queue", export.QueueName).Msg("export worker listening")
	worker.Run(ctx, deliveries)
}
