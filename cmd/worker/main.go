package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/config"
	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/internal/container"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-backend/pkg/mailer"
)

// The worker consumes the jobs queue (stock decrements, object deletes) and
// the email queue. Failed jobs are republished with attempt+1.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" {
		logger.Fatal("RABBITMQ_URL not set; nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("bootstrap failed: %v", err)
	}
	defer app.Close(context.Background())

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}

	var wg sync.WaitGroup
	consume(ch, cfg.JobsQueue, &wg, logger, func(d amqp.Delivery) {
		handleJob(ctx, app, d, logger)
	})

	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Fatal("Mailgun not configured")
		}
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		consume(ch, cfg.RabbitMQEmailQueue, &wg, logger, func(d amqp.Delivery) {
			handleEmail(ctx, app, mg, d, logger)
		})
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; email queue is not consumed")
	}

	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

func consume(ch *amqp.Channel, queue string, wg *sync.WaitGroup, logger *logrus.Logger, handle func(amqp.Delivery)) {
	if err := helpers.DeclareQueue(ch, queue); err != nil {
		logger.Fatalf("queue declare %s: %v", queue, err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume %s: %v", queue, err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for d := range msgs {
			handle(d)
		}
	}()
	helpers.LogInfo(logger, "worker listening", logrus.Fields{"queue": queue})
}

func handleJob(ctx context.Context, app *container.Container, d amqp.Delivery, logger *logrus.Logger) {
	var job application.Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		helpers.LogError(logger, "bad job message", err, nil)
		_ = d.Nack(false, false)
		return
	}

	next, retry := app.Runner.Process(ctx, job)
	if retry {
		if err := helpers.SleepContext(ctx, time.Duration(next.Attempt)*time.Second); err != nil {
			_ = d.Nack(false, true)
			return
		}
		if err := app.Jobs.Dispatch(ctx, next); err != nil {
			helpers.LogError(logger, "requeue failed", err, logrus.Fields{"job": job.Type})
			_ = d.Nack(false, true)
			return
		}
	}
	_ = d.Ack(false)
}

func handleEmail(ctx context.Context, app *container.Container, sender mailer.Sender, d amqp.Delivery, logger *logrus.Logger) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		helpers.LogError(logger, "bad email message", err, nil)
		_ = d.Nack(false, false)
		return
	}

	subject, text, html, err := mailer.Compose(job)
	if err != nil {
		helpers.LogError(logger, "render failed", err, logrus.Fields{"template": job.Template})
		_ = d.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		fields := logrus.Fields{"to": job.To, "template": job.Template, "attempt": job.Attempt + 1}
		next, retry := job.Retry(app.Config.JobMaxAttempts)
		if !retry {
			helpers.LogError(logger, "email dropped after last attempt", err, fields)
			_ = d.Ack(false)
			return
		}
		logger.WithError(err).WithFields(fields).Warn("send failed, retrying")
		if err := helpers.SleepContext(ctx, time.Duration(next.Attempt)*2*time.Second); err != nil {
			_ = d.Nack(false, true)
			return
		}
		if err := app.Publisher.PublishJSON(ctx, app.Config.RabbitMQEmailQueue, next); err != nil {
			helpers.LogError(logger, "email requeue failed", err, fields)
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)
		return
	}
	helpers.LogInfo(logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	_ = d.Ack(false)
}
