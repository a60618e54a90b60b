// Package service dispatches outbound email without blocking the request
// that caused it.  Failures are logged and counted, never returned.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/metrics"
	"github.com/iliyamo/movie-review-backend/internal/queue"
)

// Notifier sends a templated email to one recipient in the background.
type Notifier interface {
	Notify(ctx context.Context, recipient, template string, data map[string]string)
}

// Background tracks fire-and-forget goroutines so shutdown can wait for
// them.
type Background struct {
	wg sync.WaitGroup
}

// Go runs fn in a tracked goroutine and turns a panic into a log line.
func (b *Background) Go(name string, fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.Error().Err(fmt.Errorf("%v", r)).Str("task", name).Msg("background task panicked")
			}
		}()
		fn()
	}()
}

// Wait blocks until every started task has returned.
func (b *Background) Wait() { b.wg.Wait() }

// DirectNotifier sends over SMTP from a background goroutine.
type DirectNotifier struct {
	sender queue.Sender
	bg     *Background
}

func NewDirectNotifier(sender queue.Sender, bg *Background) *DirectNotifier {
	return &DirectNotifier{sender: sender, bg: bg}
}

func (n *DirectNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) {
	log := logging.Ctx(ctx)
	n.bg.Go("mail:"+template, func() {
		if err := n.sender.Send(recipient, template, data); err != nil {
			metrics.MailSent.WithLabelValues(template, "failed").Inc()
			log.Error().Err(err).Str("template", template).Msg("send email failed")
			return
		}
		metrics.MailSent.WithLabelValues(template, "sent").Inc()
	})
}

// QueueNotifier publishes to RabbitMQ; the MailConsumer does the sending.
type QueueNotifier struct {
	url string
	bg  *Background
}

func NewQueueNotifier(url string, bg *Background) *QueueNotifier {
	return &QueueNotifier{url: url, bg: bg}
}

func (n *QueueNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) {
	log := logging.Ctx(ctx)
	ev := queue.MailRequested{Recipient: recipient, Template: template, Data: data}
	n.bg.Go("publish:"+template, func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := PublishMail(pubCtx, n.url, ev); err != nil {
			metrics.MailSent.WithLabelValues(template, "failed").Inc()
			log.Error().Err(err).Str("template", template).Msg("publish email failed")
			return
		}
		metrics.MailSent.WithLabelValues(template, "queued").Inc()
	})
}
