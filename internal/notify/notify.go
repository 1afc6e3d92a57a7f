// Package notify sends post-commit notifications: order invoices and
// storefront announcements. Delivery is fire-and-forget on the shared
// executor pool, and a failed or unconfigured announcer never surfaces an
// error to the request that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/zhenzou/executors"

	"github.com/PerryRichardson/storefront/internal/contexts"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/objects"
)

// Config controls the announcement channel. Disabled mode degrades to a
// logging no-op.
type Config struct {
	Enabled bool   `conf:"enabled" yaml:"enabled" json:"enabled"`
	Handle  string `conf:"handle" yaml:"handle" json:"handle"`
}

// Announcer publishes a short public message about storefront activity.
type Announcer interface {
	Announce(ctx context.Context, message string) error
}

// Sender delivers a rendered document to a user, an invoice today.
type Sender interface {
	Send(ctx context.Context, to *objects.User, subject, body string) error
}

// Service fans notifications out through the executor pool.
type Service struct {
	announcer Announcer
	sender    Sender
	executor  executors.ScheduledExecutor
}

func New(cfg Config, executor executors.ScheduledExecutor) *Service {
	var announcer Announcer = &logAnnouncer{handle: cfg.Handle}
	if !cfg.Enabled {
		announcer = noopAnnouncer{}
	}

	return &Service{
		announcer: announcer,
		sender:    &logSender{},
		executor:  executor,
	}
}

// NewWithTargets wires explicit delivery targets, used by tests.
func NewWithTargets(announcer Announcer, sender Sender, executor executors.ScheduledExecutor) *Service {
	return &Service{announcer: announcer, sender: sender, executor: executor}
}

// OrderPlaced sends the buyer an invoice for a committed order.
func (s *Service) OrderPlaced(ctx context.Context, buyer *objects.User, order *objects.Order) {
	subject := fmt.Sprintf("Your order #%d", order.ID)
	body := renderInvoice(buyer, order)

	s.dispatch(ctx, "order invoice", func(ctx context.Context) error {
		return s.sender.Send(ctx, buyer, subject, body)
	})
}

// ProductCreated announces a new product in a store.
func (s *Service) ProductCreated(ctx context.Context, product *objects.Product, store *objects.Store) {
	message := fmt.Sprintf("New in %s: %s for %s", store.Name, product.Name, product.Price.StringFixed(2))

	s.dispatch(ctx, "product announcement", func(ctx context.Context) error {
		return s.announcer.Announce(ctx, message)
	})
}

// ReviewPosted announces a fresh review.
func (s *Service) ReviewPosted(ctx context.Context, review *objects.Review, product *objects.Product) {
	message := fmt.Sprintf("%s just got a %d-star review", product.Name, review.Rating)

	s.dispatch(ctx, "review announcement", func(ctx context.Context) error {
		return s.announcer.Announce(ctx, message)
	})
}

// dispatch hands the delivery to the pool. Submission and delivery failures
// are logged and swallowed, the triggering request already succeeded.
func (s *Service) dispatch(ctx context.Context, kind string, fn func(ctx context.Context) error) {
	traceID, hasTrace := contexts.GetTraceID(ctx)

	err := s.executor.ExecuteFunc(func(ctx context.Context) {
		if hasTrace {
			ctx = contexts.WithTraceID(ctx, traceID)
		}

		if err := fn(ctx); err != nil {
			log.Warn(ctx, "notification delivery failed", log.String("kind", kind), log.Cause(err))
		}
	})
	if err != nil {
		log.Warn(ctx, "notification rejected by executor", log.String("kind", kind), log.Cause(err))
	}
}

// noopAnnouncer drops everything silently.
type noopAnnouncer struct{}

func (noopAnnouncer) Announce(ctx context.Context, message string) error {
	return nil
}

// logAnnouncer writes announcements to the log instead of a social network.
type logAnnouncer struct {
	handle string
}

func (a *logAnnouncer) Announce(ctx context.Context, message string) error {
	log.Info(ctx, "announcement", log.String("handle", a.handle), log.String("message", message))
	return nil
}

// logSender logs invoices instead of mailing them.
type logSender struct{}

func (*logSender) Send(ctx context.Context, to *objects.User, subject, body string) error {
	log.Info(ctx, "invoice sent",
		log.String("to", to.Email),
		log.String("subject", subject),
		log.Int("bytes", len(body)),
	)

	return nil
}
