package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zhenzou/executors"

	"github.com/PerryRichardson/storefront/internal/objects"
)

type recordingAnnouncer struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (r *recordingAnnouncer) Announce(ctx context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	r.messages = append(r.messages, message)

	return nil
}

func (r *recordingAnnouncer) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.messages...)
}

type recordingSender struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recordingSender) Send(ctx context.Context, to *objects.User, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bodies = append(r.bodies, body)

	return nil
}

func newTestExecutor(t *testing.T) executors.ScheduledExecutor {
	t.Helper()

	executor := executors.NewPoolScheduleExecutor(executors.WithMaxConcurrent(2))
	t.Cleanup(func() {
		_ = executor.Shutdown(context.Background())
	})

	return executor
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestOrderPlacedRendersInvoice(t *testing.T) {
	sender := &recordingSender{}
	service := NewWithTargets(noopAnnouncer{}, sender, newTestExecutor(t))

	buyer := &objects.User{Username: "iris", Email: "iris@example.com"}
	order := &objects.Order{
		ID:     7,
		Total:  decimal.RequireFromString("19.00"),
		Status: objects.OrderStatusPaid,
		Lines: []objects.OrderLine{
			{ProductID: 3, Qty: 2, PriceSnapshot: decimal.RequireFromString("9.50")},
		},
	}

	service.OrderPlaced(context.Background(), buyer, order)

	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()

		return len(sender.bodies) == 1
	})

	body := sender.bodies[0]
	require.Contains(t, body, "order #7")
	require.Contains(t, body, "x2  @ 9.50")
	require.Contains(t, body, "Total: 19.00")
}

func TestAnnouncements(t *testing.T) {
	announcer := &recordingAnnouncer{}
	service := NewWithTargets(announcer, &recordingSender{}, newTestExecutor(t))

	store := &objects.Store{Name: "Pantry"}
	product := &objects.Product{Name: "Honey", Price: decimal.RequireFromString("9.5")}

	service.ProductCreated(context.Background(), product, store)
	service.ReviewPosted(context.Background(), &objects.Review{Rating: 4}, product)

	waitFor(t, func() bool { return len(announcer.all()) == 2 })

	joined := strings.Join(announcer.all(), "\n")
	require.Contains(t, joined, "New in Pantry: Honey for 9.50")
	require.Contains(t, joined, "4-star review")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	announcer := &recordingAnnouncer{err: errors.New("socket closed")}
	service := NewWithTargets(announcer, &recordingSender{}, newTestExecutor(t))

	// Must not panic or block the caller.
	service.ProductCreated(context.Background(), &objects.Product{Name: "Jam", Price: decimal.New(3, 0)}, &objects.Store{Name: "Pantry"})

	time.Sleep(20 * time.Millisecond)
	require.Empty(t, announcer.all())
}

func TestDisabledConfigUsesNoop(t *testing.T) {
	service := New(Config{Enabled: false}, newTestExecutor(t))

	_, ok := service.announcer.(noopAnnouncer)
	require.True(t, ok)
}
