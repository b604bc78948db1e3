package notification

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ouvidoria-agenda-backend/internal/model"
	"ouvidoria-agenda-backend/internal/store"
)

type mockSender struct {
	mu       sync.Mutex
	payloads []string
	statuses map[string]int
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, string(payload))
	status := http.StatusCreated
	if s, ok := m.statuses[sub.Endpoint]; ok {
		status = s
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (m *mockSender) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.payloads...)
}

func newTestStore(t *testing.T) store.Store {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))
	return store.NewGormStore(db)
}

func TestWorkerPoolBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := newTestStore(t)
	require.NoError(t, st.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/a", P256DH: "k", Auth: "a"}))
	require.NoError(t, st.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/b", P256DH: "k", Auth: "a"}))

	sender := &mockSender{}
	pool := NewWorkerPool(1, st, &webpush.Options{})
	pool.sender = sender
	pool.Start(ctx)

	pool.Dispatch("Novo agendamento: 19/02/2026 10:00")

	assert.Eventually(t, func() bool {
		return len(sender.sent()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, sender.sent()[0], "Novo agendamento")
}

func TestWorkerPoolPrunesExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := newTestStore(t)
	require.NoError(t, st.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/gone", P256DH: "k", Auth: "a"}))

	sender := &mockSender{statuses: map[string]int{"https://push.example/gone": http.StatusGone}}
	pool := NewWorkerPool(1, st, &webpush.Options{})
	pool.sender = sender
	pool.Start(ctx)

	pool.Dispatch("Vaga cancelada")

	assert.Eventually(t, func() bool {
		subs, err := st.Subscriptions(ctx)
		return err == nil && len(subs) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerPoolDropsWhenFull(t *testing.T) {
	st := newTestStore(t)
	pool := NewWorkerPool(1, st, &webpush.Options{})
	// Not started: fill the buffer, then one more must not block.
	for i := 0; i < cap(pool.Jobs()); i++ {
		pool.Dispatch("fill")
	}
	done := make(chan struct{})
	go func() {
		pool.Dispatch("overflow")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}
