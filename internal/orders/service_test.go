package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront-otel-demo/internal/catalog"
	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

type catalogFinder struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	err      error
}

func newCatalogFinder() *catalogFinder {
	f := &catalogFinder{products: map[int64]domain.Product{}}
	for _, p := range catalog.SampleProducts() {
		f.products[p.ID] = p
	}
	return f
}

func (f *catalogFinder) ByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[int64]domain.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *catalogFinder) setPrice(id int64, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Price = decimal.NewFromInt(price)
	f.products[id] = p
}

type memoryOrderStore struct {
	mu        sync.Mutex
	orders    []domain.Order
	createErr error
}

func (m *memoryOrderStore) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = int64(len(m.orders) + 1)
	stored := *order
	stored.Details = append([]string(nil), order.Details...)
	m.orders = append(m.orders, stored)
	return nil
}

func (m *memoryOrderStore) ListByEmail(_ context.Context, email string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if o.UserEmail != nil && *o.UserEmail == email {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []domain.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event.(domain.OrderPlacedEvent))
	return p.err
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestService(finder ProductFinder, store OrderStore, publisher EventPublisher) *Service {
	svc := NewService(finder, store, publisher, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc
}

func cart(lines ...domain.CartLine) domain.Cart { return lines }

func line(id string, qty int) domain.CartLine { return domain.CartLine{ProductID: id, Quantity: qty} }

func strptr(s string) *string { return &s }

func TestService_Place(t *testing.T) {
	ctx := context.Background()

	t.Run("computes total from current prices", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)

		order, err := svc.Place(ctx, Placement{
			CustomerName:    "Ada",
			Email:           strptr("ada@example.com"),
			Cart:            cart(line("101", 2), line("102", 1)),
			ShippingAddress: "London",
			PaymentMethod:   "COD",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), order.ID)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(3897)), "total was %s", order.Total)
		assert.Equal(t, []string{"Men Classic Shirt (x2)", "Men Chinos (x1)"}, order.Details)
		require.Len(t, store.orders, 1)
		assert.Equal(t, "ada@example.com", *store.orders[0].UserEmail)
		assert.False(t, store.orders[0].CreatedAt.IsZero())
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)

		order, err := svc.Place(ctx, Placement{
			CustomerName: "Ada",
			Cart:         cart(line("999", 3), line("not-a-number", 1), line("301", 1)),
		})
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(399)))
		assert.Equal(t, []string{"Kids Graphic Tee (x1)"}, order.Details)
	})

	t.Run("only unknown ids yields empty zero order", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)

		order, err := svc.Place(ctx, Placement{CustomerName: "Ada", Cart: cart(line("998", 1), line("999", 2))})
		require.NoError(t, err)
		assert.True(t, order.Total.IsZero())
		assert.Empty(t, order.Details)
		assert.NotNil(t, order.Details)
		assert.Len(t, store.orders, 1)
	})

	t.Run("empty cart is rejected and nothing persisted", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)

		_, err := svc.Place(ctx, Placement{CustomerName: "Ada", Cart: domain.Cart{}})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)

		_, err = svc.Place(ctx, Placement{CustomerName: "Ada"})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)

		assert.Empty(t, store.orders)
	})

	t.Run("blank email is a guest order", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)

		order, err := svc.Place(ctx, Placement{CustomerName: "Guest", Email: strptr(""), Cart: cart(line("101", 1))})
		require.NoError(t, err)
		assert.Nil(t, order.UserEmail)
	})

	t.Run("resubmitting creates independent orders", func(t *testing.T) {
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, nil)
		p := Placement{CustomerName: "Ada", Cart: cart(line("101", 1))}

		first, err := svc.Place(ctx, p)
		require.NoError(t, err)
		second, err := svc.Place(ctx, p)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Len(t, store.orders, 2)
	})

	t.Run("storage failures propagate", func(t *testing.T) {
		boom := errors.New("db down")
		finder := newCatalogFinder()
		finder.err = boom

		_, err := newTestService(finder, &memoryOrderStore{}, nil).Place(ctx, Placement{Cart: cart(line("101", 1))})
		assert.ErrorIs(t, err, boom)

		_, err = newTestService(newCatalogFinder(), &memoryOrderStore{createErr: boom}, nil).Place(ctx, Placement{Cart: cart(line("101", 1))})
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Place_SnapshotSemantics(t *testing.T) {
	ctx := context.Background()
	finder := newCatalogFinder()
	store := &memoryOrderStore{}
	svc := newTestService(finder, store, nil)

	_, err := svc.Place(ctx, Placement{CustomerName: "Ada", Email: strptr("ada@example.com"), Cart: cart(line("202", 1))})
	require.NoError(t, err)

	finder.setPrice(202, 9999)

	_, err = svc.Place(ctx, Placement{CustomerName: "Ada", Email: strptr("ada@example.com"), Cart: cart(line("202", 1))})
	require.NoError(t, err)

	orders, err := svc.ListForUser(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "9999", orders[0].Total.String())
	assert.Equal(t, "4999", orders[1].Total.String())
}

func TestService_Place_PublishesEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes after persisting", func(t *testing.T) {
		publisher := &recordingPublisher{}
		svc := newTestService(newCatalogFinder(), &memoryOrderStore{}, publisher)

		order, err := svc.Place(ctx, Placement{CustomerName: "Ada", Email: strptr("ada@example.com"), Cart: cart(line("103", 3))})
		require.NoError(t, err)

		require.Len(t, publisher.events, 1)
		event := publisher.events[0]
		assert.Equal(t, "1", publisher.keys[0])
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, "ada@example.com", event.Email)
		assert.Equal(t, "2997", event.Total.String())
		assert.Equal(t, []string{"Men Casual Shirt (x3)"}, event.Items)
		assert.NotEmpty(t, event.EventID)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		publisher := &recordingPublisher{err: errors.New("broker unavailable")}
		store := &memoryOrderStore{}
		svc := newTestService(newCatalogFinder(), store, publisher)

		_, err := svc.Place(ctx, Placement{CustomerName: "Ada", Cart: cart(line("103", 1))})
		require.NoError(t, err)
		assert.Len(t, store.orders, 1)
		assert.Empty(t, publisher.events[0].Email)
	})
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	store := &memoryOrderStore{}
	svc := newTestService(newCatalogFinder(), store, nil)

	for _, email := range []string{"ada@example.com", "ADA@example.com", "ada@example.com", "", "ada@example.com"} {
		_, err := svc.Place(ctx, Placement{CustomerName: "x", Email: strptr(email), Cart: cart(line("101", 1))})
		require.NoError(t, err)
	}

	orders, err := svc.ListForUser(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 3)

	for i := 1; i < len(orders); i++ {
		assert.True(t, orders[i-1].CreatedAt.After(orders[i].CreatedAt), "orders must be newest first")
	}
	assert.Equal(t, []int64{5, 3, 1}, []int64{orders[0].ID, orders[1].ID, orders[2].ID})
}
