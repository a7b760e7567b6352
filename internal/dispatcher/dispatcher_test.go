package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
	"github.com/ai-mommy/photobooth-bot/store"
	"github.com/ai-mommy/photobooth-bot/types"
)

type fakeOrders struct {
	orders map[string]*types.Order

	failUpdateStatus error
}

func newFakeOrders(orders ...*types.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*types.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) CreateOrder(userID int64, serviceType string) (*types.Order, error) {
	panic("not used")
}

func (f *fakeOrders) GetOrder(orderID string) (*types.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) GetUserOrders(userID int64) ([]*types.Order, error) { return nil, nil }

func (f *fakeOrders) UpdateStatus(orderID string, status types.OrderStatus) error {
	if f.failUpdateStatus != nil {
		return f.failUpdateStatus
	}
	o, ok := f.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	if o.Status.Terminal() {
		return store.ErrAlreadyFinalized
	}
	if !o.Status.CanTransitionTo(status) {
		return store.ErrInvalidTransition
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) SetInput(orderID string, input map[string]interface{}) error { return nil }

func (f *fakeOrders) MarkCompleted(orderID string, result []string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	if o.Status.Terminal() {
		return store.ErrAlreadyFinalized
	}
	if o.Status != types.StatusProcessing {
		return store.ErrInvalidTransition
	}
	o.Status = types.StatusCompleted
	o.Result = result
	return nil
}

func (f *fakeOrders) RecordPayment(orderID, providerPaymentID string, amount int64, currency string) error {
	return nil
}

func (f *fakeOrders) GetPaymentByOrder(orderID string) (*types.Payment, error) { return nil, nil }

type fakeNotifier struct {
	texts []string
}

func (f *fakeNotifier) SendText(_ context.Context, chatID int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) SendTextWithButtons(_ context.Context, chatID int64, text string, buttons []types.Button) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) SendPhoto(_ context.Context, chatID int64, photoURL, caption string) error {
	f.texts = append(f.texts, photoURL)
	return nil
}

type fixedProcessor struct {
	result []string
	err    error
	calls  int
}

func (p *fixedProcessor) Process(_ context.Context, serviceType string, input map[string]interface{}) ([]string, error) {
	p.calls++
	return p.result, p.err
}

func paidOrder(id, serviceType string) *types.Order {
	return &types.Order{
		ID:          id,
		UserID:      42,
		ServiceType: serviceType,
		Status:      types.StatusPaid,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func job(orderID string) types.FulfillmentJob {
	return types.FulfillmentJob{
		Type:        types.JobProcessOrder,
		OrderID:     orderID,
		UserID:      42,
		ChatID:      4242,
		ServiceType: catalog.SessionPregnancy,
	}
}

func TestDispatchSuccess(t *testing.T) {
	orders := newFakeOrders(paidOrder("order-1", catalog.SessionPregnancy))
	notifier := &fakeNotifier{}
	proc := &fixedProcessor{result: []string{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"}}

	d := NewDispatcher(orders, proc, notifier)
	require.NoError(t, d.Dispatch(context.Background(), job("order-1")))

	o := orders.orders["order-1"]
	assert.Equal(t, types.StatusCompleted, o.Status)
	assert.Equal(t, proc.result, o.Result)
	assert.Equal(t, 1, proc.calls)
	// Processing notice plus results.
	assert.Len(t, notifier.texts, 2)
}

func TestDispatchProcessingFailure(t *testing.T) {
	orders := newFakeOrders(paidOrder("order-1", catalog.SessionPregnancy))
	notifier := &fakeNotifier{}
	proc := &fixedProcessor{err: errors.New("model unavailable")}

	d := NewDispatcher(orders, proc, notifier)
	// Failure settles the order; the message is still committed.
	require.NoError(t, d.Dispatch(context.Background(), job("order-1")))
	assert.Equal(t, types.StatusFailed, orders.orders["order-1"].Status)
}

func TestDispatchTwiceIsNoop(t *testing.T) {
	orders := newFakeOrders(paidOrder("order-1", catalog.SessionPregnancy))
	notifier := &fakeNotifier{}
	proc := &fixedProcessor{result: []string{"https://cdn.example/1.jpg"}}

	d := NewDispatcher(orders, proc, notifier)
	require.NoError(t, d.Dispatch(context.Background(), job("order-1")))
	require.NoError(t, d.Dispatch(context.Background(), job("order-1")))

	assert.Equal(t, types.StatusCompleted, orders.orders["order-1"].Status)
	// The second delivery never re-runs the processor.
	assert.Equal(t, 1, proc.calls)
}

func TestDispatchUnknownOrderDropped(t *testing.T) {
	d := NewDispatcher(newFakeOrders(), &fixedProcessor{}, &fakeNotifier{})
	require.NoError(t, d.Dispatch(context.Background(), job("order-missing")))
}

func TestDispatchStoreFaultRedelivers(t *testing.T) {
	orders := newFakeOrders(paidOrder("order-1", catalog.SessionPregnancy))
	orders.failUpdateStatus = errors.New("connection refused")

	d := NewDispatcher(orders, &fixedProcessor{}, &fakeNotifier{})
	// Transient store faults surface so the queue redelivers.
	assert.Error(t, d.Dispatch(context.Background(), job("order-1")))
}

func TestDispatchCanceledOrderDropped(t *testing.T) {
	o := paidOrder("order-1", catalog.SessionPregnancy)
	o.Status = types.StatusCanceled
	orders := newFakeOrders(o)
	proc := &fixedProcessor{}

	d := NewDispatcher(orders, proc, &fakeNotifier{})
	require.NoError(t, d.Dispatch(context.Background(), job("order-1")))
	assert.Equal(t, 0, proc.calls)
	assert.Equal(t, types.StatusCanceled, orders.orders["order-1"].Status)
}

func TestStubProcessorResultsPerService(t *testing.T) {
	p := &StubProcessor{}

	res, err := p.Process(context.Background(), catalog.SessionFamily, nil)
	require.NoError(t, err)
	assert.Len(t, res, 5)

	res, err = p.Process(context.Background(), catalog.CustomUnique, map[string]interface{}{"prompt": "x"})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = p.Process(context.Background(), "no_such_service", nil)
	assert.Error(t, err)
}
