package dispatcher

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ussd-loan-engine/provider"
	"ussd-loan-engine/shared"
)

// fakeStarter records workflow starts instead of launching them.
type fakeStarter struct {
	loans     []shared.LoanRequest
	payments  []shared.PaymentReceipt
	reminders []shared.ReminderFire
	err       error
}

func (f *fakeStarter) StartLoanApproval(_ context.Context, req shared.LoanRequest) error {
	if f.err != nil {
		return f.err
	}
	f.loans = append(f.loans, req)
	return nil
}

func (f *fakeStarter) StartRepayment(_ context.Context, receipt shared.PaymentReceipt) error {
	if f.err != nil {
		return f.err
	}
	f.payments = append(f.payments, receipt)
	return nil
}

func (f *fakeStarter) StartReminder(_ context.Context, fire shared.ReminderFire) error {
	if f.err != nil {
		return f.err
	}
	f.reminders = append(f.reminders, fire)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCustomer() shared.Customer {
	return shared.Customer{ID: "CUST-001", Number: "+254700000001"}
}

// exchange drives one USSD event through the dispatcher and returns the reply.
func exchange(t *testing.T, d *Dispatcher, customer shared.Customer, appData *shared.SessionState, input string) Reply {
	t.Helper()
	respond := NewResponder()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	d.OnUssdSession(ctx, shared.UssdEvent{SessionID: "sess-1", Input: input}, customer, appData, respond)

	reply, err := respond.Wait(ctx)
	assert.NoError(t, err, "every exchange must be answered exactly once")
	return reply
}

func TestOnUssdSession_FullOrderFlow(t *testing.T) {
	mem := provider.NewMemory()
	starter := &fakeStarter{}
	d := New(mem, starter, testLogger(), 2*time.Hour, time.Hour)
	customer := testCustomer()

	seed := shared.CustomerProfile{Balance: 1500}
	assert.NoError(t, mem.SetProfile(context.Background(), customer, seed.Metadata()))

	var appData *shared.SessionState
	step := func(input string) Reply {
		reply := exchange(t, d, customer, appData, input)
		appData = &shared.SessionState{Screen: reply.Next.Screen}
		return reply
	}

	reply := step("")
	assert.Contains(t, reply.Menu.Text, "Welcome to My Groceries!")
	assert.False(t, reply.Menu.IsTerminal)

	reply = step("1")
	assert.Contains(t, reply.Menu.Text, "what would you like delivered")

	reply = step("apple banana")
	assert.Contains(t, reply.Menu.Text, "apple\nbanana")

	reply = step("yes")
	assert.True(t, reply.Menu.IsTerminal)
	assert.Contains(t, reply.Menu.Text, "Thanks for the order")
	assert.Equal(t, shared.ScreenHome, reply.Next.Screen)

	// Exactly one disbursement, for the then-current balance, carrying the
	// dispatcher's reminder configuration.
	if assert.Len(t, starter.loans, 1) {
		assert.Equal(t, customer, starter.loans[0].Customer)
		assert.Equal(t, int64(1500), starter.loans[0].Amount)
		assert.Equal(t, 2*time.Hour, starter.loans[0].ReminderLead)
		assert.Equal(t, time.Hour, starter.loans[0].ReminderInterval)
	}

	// Items were captured into the profile along the way.
	meta, err := mem.GetProfile(context.Background(), customer)
	assert.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana"}, shared.ProfileFromMetadata(meta).Items)
}

func TestOnUssdSession_DeclinedOrderDoesNotDisburse(t *testing.T) {
	mem := provider.NewMemory()
	starter := &fakeStarter{}
	d := New(mem, starter, testLogger(), 0, 0)
	customer := testCustomer()

	appData := &shared.SessionState{Screen: shared.ScreenFinishOrder}
	reply := exchange(t, d, customer, appData, "nope")

	assert.True(t, reply.Menu.IsTerminal)
	assert.Contains(t, reply.Menu.Text, "Thank you for using the service")
	assert.Empty(t, starter.loans)
}

func TestOnUssdSession_QuitResetsToHome(t *testing.T) {
	mem := provider.NewMemory()
	d := New(mem, &fakeStarter{}, testLogger(), 0, 0)

	reply := exchange(t, d, testCustomer(), nil, "2")

	assert.True(t, reply.Menu.IsTerminal)
	assert.Equal(t, "Thank you for shopping!", reply.Menu.Text)
	assert.Equal(t, shared.ScreenHome, reply.Next.Screen)
}

func TestOnUssdSession_MalformedInputTolerated(t *testing.T) {
	mem := provider.NewMemory()
	starter := &fakeStarter{}
	d := New(mem, starter, testLogger(), 0, 0)

	for _, input := range []string{"99", "#", "yes", "   "} {
		reply := exchange(t, d, testCustomer(), nil, input)
		assert.False(t, reply.Menu.IsTerminal)
		assert.Contains(t, reply.Menu.Text, "Welcome to My Groceries!")
	}
	assert.Empty(t, starter.loans)
}

func TestOnUssdSession_ProviderFailureIsSilent(t *testing.T) {
	mem := provider.NewMemory()
	mem.FailNext(assert.AnError)
	starter := &fakeStarter{}
	d := New(mem, starter, testLogger(), 0, 0)

	respond := NewResponder()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	d.OnUssdSession(ctx, shared.UssdEvent{Input: ""}, testCustomer(), nil, respond)

	// The subscriber receives no reply at all — there is no generic error
	// menu — and nothing was started.
	_, err := respond.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, starter.loans)
}

func TestResponder_ExactlyOnce(t *testing.T) {
	respond := NewResponder()

	assert.NoError(t, respond.Respond(shared.Menu{Text: "a"}, shared.SessionState{Screen: shared.ScreenHome}))
	assert.ErrorIs(t, respond.Respond(shared.Menu{Text: "b"}, shared.SessionState{}), ErrAlreadyResponded)

	reply, err := respond.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "a", reply.Menu.Text)
}

func TestOnPaymentReceived_DispatchesRepayment(t *testing.T) {
	starter := &fakeStarter{}
	d := New(provider.NewMemory(), starter, testLogger(), 0, 0)
	customer := testCustomer()

	d.OnPaymentReceived(context.Background(), shared.PaymentEvent{TransactionID: "tx-1", Amount: 400}, customer)

	if assert.Len(t, starter.payments, 1) {
		assert.Equal(t, customer, starter.payments[0].Customer)
		assert.Equal(t, int64(400), starter.payments[0].Amount)
	}
}

func TestOnReminder_DispatchesFire(t *testing.T) {
	starter := &fakeStarter{}
	d := New(provider.NewMemory(), starter, testLogger(), 0, 0)
	customer := testCustomer()

	d.OnReminder(context.Background(), shared.ReminderEvent{Key: shared.RepaymentReminderKey}, customer)

	if assert.Len(t, starter.reminders, 1) {
		assert.Equal(t, shared.RepaymentReminderKey, starter.reminders[0].Key)
		assert.Equal(t, customer, starter.reminders[0].Customer)
	}
}

func TestHandlers_StarterFailureDoesNotPanic(t *testing.T) {
	starter := &fakeStarter{err: assert.AnError}
	d := New(provider.NewMemory(), starter, testLogger(), 0, 0)
	customer := testCustomer()

	assert.NotPanics(t, func() {
		d.OnPaymentReceived(context.Background(), shared.PaymentEvent{Amount: 1}, customer)
		d.OnReminder(context.Background(), shared.ReminderEvent{Key: "moni"}, customer)

		appData := &shared.SessionState{Screen: shared.ScreenFinishOrder}
		respond := NewResponder()
		d.OnUssdSession(context.Background(), shared.UssdEvent{Input: "yes"}, customer, appData, respond)
	})
}
