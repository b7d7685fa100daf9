package provider

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ussd-loan-engine/shared"
)

// SentMessage is one outbound message recorded by the in-memory provider.
type SentMessage struct {
	ID       string
	Channel  shared.Channel
	Customer shared.Customer
	Body     shared.MessageBody
}

// Disbursement is one payment initiation recorded by the in-memory provider.
type Disbursement struct {
	TransactionID string
	PurseID       string
	Channel       shared.Channel
	Customer      shared.Customer
	Amount        int64
	Currency      string
	Result        shared.PaymentResult
}

// Memory is an in-memory Client used by tests, local workers, and the
// simulator. It records every outbound side effect for inspection and lets
// tests script the disbursement result.
type Memory struct {
	mu          sync.Mutex
	profiles    map[string]map[string]string
	appData     map[string]shared.SessionState
	reminders   map[string]shared.Reminder // keyed by customer ID + "/" + reminder key
	messages    []SentMessage
	payments    []Disbursement
	payResult   shared.PaymentResult
	failNextErr error
}

// NewMemory returns a Memory provider whose disbursements succeed by default.
func NewMemory() *Memory {
	return &Memory{
		profiles:  make(map[string]map[string]string),
		appData:   make(map[string]shared.SessionState),
		reminders: make(map[string]shared.Reminder),
		payResult: shared.PaymentResult{Status: shared.PaymentStatusSuccess, Description: "disbursed"},
	}
}

// SetPaymentResult scripts the result of subsequent InitiatePayment calls.
func (m *Memory) SetPaymentResult(res shared.PaymentResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payResult = res
}

// FailNext makes every subsequent provider call return err until reset with
// FailNext(nil). Used to exercise the boundary's catch-and-log behavior.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNextErr = err
}

func (m *Memory) GetProfile(_ context.Context, customer shared.Customer) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return nil, m.failNextErr
	}
	out := make(map[string]string, len(m.profiles[customer.ID]))
	for k, v := range m.profiles[customer.ID] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SetProfile(_ context.Context, customer shared.Customer, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	record := make(map[string]string, len(fields))
	for k, v := range fields {
		record[k] = v
	}
	m.profiles[customer.ID] = record
	return nil
}

func (m *Memory) DeleteProfileFields(_ context.Context, customer shared.Customer, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	for _, k := range keys {
		delete(m.profiles[customer.ID], k)
	}
	return nil
}

func (m *Memory) DeleteAppData(_ context.Context, customer shared.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	delete(m.appData, customer.ID)
	return nil
}

func (m *Memory) SendMessage(_ context.Context, channel shared.Channel, customer shared.Customer, body shared.MessageBody) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	m.messages = append(m.messages, SentMessage{
		ID:       uuid.NewString(),
		Channel:  channel,
		Customer: customer,
		Body:     body,
	})
	return nil
}

func (m *Memory) InitiatePayment(_ context.Context, purseID string, channel shared.Channel, customer shared.Customer, amount int64, currency string) (shared.PaymentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return shared.PaymentResult{}, m.failNextErr
	}
	m.payments = append(m.payments, Disbursement{
		TransactionID: uuid.NewString(),
		PurseID:       purseID,
		Channel:       channel,
		Customer:      customer,
		Amount:        amount,
		Currency:      currency,
		Result:        m.payResult,
	})
	return m.payResult, nil
}

func (m *Memory) ScheduleReminder(_ context.Context, customer shared.Customer, reminder shared.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	m.reminders[customer.ID+"/"+reminder.Key] = reminder
	return nil
}

func (m *Memory) CancelReminder(_ context.Context, customer shared.Customer, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextErr != nil {
		return m.failNextErr
	}
	delete(m.reminders, customer.ID+"/"+key)
	return nil
}

// SessionData returns the stored session app data for a customer, mirroring
// what the real provider would hand to the next USSD exchange.
func (m *Memory) SessionData(customer shared.Customer) (shared.SessionState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.appData[customer.ID]
	return s, ok
}

// SetSessionData stores session app data for a customer, as the real provider
// does with the state handed back through the respond callback.
func (m *Memory) SetSessionData(customer shared.Customer, state shared.SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appData[customer.ID] = state
}

// Messages returns a copy of all recorded outbound messages.
func (m *Memory) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Payments returns a copy of all recorded disbursement requests.
func (m *Memory) Payments() []Disbursement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Disbursement, len(m.payments))
	copy(out, m.payments)
	return out
}

// Reminder returns the scheduled reminder for a customer and key, if any.
func (m *Memory) Reminder(customer shared.Customer, key string) (shared.Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[customer.ID+"/"+key]
	return r, ok
}
