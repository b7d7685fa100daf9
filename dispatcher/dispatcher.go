// Package dispatcher is the event boundary between the provider connection
// and the engine: it exposes the three handlers the provider invokes and is
// the only layer that catches and logs failures. Handlers never propagate
// errors back to the event source — a failed exchange is silent toward the
// subscriber.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ussd-loan-engine/provider"
	"ussd-loan-engine/shared"
	"ussd-loan-engine/ussd"
)

// WorkflowStarter launches the loan lifecycle workflows. The dispatcher only
// needs fire-and-track start semantics, so the Temporal client hides behind
// this interface and tests substitute a fake.
type WorkflowStarter interface {
	StartLoanApproval(ctx context.Context, req shared.LoanRequest) error
	StartRepayment(ctx context.Context, receipt shared.PaymentReceipt) error
	StartReminder(ctx context.Context, fire shared.ReminderFire) error
}

// Dispatcher routes inbound provider events to the session state machine and
// the loan workflows.
type Dispatcher struct {
	provider provider.Client
	starter  WorkflowStarter
	log      *slog.Logger

	reminderLead     time.Duration
	reminderInterval time.Duration
}

// New builds a Dispatcher. Zero reminder durations fall back to the shared
// demo defaults.
func New(p provider.Client, starter WorkflowStarter, logger *slog.Logger, reminderLead, reminderInterval time.Duration) *Dispatcher {
	if reminderLead <= 0 {
		reminderLead = shared.DefaultReminderLead
	}
	if reminderInterval <= 0 {
		reminderInterval = shared.DefaultReminderInterval
	}
	return &Dispatcher{
		provider:         p,
		starter:          starter,
		log:              logger,
		reminderLead:     reminderLead,
		reminderInterval: reminderInterval,
	}
}

// OnUssdSession handles one inbound USSD exchange. The respond callback is
// invoked exactly once before any profile write; on internal failure after
// the reply, the subscriber still sees the menu and the rest of the exchange
// is abandoned.
func (d *Dispatcher) OnUssdSession(ctx context.Context, event shared.UssdEvent, customer shared.Customer, appData *shared.SessionState, respond *Responder) {
	if err := d.handleUssd(ctx, event, customer, appData, respond); err != nil {
		d.log.Error("USSD handling failed", "customer", customer.Number, "error", err)
	}
}

func (d *Dispatcher) handleUssd(ctx context.Context, event shared.UssdEvent, customer shared.Customer, appData *shared.SessionState, respond *Responder) error {
	d.log.Info("Processing USSD", "customer", customer.Number, "input", event.Input)

	// Screen pointer from the previous exchange; a fresh dial starts home.
	screen := shared.ScreenHome
	if appData != nil && appData.Screen != "" {
		screen = appData.Screen
	}

	// Everything the transition reasons about comes from this read, never
	// from ambient state.
	meta, err := d.provider.GetProfile(ctx, customer)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	profile := shared.ProfileFromMetadata(meta)

	step := ussd.Transition(screen, event.Input, profile)

	if err := respond.Respond(step.Menu, shared.SessionState{Screen: step.Next}); err != nil {
		return fmt.Errorf("respond: %w", err)
	}

	// Full snapshot write: the store overwrites, it does not merge.
	if err := d.provider.SetProfile(ctx, customer, step.Profile.Metadata()); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	if step.Disburse {
		req := shared.LoanRequest{
			Customer:         customer,
			Amount:           step.Amount,
			ReminderLead:     d.reminderLead,
			ReminderInterval: d.reminderInterval,
		}
		if err := d.starter.StartLoanApproval(ctx, req); err != nil {
			return fmt.Errorf("start loan approval: %w", err)
		}
	}
	return nil
}

// OnReminder handles one scheduler tick by launching the reminder escalation
// workflow. A failed start is logged and dropped; the next tick fires
// regardless.
func (d *Dispatcher) OnReminder(ctx context.Context, event shared.ReminderEvent, customer shared.Customer) {
	d.log.Info("Processing reminder", "customer", customer.Number, "key", event.Key)

	fire := shared.ReminderFire{Customer: customer, Key: event.Key}
	if err := d.starter.StartReminder(ctx, fire); err != nil {
		d.log.Error("Reminder dispatch failed", "customer", customer.Number, "error", err)
	}
}

// OnPaymentReceived handles one inbound payment by launching repayment
// reconciliation.
func (d *Dispatcher) OnPaymentReceived(ctx context.Context, event shared.PaymentEvent, customer shared.Customer) {
	d.log.Info("Processing payment", "customer", customer.Number, "amount", event.Amount)

	receipt := shared.PaymentReceipt{Customer: customer, Amount: event.Amount}
	if err := d.starter.StartRepayment(ctx, receipt); err != nil {
		d.log.Error("Payment dispatch failed", "customer", customer.Number, "error", err)
	}
}
