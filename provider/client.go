// Package provider defines the connection surface to the messaging/payments
// provider. The engine only ever talks to the provider through Client, so the
// in-memory implementation below can stand in for the real connection in
// tests, local workers, and the simulator.
package provider

import (
	"context"

	"ussd-loan-engine/shared"
)

// Client is the provider operation surface consumed by the engine.
//
// Profile writes are full-snapshot overwrites: a SetProfile replaces the whole
// metadata record, it does not merge fields. Callers therefore re-read before
// reasoning and write back complete intended state.
//
// Per-customer event ordering is the provider's guarantee; Client
// implementations are safe for concurrent use across customers but do not
// serialize calls for the same customer.
type Client interface {
	// GetProfile returns the customer's metadata record, or an empty map if
	// the customer has no record yet.
	GetProfile(ctx context.Context, customer shared.Customer) (map[string]string, error)

	// SetProfile overwrites the customer's entire metadata record.
	SetProfile(ctx context.Context, customer shared.Customer, fields map[string]string) error

	// DeleteProfileFields removes the named keys from the customer's record.
	// Missing keys are ignored.
	DeleteProfileFields(ctx context.Context, customer shared.Customer, keys []string) error

	// DeleteAppData discards the customer's session app data.
	DeleteAppData(ctx context.Context, customer shared.Customer) error

	// SendMessage delivers a message body over the given channel.
	SendMessage(ctx context.Context, channel shared.Channel, customer shared.Customer, body shared.MessageBody) error

	// InitiatePayment requests a disbursement from the purse to the customer
	// over the payment channel. A non-accepted status is reported in the
	// result, not as an error.
	InitiatePayment(ctx context.Context, purseID string, channel shared.Channel, customer shared.Customer, amount int64, currency string) (shared.PaymentResult, error)

	// ScheduleReminder registers a recurring reminder on the provider's
	// scheduler, replacing any existing reminder with the same key.
	ScheduleReminder(ctx context.Context, customer shared.Customer, reminder shared.Reminder) error

	// CancelReminder removes the keyed reminder. Cancelling an absent
	// reminder is a no-op.
	CancelReminder(ctx context.Context, customer shared.Customer, key string) error
}
