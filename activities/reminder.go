package activities

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"ussd-loan-engine/shared"
)

// ScheduleRepaymentReminder registers the recurring repayment reminder with
// the provider's scheduler. Scheduling the same key again replaces the
// existing entry, so retried approvals cannot stack reminders.
func (a *Activities) ScheduleRepaymentReminder(ctx context.Context, customer shared.Customer, remindAt time.Time, interval time.Duration) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Scheduling repayment reminder",
		"customer", customer.Number,
		"remindAt", remindAt,
		"interval", interval,
	)

	rem := shared.Reminder{
		Key:      shared.RepaymentReminderKey,
		RemindAt: remindAt,
		Interval: interval,
	}
	if err := a.Provider.ScheduleReminder(ctx, customer, rem); err != nil {
		return fmt.Errorf("schedule reminder for %s: %w", customer.Number, err)
	}
	return nil
}

// CancelRepaymentReminder removes the repayment reminder. Cancelling an
// absent reminder is a no-op, keeping repeated teardown safe.
func (a *Activities) CancelRepaymentReminder(ctx context.Context, customer shared.Customer) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Cancelling repayment reminder", "customer", customer.Number)

	if err := a.Provider.CancelReminder(ctx, customer, shared.RepaymentReminderKey); err != nil {
		return fmt.Errorf("cancel reminder for %s: %w", customer.Number, err)
	}
	return nil
}
