package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"ussd-loan-engine/shared"
)

// reminderTier maps a strike count to its escalation tier. Tiers cap at 3:
// the stored counter keeps growing, the behavior saturates.
func reminderTier(strike int) int {
	switch {
	case strike <= 1:
		return 1
	case strike == 2:
		return 2
	default:
		return 3
	}
}

// ReminderWorkflow runs one repayment-reminder tick: pick the tone/channel
// from the strike count, nag the customer, advance the counter.
//
// Every failure is logged and swallowed — a misfire must never crash the
// scheduler or cancel the next scheduled fire, so this workflow always
// completes without error.
func ReminderWorkflow(ctx workflow.Context, fire shared.ReminderFire) (string, error) {
	logger := workflow.GetLogger(ctx)
	actCtx := workflow.WithActivityOptions(ctx, loanActivityOptions())

	logger.Info("Processing reminder", "customer", fire.Customer.Number, "key", fire.Key)

	var profile shared.CustomerProfile
	if err := workflow.ExecuteActivity(actCtx, a.GetProfile, fire.Customer).Get(ctx, &profile); err != nil {
		logger.Error("Reminder profile read failed", "customer", fire.Customer.Number, "error", err)
		return fmt.Sprintf("REMIND-%s-FAILED", fire.Customer.ID), nil
	}

	strike := profile.Strike
	if strike < 1 {
		strike = 1 // first fire
	}

	var err error
	tier := reminderTier(strike)
	switch tier {
	case 1:
		text := fmt.Sprintf("Hello %s, this is a friendly reminder to pay back my KES %d", profile.Name, profile.Balance)
		err = workflow.ExecuteActivity(actCtx, a.SendSMS, fire.Customer, text).Get(ctx, nil)
	case 2:
		text := fmt.Sprintf("Hey %s, you still need to pay back my KES %d", profile.Name, profile.Balance)
		err = workflow.ExecuteActivity(actCtx, a.SendSMS, fire.Customer, text).Get(ctx, nil)
	default:
		text := fmt.Sprintf("Yo %s!!!! you need to pay back my KES %d", profile.Name, profile.Balance)
		err = workflow.ExecuteActivity(actCtx, a.PlaceVoiceCall, fire.Customer, text).Get(ctx, nil)
	}
	if err != nil {
		logger.Error("Reminder send failed", "customer", fire.Customer.Number, "tier", tier, "error", err)
		return fmt.Sprintf("REMIND-%s-FAILED", fire.Customer.ID), nil
	}

	// Advance the counter regardless of tier, preserving the rest of the
	// record.
	profile.Strike = strike + 1
	if err := workflow.ExecuteActivity(actCtx, a.PutProfile, fire.Customer, profile).Get(ctx, nil); err != nil {
		logger.Error("Reminder strike update failed", "customer", fire.Customer.Number, "error", err)
		return fmt.Sprintf("REMIND-%s-FAILED", fire.Customer.ID), nil
	}

	return fmt.Sprintf("REMIND-%s-TIER%d", fire.Customer.ID, tier), nil
}
