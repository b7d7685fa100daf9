package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"ussd-loan-engine/shared"
)

// RepaymentWorkflow reconciles one inbound payment against the outstanding
// loan balance.
//
// The new balance is written unconditionally, then either the loan is torn
// down (balance settled or over-paid — surplus is forgiven) or a partial
// acknowledgment is sent quoting the remainder. Running against an absent
// profile is harmless: reads default to zero values and teardown steps are
// no-ops at the provider.
func RepaymentWorkflow(ctx workflow.Context, receipt shared.PaymentReceipt) (string, error) {
	logger := workflow.GetLogger(ctx)
	actCtx := workflow.WithActivityOptions(ctx, loanActivityOptions())

	logger.Info("Processing payment",
		"customer", receipt.Customer.Number,
		"amount", receipt.Amount,
	)

	var profile shared.CustomerProfile
	if err := workflow.ExecuteActivity(actCtx, a.GetProfile, receipt.Customer).Get(ctx, &profile); err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}

	newBalance := profile.Balance - receipt.Amount
	snapshot := shared.CustomerProfile{
		Name:    profile.Name,
		Balance: newBalance,
	}
	if err := workflow.ExecuteActivity(actCtx, a.PutProfile, receipt.Customer, snapshot).Get(ctx, nil); err != nil {
		return "", fmt.Errorf("failed to write balance: %w", err)
	}

	if newBalance > 0 {
		text := fmt.Sprintf("Hey %s!\nThank you for your payment, but you still owe me KES %d", profile.Name, newBalance)
		if err := workflow.ExecuteActivity(actCtx, a.SendSMS, receipt.Customer, text).Get(ctx, nil); err != nil {
			return "", fmt.Errorf("failed to send partial-payment SMS: %w", err)
		}
		logger.Info("Partial repayment recorded",
			"customer", receipt.Customer.Number,
			"remaining", newBalance,
		)
		return fmt.Sprintf("REPAY-%s-PARTIAL", receipt.Customer.ID), nil
	}

	// Fully repaid: cancel the reminder, thank the customer, tear down the
	// loan record.
	if err := workflow.ExecuteActivity(actCtx, a.CancelRepaymentReminder, receipt.Customer).Get(ctx, nil); err != nil {
		return "", fmt.Errorf("failed to cancel reminder: %w", err)
	}

	text := fmt.Sprintf("Thank you for your payment %s, your loan has been fully repaid!!", profile.Name)
	if err := workflow.ExecuteActivity(actCtx, a.SendSMS, receipt.Customer, text).Get(ctx, nil); err != nil {
		return "", fmt.Errorf("failed to send repayment SMS: %w", err)
	}

	if err := workflow.ExecuteActivity(actCtx, a.ClearLoanState, receipt.Customer).Get(ctx, nil); err != nil {
		return "", fmt.Errorf("failed to clear loan state: %w", err)
	}

	logger.Info("Loan fully repaid", "customer", receipt.Customer.Number)
	return fmt.Sprintf("REPAY-%s-SETTLED", receipt.Customer.ID), nil
}
