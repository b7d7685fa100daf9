package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"ussd-loan-engine/shared"
)

// InitiatePayment requests a KES disbursement from the merchant purse to the
// customer's payment channel. A non-accepted provider status is a business
// outcome reported in the result, not an activity error — the workflow
// decides whether to abort.
func (a *Activities) InitiatePayment(ctx context.Context, customer shared.Customer, amount int64) (shared.PaymentResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Initiating disbursement",
		"customer", customer.Number,
		"amount", amount,
		"currency", shared.CurrencyKES,
	)

	res, err := a.Provider.InitiatePayment(ctx, a.PurseID, a.MpesaChannel, customer, amount, shared.CurrencyKES)
	if err != nil {
		return shared.PaymentResult{}, fmt.Errorf("initiate payment to %s: %w", customer.Number, err)
	}

	logger.Info("Disbursement requested", "status", res.Status, "description", res.Description)
	return res, nil
}
