package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"ussd-loan-engine/shared"
)

// GetProfile reads the customer's metadata record. An absent record comes
// back as a zero-valued profile, never an error, so post-teardown events stay
// harmless.
func (a *Activities) GetProfile(ctx context.Context, customer shared.Customer) (shared.CustomerProfile, error) {
	meta, err := a.Provider.GetProfile(ctx, customer)
	if err != nil {
		return shared.CustomerProfile{}, fmt.Errorf("get profile for %s: %w", customer.Number, err)
	}
	return shared.ProfileFromMetadata(meta), nil
}

// PutProfile overwrites the customer's metadata record with the full profile
// snapshot. Idempotency: naturally idempotent — writing the same snapshot
// twice has the same effect.
func (a *Activities) PutProfile(ctx context.Context, customer shared.Customer, profile shared.CustomerProfile) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Writing profile snapshot",
		"customer", customer.Number,
		"balance", profile.Balance,
		"strike", profile.Strike,
	)
	if err := a.Provider.SetProfile(ctx, customer, profile.Metadata()); err != nil {
		return fmt.Errorf("set profile for %s: %w", customer.Number, err)
	}
	return nil
}

// ClearLoanState tears down the loan record: the loan metadata fields and the
// session app data. Idempotency: deleting absent fields is a no-op at the
// provider, so repeated teardown is safe.
func (a *Activities) ClearLoanState(ctx context.Context, customer shared.Customer) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Clearing loan state", "customer", customer.Number)

	if err := a.Provider.DeleteProfileFields(ctx, customer, shared.LoanProfileKeys); err != nil {
		return fmt.Errorf("delete loan fields for %s: %w", customer.Number, err)
	}
	if err := a.Provider.DeleteAppData(ctx, customer); err != nil {
		return fmt.Errorf("delete app data for %s: %w", customer.Number, err)
	}
	return nil
}
