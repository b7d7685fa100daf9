package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"ussd-loan-engine/shared"
)

// SendSMS delivers a text over the SMS short code.
// Idempotency: not naturally idempotent (a retry would send a duplicate
// text), which is why the loan workflows run their send steps without
// retries.
func (a *Activities) SendSMS(ctx context.Context, customer shared.Customer, text string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Sending SMS", "customer", customer.Number)

	body := shared.MessageBody{Text: text}
	if err := a.Provider.SendMessage(ctx, a.SMSChannel, customer, body); err != nil {
		return fmt.Errorf("send SMS to %s: %w", customer.Number, err)
	}
	return nil
}

// PlaceVoiceCall rings the customer and reads the text with a synthesized
// male voice, the tier-3 escalation channel.
func (a *Activities) PlaceVoiceCall(ctx context.Context, customer shared.Customer, text string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Placing voice call", "customer", customer.Number)

	body := shared.MessageBody{Say: &shared.SaySpec{Text: text, Voice: "male"}}
	if err := a.Provider.SendMessage(ctx, a.VoiceChannel, customer, body); err != nil {
		return fmt.Errorf("place voice call to %s: %w", customer.Number, err)
	}
	return nil
}
