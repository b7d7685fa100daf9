package activities

import (
	"ussd-loan-engine/provider"
	"ussd-loan-engine/shared"
)

// Activities is the receiver for all activity methods. The struct carries the
// injected provider client and the channel/purse configuration, so workflows
// never see connection details and tests can swap in the in-memory provider
// or mock individual methods.
type Activities struct {
	Provider provider.Client

	SMSChannel   shared.Channel // outbound SMS short code
	VoiceChannel shared.Channel // outbound voice line
	MpesaChannel shared.Channel // payment disbursement channel
	PurseID      string         // merchant funding source
}
