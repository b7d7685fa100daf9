package shared

import "time"

// Task queue names.
const (
	LoanWorkflowTaskQueue = "loan-workflow-tq"
	ActivityTaskQueue     = "activity-tq"
)

// RepaymentReminderKey identifies the recurring repayment reminder on the
// provider's scheduler. One loan per customer means one reminder per customer.
const RepaymentReminderKey = "moni"

// CurrencyKES is the currency for all disbursements and repayments.
const CurrencyKES = "KES"

// Demo-scale reminder timing. Production deployments override both via config
// (think days, not minutes).
const (
	DefaultReminderLead     = time.Minute
	DefaultReminderInterval = time.Minute
)

// PaymentStatus is the disbursement result status reported by the provider.
type PaymentStatus string

const (
	PaymentStatusSuccess             PaymentStatus = "success"
	PaymentStatusQueued              PaymentStatus = "queued"
	PaymentStatusPendingConfirmation PaymentStatus = "pending_confirmation"
	PaymentStatusPendingValidation   PaymentStatus = "pending_validation"
)

// Accepted reports whether a disbursement status counts as accepted. Anything
// outside this set aborts loan approval (fail-closed).
func (s PaymentStatus) Accepted() bool {
	switch s {
	case PaymentStatusSuccess, PaymentStatusQueued, PaymentStatusPendingConfirmation, PaymentStatusPendingValidation:
		return true
	}
	return false
}

// Screen names of the USSD menu state machine.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenRequestList  Screen = "request-list"
	ScreenDisplayItems Screen = "display-items"
	ScreenFinishOrder  Screen = "finish-order"
	ScreenInfo         Screen = "info"
	ScreenQuit         Screen = "quit"
)

// ChannelKind is a delivery medium for outbound traffic.
type ChannelKind string

const (
	ChannelSMS      ChannelKind = "sms"
	ChannelVoice    ChannelKind = "voice"
	ChannelCellular ChannelKind = "cellular"
)

// Profile metadata keys as stored by the provider.
const (
	MetaName    = "name"
	MetaBalance = "balance"
	MetaStrike  = "strike"
	MetaItems   = "items"
	MetaScreen  = "screen"
)

// LoanProfileKeys are the metadata keys torn down when a loan is fully repaid.
var LoanProfileKeys = []string{MetaName, MetaStrike, MetaBalance, MetaScreen}
