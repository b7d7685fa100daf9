package shared

import (
	"strconv"
	"strings"
	"time"
)

// Customer identifies a subscriber on the provider's network.
type Customer struct {
	ID     string `json:"id"`
	Number string `json:"number"` // MSISDN in international format
}

// Channel is a delivery medium plus its addressing number, e.g. an SMS short
// code, a voice line, or an M-Pesa paybill.
type Channel struct {
	Number string      `json:"number"`
	Kind   ChannelKind `json:"kind"`
}

// CustomerProfile is the per-customer record held in the provider's key-value
// metadata store. Balance, name, strike and screen are meaningful only while a
// loan is outstanding; full repayment clears them.
type CustomerProfile struct {
	Name    string   `json:"name,omitempty"`
	Balance int64    `json:"balance,omitempty"` // whole KES, may go negative on over-payment
	Strike  int      `json:"strike,omitempty"`  // escalation level, starts at 1, unbounded
	Items   []string `json:"items,omitempty"`   // captured order list
	Screen  Screen   `json:"screen,omitempty"`
}

// HasLoan reports whether the profile carries an active loan record.
func (p CustomerProfile) HasLoan() bool {
	return p.Name != ""
}

// Metadata flattens the profile to the provider's key-value representation.
// Zero-valued fields are omitted; an absent key reads back as the zero value,
// so a full-snapshot overwrite with omitted keys is equivalent to writing
// zeroes.
func (p CustomerProfile) Metadata() map[string]string {
	m := make(map[string]string)
	if p.Name != "" {
		m[MetaName] = p.Name
	}
	if p.Balance != 0 {
		m[MetaBalance] = strconv.FormatInt(p.Balance, 10)
	}
	if p.Strike != 0 {
		m[MetaStrike] = strconv.Itoa(p.Strike)
	}
	if len(p.Items) != 0 {
		m[MetaItems] = strings.Join(p.Items, " ")
	}
	if p.Screen != "" {
		m[MetaScreen] = string(p.Screen)
	}
	return m
}

// ProfileFromMetadata parses the provider's key-value metadata into a profile.
// Missing or malformed values degrade to zero values rather than erroring:
// handlers must behave after a partial or absent record (e.g. post-teardown).
func ProfileFromMetadata(m map[string]string) CustomerProfile {
	var p CustomerProfile
	if m == nil {
		return p
	}
	p.Name = m[MetaName]
	if v, err := strconv.ParseInt(m[MetaBalance], 10, 64); err == nil {
		p.Balance = v
	}
	if v, err := strconv.Atoi(m[MetaStrike]); err == nil {
		p.Strike = v
	}
	if items := strings.Fields(m[MetaItems]); len(items) != 0 {
		p.Items = items
	}
	p.Screen = Screen(m[MetaScreen])
	return p
}

// Menu is the output of one USSD state-machine step.
type Menu struct {
	Text       string `json:"text"`
	IsTerminal bool   `json:"isTerminal"` // true ends the session
}

// SessionState is the per-session app data the provider carries between USSD
// exchanges. It holds only the screen pointer for the next exchange.
type SessionState struct {
	Screen Screen `json:"screen"`
}

// UssdEvent is one inbound USSD exchange from a subscriber.
type UssdEvent struct {
	SessionID string `json:"sessionId"`
	Input     string `json:"input"`
}

// PaymentEvent is an inbound customer payment, consumed once by repayment
// reconciliation.
type PaymentEvent struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"` // whole KES
}

// ReminderEvent is one scheduled reminder tick from the provider's scheduler.
type ReminderEvent struct {
	Key     string `json:"key"`
	Payload string `json:"payload"`
}

// PaymentResult is the provider's response to a disbursement request.
type PaymentResult struct {
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description"`
}

// Reminder is a recurring notification registered with the provider's
// scheduler, referenced by key for cancellation.
type Reminder struct {
	Key      string        `json:"key"`
	RemindAt time.Time     `json:"remindAt"`
	Interval time.Duration `json:"interval"`
	Payload  string        `json:"payload"`
}

// MessageBody is the body of an outbound message. Text is used on SMS
// channels; Say on voice channels.
type MessageBody struct {
	Text string   `json:"text,omitempty"`
	Say  *SaySpec `json:"say,omitempty"`
}

// SaySpec is a synthesized speech instruction for a voice call.
type SaySpec struct {
	Text  string `json:"text"`
	Voice string `json:"voice"` // "male" or "female"
}

// LoanRequest is the input to LoanApprovalWorkflow.
type LoanRequest struct {
	Customer         Customer      `json:"customer"`
	Amount           int64         `json:"amount"` // whole KES
	ReminderLead     time.Duration `json:"reminderLead"`
	ReminderInterval time.Duration `json:"reminderInterval"`
}

// PaymentReceipt is the input to RepaymentWorkflow.
type PaymentReceipt struct {
	Customer Customer `json:"customer"`
	Amount   int64    `json:"amount"` // whole KES
}

// ReminderFire is the input to ReminderWorkflow, one per scheduler tick.
type ReminderFire struct {
	Customer Customer `json:"customer"`
	Key      string   `json:"key"`
}
