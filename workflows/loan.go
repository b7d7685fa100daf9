package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"ussd-loan-engine/shared"
)

// loanApproval holds the state of one approval run and provides methods for
// each phase: disburse, record, notify, schedule.
type loanApproval struct {
	req           shared.LoanRequest
	name          string    // customer name from the profile read
	repaymentDate time.Time // due date quoted to the customer and used as first fire

	logger log.Logger
	actCtx workflow.Context
}

func newLoanApproval(ctx workflow.Context, req shared.LoanRequest) *loanApproval {
	if req.ReminderLead <= 0 {
		req.ReminderLead = shared.DefaultReminderLead
	}
	if req.ReminderInterval <= 0 {
		req.ReminderInterval = shared.DefaultReminderInterval
	}
	return &loanApproval{
		req:           req,
		repaymentDate: workflow.Now(ctx).Add(req.ReminderLead),
		logger:        workflow.GetLogger(ctx),
		actCtx:        workflow.WithActivityOptions(ctx, loanActivityOptions()),
	}
}

// loanActivityOptions configures the activity calls shared by all three loan
// workflows. MaximumAttempts is 1: sends are not idempotent and the loan
// flows have no compensating rollback, so a failed step fails the run rather
// than replaying side effects.
func loanActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

// disburse requests the payment and evaluates the provider's status against
// the accepted set. A rejected status aborts the approval fail-closed: no
// profile write, no reminder.
func (w *loanApproval) disburse(ctx workflow.Context) (accepted bool, err error) {
	var res shared.PaymentResult
	err = workflow.ExecuteActivity(w.actCtx, a.InitiatePayment, w.req.Customer, w.req.Amount).Get(ctx, &res)
	if err != nil {
		return false, fmt.Errorf("disbursement request failed: %w", err)
	}

	if !res.Status.Accepted() {
		w.logger.Error("Disbursement rejected by provider",
			"customer", w.req.Customer.Number,
			"amount", w.req.Amount,
			"status", res.Status,
			"description", res.Description,
		)
		return false, nil
	}
	return true, nil
}

// record writes the fresh loan snapshot: the balance is set to the approved
// amount, not added to — this is a new loan, not an increment.
func (w *loanApproval) record(ctx workflow.Context) error {
	snapshot := shared.CustomerProfile{
		Name:    w.name,
		Balance: w.req.Amount,
	}
	if err := workflow.ExecuteActivity(w.actCtx, a.PutProfile, w.req.Customer, snapshot).Get(ctx, nil); err != nil {
		return fmt.Errorf("failed to record loan: %w", err)
	}
	return nil
}

// notify congratulates the customer and quotes the repayment due date.
func (w *loanApproval) notify(ctx workflow.Context) error {
	text := fmt.Sprintf(
		"Congratulations %s!\nYour loan of KES %d has been approved!\nYou are expected to pay it back by %s",
		w.name, w.req.Amount, w.repaymentDate.Format(time.RFC1123),
	)
	if err := workflow.ExecuteActivity(w.actCtx, a.SendSMS, w.req.Customer, text).Get(ctx, nil); err != nil {
		return fmt.Errorf("failed to send approval SMS: %w", err)
	}
	return nil
}

// schedule registers the recurring repayment reminder, first firing at the
// due date.
func (w *loanApproval) schedule(ctx workflow.Context) error {
	err := workflow.ExecuteActivity(w.actCtx, a.ScheduleRepaymentReminder,
		w.req.Customer, w.repaymentDate, w.req.ReminderInterval).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to schedule repayment reminder: %w", err)
	}
	return nil
}

// LoanApprovalWorkflow disburses a micro-loan and sets up its collection.
//
// Steps, each dependent on the previous:
//
//	read profile → initiate payment → gate on accepted status →
//	record {name, balance} → congratulate via SMS → schedule "moni" reminder
//
// A rejected disbursement status ends the run with no state committed; the
// customer can retry with a future order.
func LoanApprovalWorkflow(ctx workflow.Context, req shared.LoanRequest) (string, error) {
	w := newLoanApproval(ctx, req)

	w.logger.Info("Processing loan",
		"customer", req.Customer.Number,
		"amount", req.Amount,
	)

	var profile shared.CustomerProfile
	if err := workflow.ExecuteActivity(w.actCtx, a.GetProfile, req.Customer).Get(ctx, &profile); err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	w.name = profile.Name

	accepted, err := w.disburse(ctx)
	if err != nil {
		return "", err
	}
	if !accepted {
		return fmt.Sprintf("LOAN-%s-REJECTED", req.Customer.ID), nil
	}

	if err := w.record(ctx); err != nil {
		return "", err
	}
	if err := w.notify(ctx); err != nil {
		return "", err
	}
	if err := w.schedule(ctx); err != nil {
		return "", err
	}

	w.logger.Info("Loan approved",
		"customer", req.Customer.Number,
		"amount", req.Amount,
		"repaymentDate", w.repaymentDate,
	)
	return fmt.Sprintf("LOAN-%s-APPROVED", req.Customer.ID), nil
}
