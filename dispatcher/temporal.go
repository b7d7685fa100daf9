package dispatcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"ussd-loan-engine/shared"
	"ussd-loan-engine/workflows"
)

// TemporalStarter implements WorkflowStarter over a Temporal client.
type TemporalStarter struct {
	Client client.Client
}

// StartLoanApproval launches LoanApprovalWorkflow. The workflow ID is keyed
// by customer: it acts as an idempotency key, so a double-confirmed order
// cannot disburse twice while an approval is in flight.
func (t *TemporalStarter) StartLoanApproval(ctx context.Context, req shared.LoanRequest) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("loan-approve-%s", req.Customer.ID),
		TaskQueue: shared.LoanWorkflowTaskQueue,
	}
	_, err := t.Client.ExecuteWorkflow(ctx, opts, workflows.LoanApprovalWorkflow, req)
	return err
}

// StartRepayment launches RepaymentWorkflow. Multiple payments per customer
// are legal, so each run gets a unique suffix.
func (t *TemporalStarter) StartRepayment(ctx context.Context, receipt shared.PaymentReceipt) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("repay-%s-%s", receipt.Customer.ID, uuid.NewString()),
		TaskQueue: shared.LoanWorkflowTaskQueue,
	}
	_, err := t.Client.ExecuteWorkflow(ctx, opts, workflows.RepaymentWorkflow, receipt)
	return err
}

// StartReminder launches ReminderWorkflow for one scheduler tick.
func (t *TemporalStarter) StartReminder(ctx context.Context, fire shared.ReminderFire) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("remind-%s-%s", fire.Customer.ID, uuid.NewString()),
		TaskQueue: shared.LoanWorkflowTaskQueue,
	}
	_, err := t.Client.ExecuteWorkflow(ctx, opts, workflows.ReminderWorkflow, fire)
	return err
}
