package workflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/testsuite"

	"ussd-loan-engine/activities"
	"ussd-loan-engine/shared"
)

func testCustomer() shared.Customer {
	return shared.Customer{ID: "CUST-001", Number: "+254700000001"}
}

func TestLoanApprovalWorkflow_HappyPath(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	actv := &activities.Activities{}
	env.RegisterActivity(actv)

	env.OnActivity(actv.GetProfile, mock.Anything, mock.Anything).Return(
		shared.CustomerProfile{Name: "Wanjiku"}, nil,
	)
	env.OnActivity(actv.InitiatePayment, mock.Anything, mock.Anything, mock.Anything).Return(
		shared.PaymentResult{Status: shared.PaymentStatusQueued, Description: "queued for disbursement"}, nil,
	)

	var snapshot shared.CustomerProfile
	env.OnActivity(actv.PutProfile, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { snapshot = args.Get(2).(shared.CustomerProfile) }).
		Return(nil)

	var smsText string
	env.OnActivity(actv.SendSMS, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { smsText = args.Get(2).(string) }).
		Return(nil)

	var remindAt time.Time
	var interval time.Duration
	env.OnActivity(actv.ScheduleRepaymentReminder, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			remindAt = args.Get(2).(time.Time)
			interval = args.Get(3).(time.Duration)
		}).
		Return(nil)

	start := env.Now()
	req := shared.LoanRequest{
		Customer:         testCustomer(),
		Amount:           1500,
		ReminderLead:     time.Hour,
		ReminderInterval: 30 * time.Minute,
	}
	env.ExecuteWorkflow(LoanApprovalWorkflow, req)

	assert.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())

	var result string
	assert.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, "LOAN-CUST-001-APPROVED", result)

	// Balance is set to the approved amount, not added.
	assert.Equal(t, "Wanjiku", snapshot.Name)
	assert.Equal(t, int64(1500), snapshot.Balance)

	assert.Contains(t, smsText, "Congratulations Wanjiku!")
	assert.Contains(t, smsText, "KES 1500")

	assert.WithinDuration(t, start.Add(time.Hour), remindAt, time.Second)
	assert.Equal(t, 30*time.Minute, interval)
}

func TestLoanApprovalWorkflow_RejectedStatus_NoStateCommitted(t *testing.T) {
	// Only the profile read and the payment request are registered: if a
	// rejected disbursement tried to write state or schedule a reminder, the
	// workflow would fail on an unregistered activity.
	for _, status := range []shared.PaymentStatus{"failed", "rejected", "insufficient_funds", ""} {
		t.Run(string(status), func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestWorkflowEnvironment()
			actv := &activities.Activities{}
			env.RegisterActivity(actv.GetProfile)
			env.RegisterActivity(actv.InitiatePayment)

			env.OnActivity(actv.GetProfile, mock.Anything, mock.Anything).Return(
				shared.CustomerProfile{Name: "Wanjiku"}, nil,
			)
			env.OnActivity(actv.InitiatePayment, mock.Anything, mock.Anything, mock.Anything).Return(
				shared.PaymentResult{Status: status, Description: "provider said no"}, nil,
			)

			env.ExecuteWorkflow(LoanApprovalWorkflow, shared.LoanRequest{Customer: testCustomer(), Amount: 800})

			assert.True(t, env.IsWorkflowCompleted())
			assert.NoError(t, env.GetWorkflowError())

			var result string
			assert.NoError(t, env.GetWorkflowResult(&result))
			assert.Equal(t, "LOAN-CUST-001-REJECTED", result)
		})
	}
}

func TestLoanApprovalWorkflow_AcceptedStatuses(t *testing.T) {
	statuses := []shared.PaymentStatus{
		shared.PaymentStatusSuccess,
		shared.PaymentStatusQueued,
		shared.PaymentStatusPendingConfirmation,
		shared.PaymentStatusPendingValidation,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestWorkflowEnvironment()
			actv := &activities.Activities{}
			env.RegisterActivity(actv)

			env.OnActivity(actv.GetProfile, mock.Anything, mock.Anything).Return(shared.CustomerProfile{Name: "A"}, nil)
			env.OnActivity(actv.InitiatePayment, mock.Anything, mock.Anything, mock.Anything).Return(
				shared.PaymentResult{Status: status}, nil,
			)
			env.OnActivity(actv.PutProfile, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			env.OnActivity(actv.SendSMS, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			env.OnActivity(actv.ScheduleRepaymentReminder, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

			env.ExecuteWorkflow(LoanApprovalWorkflow, shared.LoanRequest{Customer: testCustomer(), Amount: 100})

			assert.True(t, env.IsWorkflowCompleted())
			assert.NoError(t, env.GetWorkflowError())

			var result string
			assert.NoError(t, env.GetWorkflowResult(&result))
			assert.Equal(t, "LOAN-CUST-001-APPROVED", result)
		})
	}
}

func TestLoanApprovalWorkflow_DisbursementRequestError(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	actv := &activities.Activities{}
	env.RegisterActivity(actv.GetProfile)
	env.RegisterActivity(actv.InitiatePayment)

	env.OnActivity(actv.GetProfile, mock.Anything, mock.Anything).Return(shared.CustomerProfile{}, nil)
	env.OnActivity(actv.InitiatePayment, mock.Anything, mock.Anything, mock.Anything).Return(
		shared.PaymentResult{}, assert.AnError,
	)

	env.ExecuteWorkflow(LoanApprovalWorkflow, shared.LoanRequest{Customer: testCustomer(), Amount: 100})

	assert.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}
