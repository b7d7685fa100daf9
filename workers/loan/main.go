package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"ussd-loan-engine/config"
	"ussd-loan-engine/logging"
	"ussd-loan-engine/shared"
	"ussd-loan-engine/workflows"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	logger := logging.New(cfg.Logging)

	// HostPort defaults to localhost:7233 and Namespace to "default" when
	// left empty, which is what local development wants.
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    sdklog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, shared.LoanWorkflowTaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.LoanApprovalWorkflow)
	w.RegisterWorkflow(workflows.RepaymentWorkflow)
	w.RegisterWorkflow(workflows.ReminderWorkflow)

	log.Println("Starting loan workflow worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
