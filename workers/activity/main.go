package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"ussd-loan-engine/activities"
	"ussd-loan-engine/config"
	"ussd-loan-engine/logging"
	"ussd-loan-engine/provider"
	"ussd-loan-engine/shared"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	logger := logging.New(cfg.Logging)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    sdklog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, shared.ActivityTaskQueue, worker.Options{})

	// The in-memory provider stands in for the real messaging/payments
	// connection. A production deployment injects the provider SDK client
	// here; nothing else changes.
	a := &activities.Activities{
		Provider:     provider.NewMemory(),
		SMSChannel:   cfg.Channels.SMSChannel(),
		VoiceChannel: cfg.Channels.VoiceChannel(),
		MpesaChannel: cfg.Channels.MpesaChannel(),
		PurseID:      cfg.Loan.PurseID,
	}
	w.RegisterActivity(a)

	log.Println("Starting activity worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
