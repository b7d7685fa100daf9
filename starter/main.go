// Command starter is an interactive subscriber simulator: it drives the
// dispatcher end-to-end against the in-memory provider. It hosts its own
// workflow and activity workers so the whole demo shares one in-memory
// provider and only needs a running Temporal server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"ussd-loan-engine/activities"
	"ussd-loan-engine/config"
	"ussd-loan-engine/dispatcher"
	"ussd-loan-engine/logging"
	"ussd-loan-engine/provider"
	"ussd-loan-engine/shared"
	"ussd-loan-engine/workflows"
)

const exchangeTimeout = 10 * time.Second

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

	mem := provider.NewMemory()

	wfWorker := worker.New(c, shared.LoanWorkflowTaskQueue, worker.Options{})
	wfWorker.RegisterWorkflow(workflows.LoanApprovalWorkflow)
	wfWorker.RegisterWorkflow(workflows.RepaymentWorkflow)
	wfWorker.RegisterWorkflow(workflows.ReminderWorkflow)
	if err := wfWorker.Start(); err != nil {
		log.Fatalf("Unable to start workflow worker: %v", err)
	}
	defer wfWorker.Stop()

	actWorker := worker.New(c, shared.ActivityTaskQueue, worker.Options{})
	actWorker.RegisterActivity(&activities.Activities{
		Provider:     mem,
		SMSChannel:   cfg.Channels.SMSChannel(),
		VoiceChannel: cfg.Channels.VoiceChannel(),
		MpesaChannel: cfg.Channels.MpesaChannel(),
		PurseID:      cfg.Loan.PurseID,
	})
	if err := actWorker.Start(); err != nil {
		log.Fatalf("Unable to start activity worker: %v", err)
	}
	defer actWorker.Stop()

	d := dispatcher.New(mem, &dispatcher.TemporalStarter{Client: c}, logger,
		cfg.Loan.ReminderLead.AsDuration(), cfg.Loan.ReminderInterval.AsDuration())

	customer := shared.Customer{ID: "CUST-001", Number: "+254700000001"}

	// Seed the customer's pre-approved order credit so the demo disburses a
	// non-zero amount.
	seed := shared.CustomerProfile{Balance: 1500}
	if err := mem.SetProfile(context.Background(), customer, seed.Metadata()); err != nil {
		log.Fatalf("Unable to seed profile: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println()
	fmt.Printf("App is connected, waiting for customers on %s\n", cfg.Channels.UssdCode)

	for {
		fmt.Println()
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println("  Subscriber Simulator")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println()
		fmt.Printf("  [1] Dial %s (USSD session)\n", cfg.Channels.UssdCode)
		fmt.Println("  [2] Send a payment")
		fmt.Println("  [3] Fire the repayment reminder")
		fmt.Println("  [4] Show profile and outbox")
		fmt.Println("  [5] Exit")
		fmt.Println()
		fmt.Print("Choose: ")

		choice, _ := reader.ReadString('\n')
		switch strings.TrimSpace(choice) {
		case "1":
			runUssdSession(d, mem, customer, reader)
		case "2":
			sendPayment(d, customer, reader)
		case "3":
			fireReminder(d, mem, customer)
		case "4":
			showState(mem, customer)
		case "5":
			fmt.Println("👋 Bye.")
			return
		default:
			fmt.Println("❌ Invalid choice. Please enter 1-5.")
		}
	}
}

// runUssdSession plays one full USSD session: the first exchange carries an
// empty input, every following exchange carries what the subscriber typed,
// until a terminal menu ends the session.
func runUssdSession(d *dispatcher.Dispatcher, mem *provider.Memory, customer shared.Customer, reader *bufio.Reader) {
	sessionID := uuid.NewString()
	input := ""

	for {
		var appData *shared.SessionState
		if s, ok := mem.SessionData(customer); ok {
			appData = &s
		}

		respond := dispatcher.NewResponder()
		ctx, cancel := context.WithTimeout(context.Background(), exchangeTimeout)
		d.OnUssdSession(ctx, shared.UssdEvent{SessionID: sessionID, Input: input}, customer, appData, respond)

		reply, err := respond.Wait(ctx)
		cancel()
		if err != nil {
			fmt.Printf("📵 Session dropped: %v\n", err)
			return
		}
		mem.SetSessionData(customer, reply.Next)

		fmt.Println()
		fmt.Println(reply.Menu.Text)
		if reply.Menu.IsTerminal {
			return
		}

		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		input = strings.TrimSpace(line)
	}
}

func sendPayment(d *dispatcher.Dispatcher, customer shared.Customer, reader *bufio.Reader) {
	fmt.Print("Amount (KES): ")
	line, _ := reader.ReadString('\n')
	amount, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || amount <= 0 {
		fmt.Println("❌ Enter a positive whole amount.")
		return
	}

	event := shared.PaymentEvent{TransactionID: uuid.NewString(), Amount: amount}
	d.OnPaymentReceived(context.Background(), event, customer)
	fmt.Printf("✅ Payment of KES %d delivered.\n", amount)
}

func fireReminder(d *dispatcher.Dispatcher, mem *provider.Memory, customer shared.Customer) {
	rem, ok := mem.Reminder(customer, shared.RepaymentReminderKey)
	if !ok {
		fmt.Println("❌ No reminder scheduled — approve a loan first.")
		return
	}

	d.OnReminder(context.Background(), shared.ReminderEvent{Key: rem.Key, Payload: rem.Payload}, customer)
	fmt.Println("✅ Reminder tick delivered.")
}

func showState(mem *provider.Memory, customer shared.Customer) {
	meta, err := mem.GetProfile(context.Background(), customer)
	if err != nil {
		fmt.Printf("❌ Profile read failed: %v\n", err)
		return
	}
	profile := shared.ProfileFromMetadata(meta)

	fmt.Println()
	fmt.Printf("📋 Profile: name=%q balance=%d strike=%d items=%v\n",
		profile.Name, profile.Balance, profile.Strike, profile.Items)
	if rem, ok := mem.Reminder(customer, shared.RepaymentReminderKey); ok {
		fmt.Printf("⏰ Reminder %q: first fire %s, every %s\n",
			rem.Key, rem.RemindAt.Format(time.RFC1123), rem.Interval)
	}

	messages := mem.Messages()
	fmt.Printf("📨 Outbox (%d):\n", len(messages))
	for _, msg := range messages {
		body := msg.Body.Text
		if msg.Body.Say != nil {
			body = "(voice) " + msg.Body.Say.Text
		}
		fmt.Printf("  [%s %s] %s\n", msg.Channel.Kind, msg.Channel.Number, body)
	}
}
