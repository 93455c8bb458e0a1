// Command payout-reminder mails disbursement officers a digest of due,
// unexecuted schedule entries. It only reads the ledger and sends mail; no
// money moves here.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bursary-management-api/config"
	"bursary-management-api/models"
	"bursary-management-api/services"
	"bursary-management-api/utils"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	config.InitDB()

	store := services.NewGormStore(config.DB)
	scheduler := services.NewDisbursementScheduler(store, services.NewFundLedgerService(store), services.NewWorkflowEngine(store))

	spec := os.Getenv("REMINDER_CRON")
	if spec == "" {
		spec = "0 8 * * *" // daily at 08:00
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { sendDigest(scheduler) }); err != nil {
		log.Fatalf("invalid REMINDER_CRON %q: %v", spec, err)
	}
	c.Start()
	log.Printf("payout-reminder running with schedule %q", spec)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
}

func sendDigest(scheduler *services.DisbursementScheduler) {
	entries, err := scheduler.DueEntries(time.Now())
	if err != nil {
		log.Printf("REMINDER: failed to list due entries: %v", err)
		return
	}
	if len(entries) == 0 {
		log.Println("REMINDER: nothing due")
		return
	}

	var officers []models.User
	if err := config.DB.Where("role = ? AND delete_at IS NULL", models.RoleDisbursementOfficer).
		Find(&officers).Error; err != nil {
		log.Printf("REMINDER: failed to list officers: %v", err)
		return
	}
	recipients := make([]string, 0, len(officers))
	for _, officer := range officers {
		recipients = append(recipients, officer.Email)
	}
	if len(recipients) == 0 {
		log.Println("REMINDER: no disbursement officers configured")
		return
	}

	var b strings.Builder
	b.WriteString("<p>Schedule entries due for disbursement:</p><ul>")
	for _, entry := range entries {
		number := entry.EntryRef
		if entry.Application != nil {
			number = entry.Application.ApplicationNumber
		}
		fmt.Fprintf(&b, "<li>%s: %s scheduled for %s</li>",
			number, utils.FormatAmount(entry.Amount), entry.ScheduledDate.Format("2006-01-02"))
	}
	b.WriteString("</ul>")

	subject := fmt.Sprintf("%d disbursement(s) due", len(entries))
	if err := config.SendMail(recipients, subject, b.String()); err != nil {
		log.Printf("REMINDER: failed to send digest: %v", err)
		return
	}
	log.Printf("REMINDER: sent digest of %d entries to %d officers", len(entries), len(recipients))
}
