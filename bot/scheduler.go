package bot

import (
	"fmt"
	"log"

	"discord-forum-slack/utils"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the optional periodic sync job. A bad cron
// expression is a configuration error and aborts startup.
func startScheduler(b *Bot) {
	if b.Config.SyncSchedule == "" {
		log.Println("No sync_schedule configured, periodic sync disabled.")
		return
	}

	c = cron.New()
	_, err := c.AddFunc(b.Config.SyncSchedule, func() {
		log.Println("Running scheduled issue table sync...")
		count := b.Relay.SyncAll()
		utils.Info("bot", "scheduled_sync", fmt.Sprintf("%d threads sent", count))
	})
	if err != nil {
		log.Fatalf("Could not set up sync cron job: %v", err)
	}
	c.Start()
	log.Printf("Sync scheduled with cron expression %q.", b.Config.SyncSchedule)
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
