package models

import "fmt"

// Config holds the bot's runtime configuration, loaded once at startup
// and read-only thereafter.
type Config struct {
	// DiscordToken is the bot token used to open the gateway session.
	DiscordToken string
	// SlackWebhookURL receives the rich notification for new threads.
	SlackWebhookURL string
	// ForumChannelIDs is the set of forum channels to relay. An empty
	// list disables the thread-create path.
	ForumChannelIDs []string
	// TriggerWebhookURL receives the compact summary record. Optional;
	// when empty the summary send and the sync command are no-ops.
	TriggerWebhookURL string
	// SyncCommandUserIDs restricts who may run /sync-issue-table.
	// An empty list permits everyone.
	SyncCommandUserIDs []string
	// SyncSchedule is an optional cron expression for periodic sync.
	SyncSchedule string
	// AdminChannelID is an optional Discord channel for operational logs.
	AdminChannelID string
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	if c.DiscordToken == "" || c.SlackWebhookURL == "" {
		return fmt.Errorf("discord_token or slack_webhook_url is not set")
	}
	return nil
}
