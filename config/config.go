package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"discord-forum-slack/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads the bot configuration from multiple sources:
// 1. .env file (for environment variables), skipped if absent.
// 2. config.yaml in the working directory, or the file named by the
// DISCORD_BOT_CONFIG_PATH environment variable.
// Environment variables override settings of the same name from the file.
// A missing config file is tolerated (env-only deployments); a malformed
// one, or missing required fields, is a fatal configuration error.
func LoadConfig() (*models.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	if path := os.Getenv("DISCORD_BOT_CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yaml found, using environment variables only.")
		} else {
			return nil, fmt.Errorf("fatal error reading config file: %w", err)
		}
	}

	cfg := &models.Config{
		DiscordToken:       strings.TrimSpace(viper.GetString("discord_token")),
		SlackWebhookURL:    strings.TrimSpace(viper.GetString("slack_webhook_url")),
		ForumChannelIDs:    trimAll(viper.GetStringSlice("forum_channel_ids")),
		TriggerWebhookURL:  strings.TrimSpace(viper.GetString("trigger_webhook_url")),
		SyncCommandUserIDs: trimAll(viper.GetStringSlice("sync_command_user_ids")),
		SyncSchedule:       strings.TrimSpace(viper.GetString("sync_schedule")),
		AdminChannelID:     strings.TrimSpace(viper.GetString("admin_channel_id")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// trimAll trims every entry and drops the empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
