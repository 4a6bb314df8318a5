package handlers

import (
	"discord-forum-slack/bot"

	"github.com/bwmarrin/discordgo"
)

// CommandDispatcher routes application command interactions to their
// handlers.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "sync-issue-table":
		HandleSyncIssueTable(b, s, i)
	case "ping":
		HandlePing(s, i)
	}
}

// interactionUserID returns the invoking user's ID for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
