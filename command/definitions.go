package command

import "github.com/bwmarrin/discordgo"

// SyncIssueTableCommand defines the structure for the /sync-issue-table command.
type SyncIssueTableCommand struct{}

// Definition returns the application command definition.
func (c *SyncIssueTableCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "sync-issue-table",
		Description: "포럼 채널 전체 글을 슬랙의 장표에 동기화합니다",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}
