package handlers

import (
	"fmt"
	"log"

	"discord-forum-slack/bot"

	"github.com/bwmarrin/discordgo"
)

// HandleSyncIssueTable handles the logic for the /sync-issue-table
// command: after the permission and configuration checks it defers an
// ephemeral response, runs the full re-scan in a goroutine, and reports
// the dispatched thread count in a followup.
func HandleSyncIssueTable(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Auth.CanSync(interactionUserID(i)) {
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "이 명령을 실행할 권한이 없습니다.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	if b.Config.TriggerWebhookURL == "" {
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "트리거 웹후크 URL이 설정되지 않았습니다. 관리자에게 문의하세요.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Could not defer sync interaction: %v", err)
		return
	}

	// The full re-scan can take a while; run it off the dispatch path
	// and report through a followup.
	go func() {
		count := b.Relay.SyncAll()
		log.Printf("Manual sync finished, %d threads sent.", count)
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: fmt.Sprintf("동기화 완료: %d개 스레드를 장표로 전송했습니다.", count),
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			log.Printf("Could not send sync followup: %v", err)
		}
	}()
}

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pong!",
		},
	})
}
