package handlers

import (
	"fmt"
	"log"

	"discord-forum-slack/bot"
	"discord-forum-slack/utils"

	"github.com/bwmarrin/discordgo"
)

// ThreadCreateHandler handles the THREAD_CREATE event: it relays the new
// forum thread to Slack. The work runs off the gateway goroutine so the
// blocking webhook POSTs never stall other event handling, and nothing
// raised here may crash the listening process.
func ThreadCreateHandler(b *bot.Bot) func(s *discordgo.Session, t *discordgo.ThreadCreate) {
	return func(s *discordgo.Session, t *discordgo.ThreadCreate) {
		// THREAD_CREATE also fires when the bot gains access to an
		// existing thread; only newly created threads are announced.
		if !t.NewlyCreated {
			return
		}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic in thread create handler: %v", r)
				}
			}()

			if err := b.Relay.HandleThreadCreate(t.Channel); err != nil {
				log.Printf("Error sending forum thread %s to Slack: %v", t.ID, err)
				utils.Error("relay", "thread_create", fmt.Sprintf("thread %s: %v", t.ID, err))
			}
		}()
	}
}
