package relay

import "github.com/bwmarrin/discordgo"

// InScope reports whether a thread's parent channel is one of the
// monitored forum channels. The parent must be present, forum-typed, and
// a member of a non-empty monitored set; an empty set accepts nothing.
func InScope(parent *discordgo.Channel, monitored []string) bool {
	if parent == nil || parent.Type != discordgo.ChannelTypeGuildForum {
		return false
	}
	for _, id := range monitored {
		if id == parent.ID {
			return true
		}
	}
	return false
}
