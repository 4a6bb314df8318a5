package relay

import (
	"fmt"
	"strings"
	"time"

	"discord-forum-slack/models"

	"github.com/bwmarrin/discordgo"
)

// Normalize extracts a full ThreadRecord from a thread, including the
// first post's author and content. Any retrieval failure degrades to a
// fallback value; it never fails outright.
func (r *Relay) Normalize(t *discordgo.Channel, parent *discordgo.Channel) models.ThreadRecord {
	rec := r.NormalizeMeta(t, parent)

	// The oldest message in the thread is the forum post body.
	msgs, err := r.api.ChannelMessages(t.ID, 1, "", "0", "")
	if err != nil {
		if t.OwnerID != "" {
			rec.Author = fmt.Sprintf("알 수 없음 (%s)", t.OwnerID)
		}
		return rec
	}
	if len(msgs) > 0 && msgs[0].Author != nil {
		first := msgs[0]
		rec.Content = strings.TrimSpace(first.Content)
		rec.Author = fmt.Sprintf("%s (%s)", displayName(first), first.Author.ID)
	}
	return rec
}

// NormalizeMeta extracts the metadata-only record: title, deep link, tag
// names, creation time and forum name. Used on its own by the sync path,
// where the summary payload carries no author or content.
func (r *Relay) NormalizeMeta(t *discordgo.Channel, parent *discordgo.Channel) models.ThreadRecord {
	rec := models.ThreadRecord{
		Title:     t.Name,
		URL:       ThreadURL(t.GuildID, t.ParentID, t.ID),
		Tags:      TagNames(t, parent),
		Author:    "unknown",
		ForumName: parent.Name,
	}
	if ts, err := discordgo.SnowflakeTimestamp(t.ID); err == nil {
		rec.CreatedAt = ts
	} else {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

// ThreadURL builds the deep link for a thread.
func ThreadURL(guildID, parentID, threadID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, parentID, threadID)
}

// TagNames resolves a thread's applied tag IDs to names through the
// parent forum channel's tag table, preserving the applied order.
// Tags that no longer exist on the parent, or have no name, are skipped.
func TagNames(t *discordgo.Channel, parent *discordgo.Channel) []string {
	if parent == nil || len(t.AppliedTags) == 0 {
		return nil
	}
	byID := make(map[string]string, len(parent.AvailableTags))
	for _, tag := range parent.AvailableTags {
		if tag.Name != "" {
			byID[tag.ID] = tag.Name
		}
	}
	var out []string
	for _, id := range t.AppliedTags {
		if name, ok := byID[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// displayName resolves the friendliest available name for the author of
// a message: server nickname, then global display name, then username.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
