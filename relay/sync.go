package relay

import (
	"fmt"
	"log"
	"time"

	"discord-forum-slack/utils"

	"github.com/bwmarrin/discordgo"
)

// maxArchivedPerChannel caps how many archived threads a single forum
// channel contributes to a sync run.
const maxArchivedPerChannel = 500

// SyncAll re-scans every monitored forum channel and re-sends the summary
// record for each thread found, active and archived. It returns the number
// of threads dispatched successfully. Per-channel and per-thread failures
// are skipped, never aborting the run; the whole operation is idempotent
// and safe to re-run at any time.
func (r *Relay) SyncAll() int {
	if r.cfg.TriggerWebhookURL == "" {
		return 0
	}

	threads := r.collectThreads()
	log.Printf("Found %d threads to sync.", len(threads))

	sent := 0
	for _, t := range threads {
		parent := r.resolveChannel(t.ParentID)
		if !InScope(parent, r.cfg.ForumChannelIDs) {
			continue
		}
		rec := r.NormalizeMeta(t, parent)
		fieldTags, statusTags := Classify(rec.Tags)
		if err := r.sender.SendSummary(rec, fieldTags, statusTags); err != nil {
			utils.Error("relay", "sync", fmt.Sprintf("thread %s: %v", t.ID, err))
			continue
		}
		sent++
	}
	return sent
}

// collectThreads gathers the active and archived threads of every
// monitored channel, deduplicated. Channels that cannot be resolved or
// are not forum channels are skipped.
func (r *Relay) collectThreads() []*discordgo.Channel {
	var threads []*discordgo.Channel
	seen := make(map[string]bool)

	for _, cid := range r.cfg.ForumChannelIDs {
		ch := r.resolveChannel(cid)
		if ch == nil {
			utils.Warn("relay", "sync", fmt.Sprintf("could not resolve channel %s, skipping", cid))
			continue
		}
		if ch.Type != discordgo.ChannelTypeGuildForum {
			utils.Warn("relay", "sync", fmt.Sprintf("channel %s is not a forum channel, skipping", cid))
			continue
		}

		r.wait()
		active, err := r.api.GuildThreadsActive(ch.GuildID)
		if err != nil {
			utils.Warn("relay", "sync", fmt.Sprintf("active threads for guild %s: %v", ch.GuildID, err))
		} else {
			for _, t := range active.Threads {
				if t.ParentID == cid && !seen[t.ID] {
					threads = append(threads, t)
					seen[t.ID] = true
				}
			}
		}

		for _, t := range r.archivedThreads(cid) {
			if !seen[t.ID] {
				threads = append(threads, t)
				seen[t.ID] = true
			}
		}
	}
	return threads
}

// archivedThreads pages through a channel's archived threads, newest
// first, up to maxArchivedPerChannel. A platform error mid-pagination
// keeps whatever was collected so far.
func (r *Relay) archivedThreads(channelID string) []*discordgo.Channel {
	var out []*discordgo.Channel
	var before *time.Time

	for len(out) < maxArchivedPerChannel {
		r.wait()
		page, err := r.api.ThreadsArchived(channelID, before, 100)
		if err != nil {
			utils.Warn("relay", "sync", fmt.Sprintf("archived threads for channel %s: %v", channelID, err))
			break
		}
		if len(page.Threads) == 0 {
			break
		}
		for _, t := range page.Threads {
			if len(out) >= maxArchivedPerChannel {
				break
			}
			out = append(out, t)
			if t.ThreadMetadata != nil {
				// The API paginates on the archive timestamp of
				// the last thread seen.
				ts := t.ThreadMetadata.ArchiveTimestamp
				before = &ts
			}
		}
		if !page.HasMore {
			break
		}
	}
	return out
}
