package relay

import (
	"context"
	"errors"
	"time"

	"discord-forum-slack/models"
	"discord-forum-slack/webhook"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// ChannelAPI is the subset of discordgo REST calls the relay needs.
// *discordgo.Session satisfies it; tests substitute a fake.
type ChannelAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildThreadsActive(guildID string, options ...discordgo.RequestOption) (*discordgo.ThreadsList, error)
	ThreadsArchived(channelID string, before *time.Time, limit int, options ...discordgo.RequestOption) (*discordgo.ThreadsList, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// StateCache is the session state lookup used before falling back to a
// REST fetch. *discordgo.State satisfies it.
type StateCache interface {
	Channel(channelID string) (*discordgo.Channel, error)
}

// Relay is the event-to-notification pipeline: it decides which threads
// are in scope, normalizes them, and dispatches to the webhook sinks.
type Relay struct {
	api     ChannelAPI
	state   StateCache
	cfg     *models.Config
	sender  *webhook.Sender
	limiter *rate.Limiter
}

// New builds a Relay on top of a live Discord session.
func New(s *discordgo.Session, cfg *models.Config, sender *webhook.Sender) *Relay {
	return &Relay{
		api:     s,
		state:   s.State,
		cfg:     cfg,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(20), 5),
	}
}

// HandleThreadCreate relays a single newly created thread. Out-of-scope
// threads are skipped silently. Both sinks are attempted independently;
// their failures are joined so one bad endpoint does not mute the other.
func (r *Relay) HandleThreadCreate(t *discordgo.Channel) error {
	parent := r.resolveChannel(t.ParentID)
	if !InScope(parent, r.cfg.ForumChannelIDs) {
		return nil
	}

	rec := r.Normalize(t, parent)
	fieldTags, statusTags := Classify(rec.Tags)

	return errors.Join(
		r.sender.SendNotification(rec),
		r.sender.SendSummary(rec, fieldTags, statusTags),
	)
}

// resolveChannel returns the channel for an ID, preferring the session
// state cache over a REST fetch. Returns nil when the channel cannot be
// resolved; callers treat nil as out of scope.
func (r *Relay) resolveChannel(channelID string) *discordgo.Channel {
	if channelID == "" {
		return nil
	}
	if r.state != nil {
		if ch, err := r.state.Channel(channelID); err == nil {
			return ch
		}
	}
	r.wait()
	ch, err := r.api.Channel(channelID)
	if err != nil {
		return nil
	}
	return ch
}

// wait blocks until the Discord REST rate limiter admits another call.
func (r *Relay) wait() {
	if r.limiter != nil {
		r.limiter.Wait(context.Background())
	}
}
