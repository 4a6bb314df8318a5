package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"discord-forum-slack/models"
	"discord-forum-slack/webhook"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements ChannelAPI for tests.
type fakeAPI struct {
	channels     map[string]*discordgo.Channel
	channelErrs  map[string]error
	active       map[string]*discordgo.ThreadsList
	activeErr    error
	archivedFn   func(channelID string, before *time.Time, limit int) (*discordgo.ThreadsList, error)
	messages     map[string][]*discordgo.Message
	messageErrs  map[string]error
	channelCalls int
}

func (f *fakeAPI) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.channelCalls++
	if err := f.channelErrs[channelID]; err != nil {
		return nil, err
	}
	if ch, ok := f.channels[channelID]; ok {
		return ch, nil
	}
	return nil, errors.New("unknown channel")
}

func (f *fakeAPI) GuildThreadsActive(guildID string, options ...discordgo.RequestOption) (*discordgo.ThreadsList, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	if list, ok := f.active[guildID]; ok {
		return list, nil
	}
	return &discordgo.ThreadsList{}, nil
}

func (f *fakeAPI) ThreadsArchived(channelID string, before *time.Time, limit int, options ...discordgo.RequestOption) (*discordgo.ThreadsList, error) {
	if f.archivedFn != nil {
		return f.archivedFn(channelID, before, limit)
	}
	return &discordgo.ThreadsList{}, nil
}

func (f *fakeAPI) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	if err := f.messageErrs[channelID]; err != nil {
		return nil, err
	}
	return f.messages[channelID], nil
}

func newTestRelay(api *fakeAPI, cfg *models.Config, sender *webhook.Sender) *Relay {
	return &Relay{api: api, cfg: cfg, sender: sender}
}

// countingServer returns an httptest server that counts POSTs and keeps
// the last body.
func countingServer(t *testing.T, status int) (*httptest.Server, *int, *[]byte) {
	t.Helper()
	var calls int
	var last []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		last = body
		calls++
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, &last
}

func forumChannel(id, guildID, name string, tags ...discordgo.ForumTag) *discordgo.Channel {
	return &discordgo.Channel{
		ID:            id,
		GuildID:       guildID,
		Name:          name,
		Type:          discordgo.ChannelTypeGuildForum,
		AvailableTags: tags,
	}
}

func TestSyncAllNoTriggerURL(t *testing.T) {
	api := &fakeAPI{}
	cfg := &models.Config{ForumChannelIDs: []string{"100"}}
	r := newTestRelay(api, cfg, webhook.NewSender("", ""))

	if got := r.SyncAll(); got != 0 {
		t.Errorf("SyncAll() = %d, want 0", got)
	}
	if api.channelCalls != 0 {
		t.Errorf("expected no channel fetches, got %d", api.channelCalls)
	}
}

func TestSyncAllEmptyChannelList(t *testing.T) {
	srv, calls, _ := countingServer(t, http.StatusOK)
	api := &fakeAPI{}
	cfg := &models.Config{TriggerWebhookURL: srv.URL}
	r := newTestRelay(api, cfg, webhook.NewSender("", srv.URL))

	if got := r.SyncAll(); got != 0 {
		t.Errorf("SyncAll() = %d, want 0", got)
	}
	if api.channelCalls != 0 {
		t.Errorf("expected no channel fetches, got %d", api.channelCalls)
	}
	if *calls != 0 {
		t.Errorf("expected no webhook calls, got %d", *calls)
	}
}

func TestSyncAllSkipsFailingChannel(t *testing.T) {
	srv, calls, _ := countingServer(t, http.StatusOK)

	ch1 := forumChannel("100", "g1", "support")
	ch3 := forumChannel("300", "g1", "bugs")
	api := &fakeAPI{
		channels:    map[string]*discordgo.Channel{"100": ch1, "300": ch3},
		channelErrs: map[string]error{"200": errors.New("fetch failed")},
		active: map[string]*discordgo.ThreadsList{
			"g1": {Threads: []*discordgo.Channel{
				{ID: "111", Name: "t1", ParentID: "100", GuildID: "g1"},
				{ID: "333", Name: "t3", ParentID: "300", GuildID: "g1"},
			}},
		},
	}
	cfg := &models.Config{
		ForumChannelIDs:   []string{"100", "200", "300"},
		TriggerWebhookURL: srv.URL,
	}
	r := newTestRelay(api, cfg, webhook.NewSender("", srv.URL))

	got := r.SyncAll()
	assert.Equal(t, 2, got, "threads from the two healthy channels")
	assert.Equal(t, 2, *calls, "one summary POST per thread")
}

func TestSyncAllNonForumChannelSkipped(t *testing.T) {
	srv, calls, _ := countingServer(t, http.StatusOK)

	api := &fakeAPI{
		channels: map[string]*discordgo.Channel{
			"100": {ID: "100", GuildID: "g1", Type: discordgo.ChannelTypeGuildText},
		},
	}
	cfg := &models.Config{
		ForumChannelIDs:   []string{"100"},
		TriggerWebhookURL: srv.URL,
	}
	r := newTestRelay(api, cfg, webhook.NewSender("", srv.URL))

	if got := r.SyncAll(); got != 0 {
		t.Errorf("SyncAll() = %d, want 0", got)
	}
	if *calls != 0 {
		t.Errorf("expected no webhook calls, got %d", *calls)
	}
}

func TestSyncAllArchivedPaginationKeepsPrefix(t *testing.T) {
	srv, _, _ := countingServer(t, http.StatusOK)

	ch := forumChannel("100", "g1", "support")
	pages := 0
	api := &fakeAPI{
		channels: map[string]*discordgo.Channel{"100": ch},
		archivedFn: func(channelID string, before *time.Time, limit int) (*discordgo.ThreadsList, error) {
			pages++
			if pages > 1 {
				return nil, errors.New("gateway timeout")
			}
			now := time.Now()
			return &discordgo.ThreadsList{
				Threads: []*discordgo.Channel{
					{ID: "111", Name: "a1", ParentID: "100", GuildID: "g1",
						ThreadMetadata: &discordgo.ThreadMetadata{ArchiveTimestamp: now}},
					{ID: "222", Name: "a2", ParentID: "100", GuildID: "g1",
						ThreadMetadata: &discordgo.ThreadMetadata{ArchiveTimestamp: now}},
				},
				HasMore: true,
			}, nil
		},
	}
	cfg := &models.Config{
		ForumChannelIDs:   []string{"100"},
		TriggerWebhookURL: srv.URL,
	}
	r := newTestRelay(api, cfg, webhook.NewSender("", srv.URL))

	got := r.SyncAll()
	assert.Equal(t, 2, got, "the collected prefix survives the pagination error")
}

func TestArchivedThreadsCappedPerChannel(t *testing.T) {
	pages := 0
	api := &fakeAPI{
		archivedFn: func(channelID string, before *time.Time, limit int) (*discordgo.ThreadsList, error) {
			pages++
			now := time.Now()
			threads := make([]*discordgo.Channel, limit)
			for i := range threads {
				threads[i] = &discordgo.Channel{
					ID:             fmt.Sprintf("%d-%d", pages, i),
					ParentID:       "100",
					GuildID:        "g1",
					ThreadMetadata: &discordgo.ThreadMetadata{ArchiveTimestamp: now},
				}
			}
			return &discordgo.ThreadsList{Threads: threads, HasMore: true}, nil
		},
	}
	r := newTestRelay(api, &models.Config{}, webhook.NewSender("", ""))

	got := r.archivedThreads("100")
	assert.Len(t, got, maxArchivedPerChannel)
	assert.Equal(t, maxArchivedPerChannel/100, pages, "pagination stops once the cap is reached")
}

func TestHandleThreadCreateOutOfScope(t *testing.T) {
	notify, notifyCalls, _ := countingServer(t, http.StatusOK)
	trigger, triggerCalls, _ := countingServer(t, http.StatusOK)

	tests := []struct {
		name   string
		parent *discordgo.Channel
	}{
		{"parent is a text channel", &discordgo.Channel{ID: "100", Type: discordgo.ChannelTypeGuildText}},
		{"parent not monitored", forumChannel("999", "g1", "other")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{channels: map[string]*discordgo.Channel{tt.parent.ID: tt.parent}}
			cfg := &models.Config{
				ForumChannelIDs:   []string{"100"},
				SlackWebhookURL:   notify.URL,
				TriggerWebhookURL: trigger.URL,
			}
			r := newTestRelay(api, cfg, webhook.NewSender(notify.URL, trigger.URL))

			thread := &discordgo.Channel{ID: "111", Name: "help", ParentID: tt.parent.ID, GuildID: "g1"}
			if err := r.HandleThreadCreate(thread); err != nil {
				t.Errorf("HandleThreadCreate() error = %v", err)
			}
			if *notifyCalls != 0 || *triggerCalls != 0 {
				t.Errorf("expected no webhook calls, got notify=%d trigger=%d", *notifyCalls, *triggerCalls)
			}
		})
	}
}

func TestHandleThreadCreateEndToEnd(t *testing.T) {
	notify, notifyCalls, notifyBody := countingServer(t, http.StatusOK)
	trigger, triggerCalls, triggerBody := countingServer(t, http.StatusOK)

	parent := forumChannel("100", "g1", "support",
		discordgo.ForumTag{ID: "t1", Name: "🟢New"},
		discordgo.ForumTag{ID: "t2", Name: "ai-worker"},
	)
	api := &fakeAPI{
		channels: map[string]*discordgo.Channel{"100": parent},
		messages: map[string][]*discordgo.Message{
			"111": {{
				Content: "Please help",
				Author:  &discordgo.User{ID: "123", Username: "alice", GlobalName: "Alice"},
			}},
		},
	}
	cfg := &models.Config{
		ForumChannelIDs:   []string{"100"},
		SlackWebhookURL:   notify.URL,
		TriggerWebhookURL: trigger.URL,
	}
	r := newTestRelay(api, cfg, webhook.NewSender(notify.URL, trigger.URL))

	thread := &discordgo.Channel{
		ID:          "111",
		Name:        "Robot won't boot",
		ParentID:    "100",
		GuildID:     "g1",
		OwnerID:     "123",
		AppliedTags: []string{"t1", "t2"},
	}
	require.NoError(t, r.HandleThreadCreate(thread))
	require.Equal(t, 1, *notifyCalls)
	require.Equal(t, 1, *triggerCalls)

	rich := string(*notifyBody)
	assert.Contains(t, rich, "support")
	assert.Contains(t, rich, "Alice (123)")
	assert.Contains(t, rich, "🟢New, ai-worker")
	assert.Contains(t, rich, "Robot won't boot")
	assert.Contains(t, rich, "Please help")

	var summary struct {
		Title     string   `json:"title"`
		URL       string   `json:"url"`
		FieldTag  string   `json:"field_tag"`
		StatusTag []string `json:"status_tag"`
		CreatedAt string   `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(*triggerBody, &summary))
	assert.Equal(t, "Robot won't boot", summary.Title)
	assert.Equal(t, "https://discord.com/channels/g1/100/111", summary.URL)
	assert.Equal(t, "ai-worker", summary.FieldTag)
	assert.Equal(t, []string{"New Issue"}, summary.StatusTag)
	assert.Contains(t, summary.CreatedAt, "(KST)")
}

func TestNormalizeAuthorFallbacks(t *testing.T) {
	parent := forumChannel("100", "g1", "support")
	cfg := &models.Config{ForumChannelIDs: []string{"100"}}

	t.Run("history error with known owner", func(t *testing.T) {
		api := &fakeAPI{
			channels:    map[string]*discordgo.Channel{"100": parent},
			messageErrs: map[string]error{"111": errors.New("missing access")},
		}
		r := newTestRelay(api, cfg, webhook.NewSender("", ""))
		thread := &discordgo.Channel{ID: "111", Name: "help", ParentID: "100", GuildID: "g1", OwnerID: "42"}

		rec := r.Normalize(thread, parent)
		assert.Equal(t, "알 수 없음 (42)", rec.Author)
		assert.Empty(t, rec.Content)
	})

	t.Run("history error without owner", func(t *testing.T) {
		api := &fakeAPI{
			channels:    map[string]*discordgo.Channel{"100": parent},
			messageErrs: map[string]error{"111": errors.New("missing access")},
		}
		r := newTestRelay(api, cfg, webhook.NewSender("", ""))
		thread := &discordgo.Channel{ID: "111", Name: "help", ParentID: "100", GuildID: "g1"}

		rec := r.Normalize(thread, parent)
		assert.Equal(t, "unknown", rec.Author)
	})

	t.Run("empty history", func(t *testing.T) {
		api := &fakeAPI{channels: map[string]*discordgo.Channel{"100": parent}}
		r := newTestRelay(api, cfg, webhook.NewSender("", ""))
		thread := &discordgo.Channel{ID: "111", Name: "help", ParentID: "100", GuildID: "g1", OwnerID: "42"}

		rec := r.Normalize(thread, parent)
		assert.Equal(t, "unknown", rec.Author)
		assert.Empty(t, rec.Content)
	})

	t.Run("content trimmed and author formatted", func(t *testing.T) {
		api := &fakeAPI{
			channels: map[string]*discordgo.Channel{"100": parent},
			messages: map[string][]*discordgo.Message{
				"111": {{
					Content: "  spaced out  ",
					Author:  &discordgo.User{ID: "7", Username: "bob"},
				}},
			},
		}
		r := newTestRelay(api, cfg, webhook.NewSender("", ""))
		thread := &discordgo.Channel{ID: "111", Name: "help", ParentID: "100", GuildID: "g1"}

		rec := r.Normalize(thread, parent)
		assert.Equal(t, "spaced out", rec.Content)
		assert.Equal(t, "bob (7)", rec.Author)
	})
}

func TestTagNames(t *testing.T) {
	parent := forumChannel("100", "g1", "support",
		discordgo.ForumTag{ID: "t1", Name: "omy"},
		discordgo.ForumTag{ID: "t2", Name: ""},
		discordgo.ForumTag{ID: "t3", Name: "🟡Handling"},
	)

	thread := &discordgo.Channel{ID: "111", AppliedTags: []string{"t3", "t1", "gone", "t2"}}
	got := TagNames(thread, parent)
	assert.Equal(t, []string{"🟡Handling", "omy"}, got, "applied order kept, unnamed and unknown tags skipped")

	assert.Nil(t, TagNames(&discordgo.Channel{ID: "111"}, parent))
	assert.Nil(t, TagNames(thread, nil))
}

func TestThreadURL(t *testing.T) {
	got := ThreadURL("g1", "100", "111")
	want := "https://discord.com/channels/g1/100/111"
	if got != want {
		t.Errorf("ThreadURL() = %q, want %q", got, want)
	}
}
