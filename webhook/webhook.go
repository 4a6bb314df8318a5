// Package webhook delivers thread records to the two Slack-side sinks:
// a rich Block Kit notification for new threads and a compact JSON
// summary consumed by a Slack workflow trigger.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"discord-forum-slack/models"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackutilsx"
)

const (
	// requestTimeout bounds every webhook POST.
	requestTimeout = 10 * time.Second
	// maxContentChars caps the thread body relayed in the rich
	// notification; longer bodies are truncated with an ellipsis.
	maxContentChars = 2900
)

// seoul is the timezone for the human-readable created-at string.
var seoul = loadSeoul()

func loadSeoul() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// Sender posts thread records to the configured webhook endpoints.
// An empty endpoint disables its send entirely.
type Sender struct {
	notifyURL  string
	triggerURL string
	client     *http.Client
}

// NewSender builds a Sender for the given endpoints.
func NewSender(notifyURL, triggerURL string) *Sender {
	return &Sender{
		notifyURL:  notifyURL,
		triggerURL: triggerURL,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// SendNotification posts the rich new-thread notification. It is a no-op
// when the notification endpoint is unset, and returns an error on any
// non-2xx response.
func (s *Sender) SendNotification(rec models.ThreadRecord) error {
	if s.notifyURL == "" {
		return nil
	}
	return slack.PostWebhookCustomHTTP(s.notifyURL, s.client, buildNotification(rec))
}

// buildNotification assembles the Block Kit payload. Every
// user-controlled field is escaped to keep thread content from injecting
// mrkdwn markup.
func buildNotification(rec models.ThreadRecord) *slack.WebhookMessage {
	headline := "*디스코드 support 채널에 새로운 도움 요청 스레드가 올라왔습니다!*"

	content := rec.Content
	if content == "" {
		content = "(no content)"
	}
	escaped := []rune(slackutilsx.EscapeMessage(content))
	if len(escaped) > maxContentChars {
		escaped = escaped[:maxContentChars]
	}
	contentText := string(escaped)
	if utf8.RuneCountInString(content) > maxContentChars {
		contentText += "…"
	}

	tagsText := "—"
	if len(rec.Tags) > 0 {
		parts := make([]string, len(rec.Tags))
		for i, t := range rec.Tags {
			parts[i] = slackutilsx.EscapeMessage(t)
		}
		tagsText = strings.Join(parts, ", ")
	}

	mrkdwn := func(text string) *slack.TextBlockObject {
		return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(
			mrkdwn(fmt.Sprintf("%s\n<%s|해당 스레드를 Discord에서 확인하기>", headline, rec.URL)),
			nil, nil),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn("*📂포럼:*\n" + slackutilsx.EscapeMessage(rec.ForumName)),
			mrkdwn("*👤작성자:*\n" + slackutilsx.EscapeMessage(rec.Author)),
			mrkdwn("*🏷️태그:*\n" + tagsText),
		}, nil),
		slack.NewSectionBlock(mrkdwn("*📝제목*\n"+slackutilsx.EscapeMessage(rec.Title)), nil, nil),
		slack.NewSectionBlock(mrkdwn("*💬본문*\n"+contentText), nil, nil),
	}

	return &slack.WebhookMessage{
		Text:   headline,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

// summaryPayload is the compact record consumed by the issue-table
// workflow trigger.
type summaryPayload struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	FieldTag  string   `json:"field_tag"`
	StatusTag []string `json:"status_tag"`
	CreatedAt string   `json:"created_at"`
}

// SendSummary posts the compact summary record. It is a no-op when the
// trigger endpoint is unset, and returns an error on any non-2xx
// response.
func (s *Sender) SendSummary(rec models.ThreadRecord, fieldTags, statusTags []string) error {
	if s.triggerURL == "" {
		return nil
	}
	if statusTags == nil {
		statusTags = []string{}
	}

	payload := summaryPayload{
		Title:     rec.Title,
		URL:       rec.URL,
		FieldTag:  strings.Join(fieldTags, ", "),
		StatusTag: statusTags,
		CreatedAt: rec.CreatedAt.In(seoul).Format("2006-01-02 15:04 (KST)"),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal summary payload: %w", err)
	}

	resp, err := s.client.Post(s.triggerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post trigger webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("trigger webhook returned status %d", resp.StatusCode)
	}
	return nil
}
