package slackbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idt-crispr-bot/internal/model"
	"idt-crispr-bot/internal/report"
)

func TestToBlocks(t *testing.T) {
	blocks := ToBlocks(model.Message{Blocks: []model.Block{
		{Kind: model.BlockHeader, Text: "title"},
		{Kind: model.BlockContext, Text: "ctx"},
		{Kind: model.BlockDivider},
		{Kind: model.BlockSection, Text: "*body*"},
	}})
	require.Len(t, blocks, 4)
	assert.Equal(t, slack.MBTHeader, blocks[0].BlockType())
	assert.Equal(t, slack.MBTContext, blocks[1].BlockType())
	assert.Equal(t, slack.MBTDivider, blocks[2].BlockType())
	assert.Equal(t, slack.MBTSection, blocks[3].BlockType())

	section := blocks[3].(*slack.SectionBlock)
	assert.Equal(t, slack.MarkdownType, section.Text.Type)
	assert.Equal(t, "*body*", section.Text.Text)
}

func TestCommandResponderPostsToResponseURL(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	acked := false
	out := &commandResponder{ack: func() error { acked = true; return nil }, url: srv.URL, http: srv.Client()}
	require.NoError(t, out.Ack())
	require.NoError(t, out.Reply(context.Background(), model.Reply{Visibility: model.Ephemeral, Message: report.Error("bad input")}))

	assert.True(t, acked)
	assert.Equal(t, "ephemeral", got["response_type"])
	blocks, ok := got["blocks"].([]any)
	require.True(t, ok)
	require.Len(t, blocks, 1)
	assert.Equal(t, "section", blocks[0].(map[string]any)["type"])
}

func TestProgressReplyHasNoBlocks(t *testing.T) {
	msg := webhookMessage(model.Reply{Visibility: model.InChannel, Message: report.CheckProgress("ACGT", model.Human)})
	assert.Equal(t, "in_channel", msg.ResponseType)
	assert.Nil(t, msg.Blocks)
	assert.Contains(t, msg.Text, "Checking `ACGT`")
}

func TestCommandEvent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	ev := CommandEvent(slack.SlashCommand{Command: "/crispr", Text: "help", UserID: "U1", UserName: "ada", ChannelID: "C1", ResponseURL: "https://hooks"}, now)
	assert.Equal(t, model.CommandEvent{Command: "/crispr", Text: "help", UserID: "U1", UserName: "ada", ChannelID: "C1", ResponseURL: "https://hooks", ReceivedAt: now}, ev)
}

func TestMentionThreading(t *testing.T) {
	ev := MentionEvent(&slackevents.AppMentionEvent{Channel: "C1", User: "U1", Text: "<@B> hi", TimeStamp: "1.1"})
	assert.Equal(t, "1.1", ev.ThreadTS)
	ev = MentionEvent(&slackevents.AppMentionEvent{Channel: "C1", TimeStamp: "1.2", ThreadTimeStamp: "1.0"})
	assert.Equal(t, "1.0", ev.ThreadTS)
}
