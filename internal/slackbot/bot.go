package slackbot

import (
	"context"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"idt-crispr-bot/internal/model"
)

// Handler consumes decoded chat events.
type Handler interface {
	HandleCommand(ctx context.Context, ev model.CommandEvent, out model.Responder)
	HandleMention(ctx context.Context, ev model.MentionEvent, out model.Responder)
}

// Bot receives slash commands and mentions over Socket Mode. Each event is
// handled on its own goroutine.
type Bot struct {
	api     *slack.Client
	socket  *socketmode.Client
	handler Handler
	http    *http.Client
	log     *zap.Logger
}

func New(botToken, appToken string, debug bool, h Handler, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken), slack.OptionDebug(debug))
	return &Bot{
		api:     api,
		socket:  socketmode.New(api, socketmode.OptionDebug(debug)),
		handler: h,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// Run blocks until ctx is cancelled or the connection fails.
func (b *Bot) Run(ctx context.Context) error {
	go b.loop(ctx)
	return b.socket.RunContext(ctx)
}

func (b *Bot) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			b.route(ctx, evt)
		}
	}
}

func (b *Bot) route(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.log.Info("connecting to slack socket mode")
	case socketmode.EventTypeConnected:
		b.log.Info("connected to slack socket mode")
	case socketmode.EventTypeConnectionError:
		b.log.Warn("slack socket mode connection error")
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			b.log.Warn("ignored slash command payload", zap.Any("data", evt.Data))
			b.ack(evt.Request)
			return
		}
		out := &commandResponder{ack: func() error { b.ack(evt.Request); return nil }, url: cmd.ResponseURL, http: b.http}
		go b.handler.HandleCommand(ctx, CommandEvent(cmd, time.Now()), out)
	case socketmode.EventTypeEventsAPI:
		ev, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || ev.Type != slackevents.CallbackEvent {
			b.ack(evt.Request)
			return
		}
		mention, ok := ev.InnerEvent.Data.(*slackevents.AppMentionEvent)
		if !ok {
			b.ack(evt.Request)
			return
		}
		out := &threadResponder{ack: func() error { b.ack(evt.Request); return nil }, api: b.api, channel: mention.Channel, threadTS: threadOf(mention)}
		go b.handler.HandleMention(ctx, MentionEvent(mention), out)
	default:
		b.ack(evt.Request)
	}
}

func (b *Bot) ack(req *socketmode.Request) {
	if req == nil {
		return
	}
	b.socket.Ack(*req)
}

// CommandEvent decodes a slash command.
func CommandEvent(cmd slack.SlashCommand, now time.Time) model.CommandEvent {
	return model.CommandEvent{
		Command:     cmd.Command,
		Text:        cmd.Text,
		UserID:      cmd.UserID,
		UserName:    cmd.UserName,
		ChannelID:   cmd.ChannelID,
		ResponseURL: cmd.ResponseURL,
		ReceivedAt:  now,
	}
}

// MentionEvent decodes an app mention.
func MentionEvent(ev *slackevents.AppMentionEvent) model.MentionEvent {
	return model.MentionEvent{
		ChannelID: ev.Channel,
		UserID:    ev.User,
		Text:      ev.Text,
		ThreadTS:  threadOf(ev),
	}
}

func threadOf(ev *slackevents.AppMentionEvent) string {
	if ev.ThreadTimeStamp != "" {
		return ev.ThreadTimeStamp
	}
	return ev.TimeStamp
}

// commandResponder answers through the slash command's response_url.
type commandResponder struct {
	ack  func() error
	url  string
	http *http.Client
}

func (r *commandResponder) Ack() error { return r.ack() }

func (r *commandResponder) Reply(ctx context.Context, rep model.Reply) error {
	return slack.PostWebhookCustomHTTPContext(ctx, r.url, r.http, webhookMessage(rep))
}

// threadResponder posts into the thread of a mention. Mention replies are
// always visible in the channel.
type threadResponder struct {
	ack      func() error
	api      *slack.Client
	channel  string
	threadTS string
}

func (r *threadResponder) Ack() error { return r.ack() }

func (r *threadResponder) Reply(ctx context.Context, rep model.Reply) error {
	_, _, err := r.api.PostMessageContext(ctx, r.channel,
		slack.MsgOptionText(rep.Message.Text, false),
		slack.MsgOptionBlocks(ToBlocks(rep.Message)...),
		slack.MsgOptionTS(r.threadTS),
	)
	return err
}
