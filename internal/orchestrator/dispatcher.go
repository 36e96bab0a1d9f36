package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"idt-crispr-bot/internal/idt"
	"idt-crispr-bot/internal/metrics"
	"idt-crispr-bot/internal/model"
	"idt-crispr-bot/internal/parser"
	"idt-crispr-bot/internal/report"
)

const (
	outcomeHelp         = "help"
	outcomeUnknown      = "unknown"
	outcomeInvalid      = "invalid"
	outcomeOK           = "ok"
	outcomeRemote       = "remote_error"
	outcomeConnectivity = "connectivity_error"
	outcomeAuth         = "auth_error"
	outcomeUnexpected   = "unexpected"
)

// Gateway is the design service. *idt.Client implements it.
type Gateway interface {
	DesignCustom(ctx context.Context, sequence string, species model.Species, maxResults int) (any, error)
	CheckSequence(ctx context.Context, sequence string, species model.Species) (any, error)
	LookupPredesigned(ctx context.Context, geneSymbol string, species model.Species, maxResults int) (any, error)
}

// Dispatcher turns slash commands into design service calls and rendered
// replies. Errors and help go to the requester only; progress and results go
// to the channel.
type Dispatcher struct {
	gateway     Gateway
	resultCount int
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func NewDispatcher(gw Gateway, resultCount int, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultCount <= 0 {
		resultCount = 5
	}
	return &Dispatcher{gateway: gw, resultCount: resultCount, log: logger, metrics: m}
}

// HandleCommand runs one command to completion. Every path ends in exactly
// one reply to the requester or the channel.
func (d *Dispatcher) HandleCommand(ctx context.Context, ev model.CommandEvent, out model.Responder) {
	if err := out.Ack(); err != nil {
		d.log.Warn("ack failed", zap.Error(err))
	}
	cmd, perr := parser.Parse(ev.Text)
	sub := "invalid"
	if cmd != nil {
		sub = cmd.Subcommand()
	} else {
		var verr *parser.ValidationError
		if errors.As(perr, &verr) {
			sub = verr.Subcommand
		}
	}
	log := d.log.With(zap.String("user", ev.UserName), zap.String("channel", ev.ChannelID), zap.String("subcommand", sub))

	outcome := outcomeUnexpected
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic handling command", zap.Any("panic", r), zap.Stack("stack"))
			d.reply(ctx, log, out, model.Ephemeral, report.Error("Unexpected error: "+idt.Truncate(fmt.Sprint(r), idt.ExcerptLimit)))
		}
		d.metrics.ObserveCommand(sub, outcome)
	}()
	outcome = d.run(ctx, log, cmd, perr, out)
}

// HandleMention answers an @-mention with the help text.
func (d *Dispatcher) HandleMention(ctx context.Context, ev model.MentionEvent, out model.Responder) {
	if err := out.Ack(); err != nil {
		d.log.Warn("ack failed", zap.Error(err))
	}
	d.reply(ctx, d.log.With(zap.String("channel", ev.ChannelID)), out, model.InChannel, report.Help())
	d.metrics.ObserveCommand("mention", outcomeHelp)
}

func (d *Dispatcher) run(ctx context.Context, log *zap.Logger, cmd model.Command, perr error, out model.Responder) string {
	if perr != nil {
		var verr *parser.ValidationError
		if errors.As(perr, &verr) {
			d.reply(ctx, log, out, model.Ephemeral, report.Error(verr.Detail))
			return outcomeInvalid
		}
		return d.fail(ctx, log, out, perr)
	}

	switch c := cmd.(type) {
	case model.Help:
		d.reply(ctx, log, out, model.Ephemeral, report.Help())
		return outcomeHelp
	case model.Unknown:
		d.reply(ctx, log, out, model.Ephemeral, report.Error(fmt.Sprintf("Unknown subcommand `%s`. Use `/crispr help` for usage.", c.Raw)))
		return outcomeUnknown
	case model.Design:
		return d.execute(ctx, log, out, report.DesignProgress(c.Length, c.Species),
			func() (any, error) { return d.gateway.DesignCustom(ctx, c.Sequence, c.Species, d.resultCount) },
			func(p any) model.Message { return report.CustomResults(p, c.Species) })
	case model.Check:
		return d.execute(ctx, log, out, report.CheckProgress(c.Sequence, c.Species),
			func() (any, error) { return d.gateway.CheckSequence(ctx, c.Sequence, c.Species) },
			func(p any) model.Message { return report.CheckerResults(p, c.Sequence, c.Species) })
	case model.Predesign:
		return d.execute(ctx, log, out, report.PredesignProgress(c.GeneSymbol, c.Species),
			func() (any, error) { return d.gateway.LookupPredesigned(ctx, c.GeneSymbol, c.Species, d.resultCount) },
			func(p any) model.Message { return report.PredesignResults(p, c.GeneSymbol, c.Species) })
	default:
		return d.fail(ctx, log, out, fmt.Errorf("unhandled command %T", cmd))
	}
}

func (d *Dispatcher) execute(ctx context.Context, log *zap.Logger, out model.Responder, progress model.Message, call func() (any, error), render func(any) model.Message) string {
	d.reply(ctx, log, out, model.InChannel, progress)
	payload, err := call()
	if err != nil {
		return d.fail(ctx, log, out, err)
	}
	d.reply(ctx, log, out, model.InChannel, render(payload))
	return outcomeOK
}

// fail maps an error to its private reply and metric outcome.
func (d *Dispatcher) fail(ctx context.Context, log *zap.Logger, out model.Responder, err error) string {
	var (
		apiErr  *idt.RemoteAPIError
		authErr *idt.AuthError
		connErr *idt.ConnectivityError
	)
	switch {
	case errors.As(err, &apiErr):
		log.Error("idt api http error", zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Excerpt()))
		d.reply(ctx, log, out, model.Ephemeral, report.Error(fmt.Sprintf(
			"IDT API returned HTTP %d. Check credentials and input format.\n`%s`", apiErr.StatusCode, apiErr.Excerpt())))
		return outcomeRemote
	case errors.As(err, &authErr):
		log.Error("idt authentication failed", zap.Error(err))
		d.reply(ctx, log, out, model.Ephemeral, report.Error("Cannot authenticate with IDT API. Check credentials and network/firewall."))
		return outcomeAuth
	case errors.As(err, &connErr):
		log.Error("cannot reach idt api", zap.Error(err))
		d.reply(ctx, log, out, model.Ephemeral, report.Error("Cannot connect to IDT API. Check network/firewall."))
		return outcomeConnectivity
	default:
		log.Error("unexpected error handling command", zap.Error(err))
		d.reply(ctx, log, out, model.Ephemeral, report.Error("Unexpected error: "+idt.Truncate(err.Error(), idt.ExcerptLimit)))
		return outcomeUnexpected
	}
}

func (d *Dispatcher) reply(ctx context.Context, log *zap.Logger, out model.Responder, vis model.Visibility, msg model.Message) {
	if err := out.Reply(ctx, model.Reply{Visibility: vis, Message: msg}); err != nil {
		log.Error("send reply failed", zap.String("visibility", string(vis)), zap.Error(err))
	}
}
