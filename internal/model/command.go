package model

import "time"

// Command is a parsed /crispr invocation. The concrete types are Design,
// Check, Predesign, Help and Unknown.
type Command interface {
	Subcommand() string
}

// Design requests custom guide design for a target region.
type Design struct {
	// Sequence is the raw target, possibly with a FASTA header line.
	Sequence string
	// Length counts bases once header lines and whitespace are removed.
	Length  int
	Species Species
}

// Check scores a single 20 base protospacer.
type Check struct {
	Sequence string
	Species  Species
}

// Predesign looks up curated guides for a gene.
type Predesign struct {
	GeneSymbol string
	Species    Species
}

type Help struct{}

// Unknown carries the unrecognized subcommand as typed.
type Unknown struct {
	Raw string
}

func (Design) Subcommand() string    { return "design" }
func (Check) Subcommand() string     { return "check" }
func (Predesign) Subcommand() string { return "predesign" }
func (Help) Subcommand() string      { return "help" }
func (Unknown) Subcommand() string   { return "unknown" }

// CommandEvent is an inbound slash command after transport decoding.
type CommandEvent struct {
	Command     string
	Text        string
	UserID      string
	UserName    string
	ChannelID   string
	ResponseURL string
	ReceivedAt  time.Time
}

// MentionEvent is an inbound @-mention of the bot.
type MentionEvent struct {
	ChannelID string
	UserID    string
	Text      string
	// ThreadTS is the timestamp replies are threaded under.
	ThreadTS string
}
