package model

import "context"

// BlockKind enumerates the display elements a message is built from.
type BlockKind string

const (
	BlockHeader  BlockKind = "header"
	BlockContext BlockKind = "context"
	BlockDivider BlockKind = "divider"
	BlockSection BlockKind = "section"
)

// Block is one display element. Header text is plain; context and section
// text use the chat platform's markdown dialect.
type Block struct {
	Kind BlockKind
	Text string
}

// Message is a rendered reply. Text is the notification fallback.
type Message struct {
	Text   string
	Blocks []Block
}

// Visibility controls who sees a reply.
type Visibility string

const (
	// Ephemeral replies are shown to the requester only.
	Ephemeral Visibility = "ephemeral"
	// InChannel replies are shown to every channel member.
	InChannel Visibility = "in_channel"
)

// Reply pairs a message with its audience.
type Reply struct {
	Visibility Visibility
	Message    Message
}

// Count returns the number of blocks of the given kind.
func (m Message) Count(kind BlockKind) int {
	n := 0
	for _, b := range m.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// Responder is the reply channel of one inbound event.
type Responder interface {
	// Ack confirms receipt to the chat transport.
	Ack() error
	Reply(ctx context.Context, r Reply) error
}
