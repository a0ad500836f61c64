package game

import (
	"fmt"

	"go.dedis.ch/protobuf"
)

type messageKind uint32

const (
	kindHandshake messageKind = iota + 1
	kindBet
	// kindReveal answers a bet that opened community cards with the keys of
	// the counterpart.
	kindReveal
	kindShow
	kindMuck
)

func (k messageKind) String() string {
	switch k {
	case kindHandshake:
		return "handshake"
	case kindBet:
		return "bet"
	case kindReveal:
		return "reveal"
	case kindShow:
		return "show"
	case kindMuck:
		return "muck"
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// message is the only thing two players exchange.
type message struct {
	Kind    uint32
	Round   uint32
	MatchID string
	Action  uint32
	Amount  []byte
	Data    []byte
	Keys    []byte
}

func (m message) kind() messageKind {
	return messageKind(m.Kind)
}

func (m message) encode() ([]byte, error) {
	b, err := protobuf.Encode(&m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.kind(), err)
	}
	return b, nil
}

func decodeMessage(b []byte) (message, error) {
	var m message
	if len(b) == 0 {
		return m, fmt.Errorf("empty message")
	}
	if err := protobuf.Decode(b, &m); err != nil {
		return m, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// kindOf names the kind of an encoded message for logs and transcripts.
func kindOf(b []byte) string {
	m, err := decodeMessage(b)
	if err != nil {
		return "invalid"
	}
	return m.kind().String()
}
