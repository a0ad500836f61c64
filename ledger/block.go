package ledger

// Block is one protocol message in the transcript of a match.
type Block struct {
	Index     int      `json:"index"`
	Timestamp int64    `json:"timestamp"`
	PrevHash  string   `json:"prev_hash"`
	Hash      string   `json:"hash"`
	Entry     Entry    `json:"entry"`
	Metadata  Metadata `json:"metadata"`
}

type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// Entry describes a message without storing it: the payload is kept as a
// sha256 digest so the transcript can be shared without leaking keys.
type Entry struct {
	Direction Direction `json:"direction"`
	Kind      string    `json:"kind"`
	Step      string    `json:"step"`
	Digest    string    `json:"digest"`
	Size      int       `json:"size"`
}

type Metadata struct {
	AuthorID int               `json:"author_id"`
	MatchID  string            `json:"match_id"`
	Extra    map[string]string `json:"extra,omitempty"`
}
