// Package ledger implements an append-only transcript of the protocol
// messages a peer exchanged during a match.
//
// # Core Components
//
// Blockchain: An append-only log of messages with hash chaining for tamper
// detection.
//
// Block: A single message, described by its direction, kind, the step of
// the sender and a digest of its payload, linked to the previous block.
//
// # Usage
//
// Create a Blockchain for the match and hand it to the protocol driver,
// which appends a block for every message it sends or processes. Verify can
// be called at any time to ensure the chain remains intact; two peers that
// played the same match hold transcripts with the same digests.
package ledger
