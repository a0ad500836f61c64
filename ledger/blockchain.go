package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Blockchain struct {
	mu      sync.RWMutex
	matchID string
	blocks  []Block
}

// NewBlockchain creates a new transcript with an initialized genesis block.
// The genesis block has index 0, previous hash "0" and a "genesis" entry.
func NewBlockchain(matchID string) *Blockchain {
	bc := &Blockchain{
		matchID: matchID,
		blocks:  make([]Block, 0),
	}
	genesis := Block{
		Index:     0,
		Timestamp: time.Now().Unix(),
		PrevHash:  "0",
		Entry:     Entry{Kind: "genesis"},
		Metadata:  Metadata{AuthorID: -1, MatchID: matchID},
	}
	genesis.Hash = calculateHash(genesis)
	bc.blocks = append(bc.blocks, genesis)
	return bc
}

// Digest returns the hex sha256 of a message payload.
func Digest(payload []byte) string {
	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:])
}

// Record appends the block of a message. The extra parameter can optionally
// contain additional metadata.
func (bc *Blockchain) Record(dir Direction, kind, step string, payload []byte, authorID int, extra ...map[string]string) error {
	return bc.Append(Entry{
		Direction: dir,
		Kind:      kind,
		Step:      step,
		Digest:    Digest(payload),
		Size:      len(payload),
	}, authorID, extra...)
}

// Append adds a new block to the chain. It calculates the block hash,
// validates the block against the previous block, and appends it.
func (bc *Blockchain) Append(entry Entry, authorID int, extra ...map[string]string) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	var extraMsg map[string]string
	if len(extra) > 0 {
		extraMsg = extra[0]
	}
	latest := bc.blocks[len(bc.blocks)-1]

	newBlock := Block{
		Index:     latest.Index + 1,
		Timestamp: time.Now().Unix(),
		PrevHash:  latest.Hash,
		Entry:     entry,
		Metadata: Metadata{
			AuthorID: authorID,
			MatchID:  bc.matchID,
			Extra:    extraMsg,
		},
	}
	newBlock.Hash = calculateHash(newBlock)

	if err := validateBlock(newBlock, latest); err != nil {
		return fmt.Errorf("invalid block: %w", err)
	}
	bc.blocks = append(bc.blocks, newBlock)
	return nil
}

// SetMatchID binds the transcript to a match learnt after creation. It is
// only allowed before any message was recorded.
func (bc *Blockchain) SetMatchID(matchID string) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if len(bc.blocks) > 1 {
		return fmt.Errorf("transcript already has %d messages", len(bc.blocks)-1)
	}
	bc.matchID = matchID
	bc.blocks[0].Metadata.MatchID = matchID
	bc.blocks[0].Hash = calculateHash(bc.blocks[0])
	return nil
}

// GetLatest returns the most recently added block.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, fmt.Errorf("blockchain is empty")
	}
	return bc.blocks[len(bc.blocks)-1], nil
}

// GetByIndex retrieves a block by its index in the chain. Returns an error if the index
// is out of range.
func (bc *Blockchain) GetByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("index out of range")
	}
	return bc.blocks[index], nil
}

// Len is the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// Verify validates the integrity of the entire chain by checking the genesis block
// and verifying each subsequent block's hash, index continuity, and previous hash linkage.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return fmt.Errorf("empty blockchain")
	}
	if bc.blocks[0].PrevHash != "0" || bc.blocks[0].Hash != calculateHash(bc.blocks[0]) {
		return fmt.Errorf("invalid genesis block")
	}
	for i := 1; i < len(bc.blocks); i++ {
		if err := validateBlock(bc.blocks[i], bc.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

// validateBlock verifies that a block is valid relative to the previous block. It checks
// index continuity, previous hash linkage, current hash validity and the match id.
func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	expectedHash := calculateHash(current)
	if current.Hash != expectedHash {
		return fmt.Errorf("invalid hash: expected %s, got %s", expectedHash, current.Hash)
	}
	if current.Metadata.MatchID != previous.Metadata.MatchID {
		return fmt.Errorf("block belongs to match %q, chain to %q", current.Metadata.MatchID, previous.Metadata.MatchID)
	}
	return nil
}

// calculateHash computes the SHA256 hash of a block based on its index, timestamp, previous
// hash, entry and metadata. The entry and extra metadata are JSON marshaled before hashing.
func calculateHash(block Block) string {
	entryBytes, _ := json.Marshal(block.Entry)
	extraBytes, _ := json.Marshal(block.Metadata.Extra)

	data := fmt.Sprintf("%d%d%s%s%d%s%s",
		block.Index,
		block.Timestamp,
		block.PrevHash,
		entryBytes,
		block.Metadata.AuthorID,
		block.Metadata.MatchID,
		extraBytes,
	)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
