// ledger.go - Append-only public ledger of coin commitments and spending tags.
//
// The ledger records every accepted mint and spend. Double spends are
// detected by tag collision: the tag is a deterministic, unblinded function
// of the coin's ownership secret, so spending the same coin twice yields the
// same tag.
//
// NOTE: Ledger is not thread-safe by itself; wrap it in a sync.Mutex for
// concurrent access.

package coin

import (
	"encoding/json"
	"os"
)

// Ledger is the canonical, append-only record of the coin system.
type Ledger struct {
	Commitments []string   `json:"commitments"` // permissible coin points, hex-encoded
	Tags        []string   `json:"tags"`        // spending tags, hex-encoded
	MintTxs     []*MintTx  `json:"mint_txs"`
	SpendTxs    []*SpendTx `json:"spend_txs"`
}

// NewLedger creates a new, empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Commitments: make([]string, 0),
		Tags:        make([]string, 0),
		MintTxs:     make([]*MintTx, 0),
		SpendTxs:    make([]*SpendTx, 0),
	}
}

// AppendMint records a verified mint transaction and the permissible
// commitment it was combined into.
func (l *Ledger) AppendMint(tx *MintTx, commitment string) {
	l.Commitments = append(l.Commitments, commitment)
	l.MintTxs = append(l.MintTxs, tx)
}

// AppendSpend records a verified spend transaction. It returns
// ErrDoubleSpend if the transaction's tag is already present.
func (l *Ledger) AppendSpend(tx *SpendTx) error {
	tag := tx.TagKey()
	if l.HasTag(tag) {
		return ErrDoubleSpend
	}
	l.Tags = append(l.Tags, tag)
	l.SpendTxs = append(l.SpendTxs, tx)
	return nil
}

// HasTag returns true if the tag is already in the ledger.
func (l *Ledger) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasCommitment returns true if the commitment is already in the ledger.
func (l *Ledger) HasCommitment(commitment string) bool {
	for _, c := range l.Commitments {
		if c == commitment {
			return true
		}
	}
	return false
}

// SaveToFile saves the ledger to a JSON file, overwriting any existing file.
func (l *Ledger) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// LoadLedgerFromFile loads a ledger from a JSON file.
func LoadLedgerFromFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var l Ledger
	if err := json.NewDecoder(f).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}
