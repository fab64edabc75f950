// Package book implements the opening book: pre-computed position values
// and suggested action chains keyed by FEN, used to speed up the AI's
// decision-making in well-known openings. Adapted from the teacher's
// Polyglot-hash-keyed book.go (same Probe/weighted-selection shape) onto
// the original engine's opening_book.rs data model (FEN string keys, a
// per-position value plus several candidate move chains each with their
// own value, since Paco Ŝako has no Polyglot-equivalent position hash).
package book

import (
	"encoding/json"
	"log"
	"math/rand"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/pacosako/engine/internal/paco"
)

// ChainData is one suggested action chain out of a position, with the
// engine's own value estimate for playing it.
type ChainData struct {
	Value   float64       `json:"value"`
	Actions []paco.Action `json:"actions"`
}

// PositionData is everything the book knows about one FEN position.
type PositionData struct {
	PositionValue float64     `json:"position_value"`
	Suggestions   []ChainData `json:"suggested_moves"`
}

// BestChain returns the suggestion with the highest value.
func (p PositionData) BestChain() (ChainData, bool) {
	if len(p.Suggestions) == 0 {
		return ChainData{}, false
	}
	best := p.Suggestions[0]
	for _, c := range p.Suggestions[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	return best, true
}

// Book is an in-memory opening book keyed by FEN string, internally hashed
// with xxhash for fast lookup (mirrors the Rust OpeningBook's
// HashMap<String, PositionData>, with xxhash as a fast non-cryptographic
// hash of the FEN key).
type Book struct {
	entries map[uint64]PositionData
	fens    map[uint64]string // retained for collision diagnostics/debug dumps
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64]PositionData),
		fens:    make(map[uint64]string),
	}
}

func fenKey(fen string) uint64 {
	return xxhash.Sum64String(fen)
}

// Add inserts or overwrites the position data for fen.
func (b *Book) Add(fen string, data PositionData) {
	key := fenKey(fen)
	if existing, ok := b.fens[key]; ok && existing != fen {
		log.Printf("[book] xxhash collision between %q and %q, keeping the newer entry", existing, fen)
	}
	b.entries[key] = data
	b.fens[key] = fen
}

// Lookup returns the position data for fen, if the book has it.
func (b *Book) Lookup(fen string) (PositionData, bool) {
	if b == nil {
		return PositionData{}, false
	}
	data, ok := b.entries[fenKey(fen)]
	return data, ok
}

// Probe returns a chain for fen chosen by weighted random selection over
// each suggestion's value (clamped to non-negative weights), mirroring the
// teacher's Probe. When no suggestion has a positive weight, it falls back
// to the highest-value entry; equal positive weights are drawn at random.
func (b *Book) Probe(fen string) (ChainData, bool) {
	data, ok := b.Lookup(fen)
	if !ok || len(data.Suggestions) == 0 {
		return ChainData{}, false
	}

	suggestions := make([]ChainData, len(data.Suggestions))
	copy(suggestions, data.Suggestions)
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Value > suggestions[j].Value
	})

	totalWeight := 0.0
	for _, c := range suggestions {
		if c.Value > 0 {
			totalWeight += c.Value
		}
	}
	if totalWeight <= 0 {
		return suggestions[0], true
	}

	r := rand.Float64() * totalWeight
	cumulative := 0.0
	for _, c := range suggestions {
		if c.Value <= 0 {
			continue
		}
		cumulative += c.Value
		if r < cumulative {
			return c, true
		}
	}
	return suggestions[0], true
}

// Size returns the number of positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// rawBook is the on-disk JSON shape: a flat map from FEN to position data,
// matching opening_book.rs's RawOpeningBook.
type rawBook map[string]PositionData

// MarshalJSON serializes the book as a flat FEN -> PositionData map.
func (b *Book) MarshalJSON() ([]byte, error) {
	raw := make(rawBook, len(b.fens))
	for key, fen := range b.fens {
		raw[fen] = b.entries[key]
	}
	return json.Marshal(raw)
}

// UnmarshalJSON loads the book from the flat FEN -> PositionData map.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw rawBook
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.entries = make(map[uint64]PositionData, len(raw))
	b.fens = make(map[uint64]string, len(raw))
	for fen, pos := range raw {
		b.Add(fen, pos)
	}
	return nil
}
