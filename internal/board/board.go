// Package board tracks reveal progress over a tiling layout.
//
// A Board pairs one generated layout with the set of revealed piece ids and
// the number of unspent reveal credits. Completing a task awards a credit,
// revealing a piece spends one. When the number of tasks changes the layout
// no longer matches and is regenerated from scratch.
package board

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/todopuzzle/internal/tiling"
)

// StateVersion is the board state format version written by Save.
const StateVersion = 1

// DefaultCity names the hidden image when none is configured.
const DefaultCity = "Paris"

var (
	ErrUnknownPiece    = errors.New("unknown piece")
	ErrAlreadyRevealed = errors.New("piece already revealed")
	ErrNoCredits       = errors.New("no reveal credits available")
	ErrEmptyCity       = errors.New("city name is empty")
)

// Generator produces layouts; *tiling.Generator implements it.
type Generator interface {
	Generate(requested int) tiling.Layout
}

// Board is the persisted puzzle state.
type Board struct {
	Version   int           `json:"version"`
	PuzzleID  string        `json:"puzzle_id"`
	City      string        `json:"city"`
	Layout    tiling.Layout `json:"layout"`
	Revealed  []int         `json:"revealed"`
	Credits   int           `json:"credits"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New generates a fresh board for pieceCount pieces.
func New(gen Generator, pieceCount int, city string) *Board {
	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}
	now := time.Now().UTC()
	return &Board{
		Version:   StateVersion,
		PuzzleID:  uuid.NewString(),
		City:      city,
		Layout:    gen.Generate(pieceCount),
		Revealed:  []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Sync regenerates the layout when the task count no longer matches it.
// Reveals are cleared and every completed task becomes an unspent credit.
// It reports whether a new layout was generated.
func (b *Board) Sync(gen Generator, total, completed int) bool {
	if b.Layout.Requested == total && b.Layout.Rows > 0 {
		return false
	}
	b.regenerate(gen, total, completed)
	return true
}

// Reset starts a new puzzle with the same piece count.
func (b *Board) Reset(gen Generator, completed int) {
	b.regenerate(gen, b.Layout.Requested, completed)
}

func (b *Board) regenerate(gen Generator, total, completed int) {
	b.PuzzleID = uuid.NewString()
	b.Layout = gen.Generate(total)
	b.Revealed = []int{}
	b.Credits = max(completed, 0)
	b.touch()
}

// Settle sets the unspent credits to completed tasks minus revealed pieces.
// A reveal is never taken back, so a task that is reopened after its credit
// was spent earns nothing when it is completed again.
func (b *Board) Settle(completed int) {
	credits := max(completed-len(b.Revealed), 0)
	if credits != b.Credits {
		b.Credits = credits
		b.touch()
	}
}

// Reveal spends a credit to uncover a piece.
func (b *Board) Reveal(id int) error {
	if _, ok := b.Layout.Piece(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	if b.IsRevealed(id) {
		return fmt.Errorf("%w: %d", ErrAlreadyRevealed, id)
	}
	if b.Credits <= 0 {
		return ErrNoCredits
	}
	b.Revealed = append(b.Revealed, id)
	sort.Ints(b.Revealed)
	b.Credits--
	b.touch()
	return nil
}

// IsRevealed reports whether piece id has been revealed.
func (b *Board) IsRevealed(id int) bool {
	i := sort.SearchInts(b.Revealed, id)
	return i < len(b.Revealed) && b.Revealed[i] == id
}

// Unlocked reports whether the board is shown: at least one task is done.
func (b *Board) Unlocked(completed int) bool {
	return completed > 0
}

// Complete reports whether every piece has been revealed.
func (b *Board) Complete() bool {
	n := len(b.Layout.Pieces)
	return n > 0 && len(b.Revealed) >= n
}

// Progress returns revealed and total piece counts.
func (b *Board) Progress() (revealed, total int) {
	return len(b.Revealed), len(b.Layout.Pieces)
}

// Styles returns the placement of every piece with its reveal state.
func (b *Board) Styles() []tiling.PieceStyle {
	return b.Layout.Styles(b.IsRevealed, b.Credits)
}

// SetCity changes the hidden image without touching the layout.
func (b *Board) SetCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrEmptyCity
	}
	b.City = city
	b.touch()
	return nil
}

// ImageURL expands {city} in template with the query-escaped city name.
func (b *Board) ImageURL(template string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{city}", url.QueryEscape(b.City))
}

// Validate checks the board against its layout.
func (b *Board) Validate() error {
	if b.Version != StateVersion {
		return fmt.Errorf("unsupported board version %d", b.Version)
	}
	if err := b.Layout.Validate(); err != nil {
		return err
	}
	if b.Credits < 0 {
		return fmt.Errorf("negative credits %d", b.Credits)
	}
	if len(b.Revealed) > len(b.Layout.Pieces) {
		return fmt.Errorf("%d revealed pieces exceed %d pieces", len(b.Revealed), len(b.Layout.Pieces))
	}
	for i, id := range b.Revealed {
		if _, ok := b.Layout.Piece(id); !ok {
			return fmt.Errorf("revealed %w: %d", ErrUnknownPiece, id)
		}
		if i > 0 && b.Revealed[i-1] >= id {
			return fmt.Errorf("revealed ids not strictly increasing at %d", id)
		}
	}
	return nil
}

func (b *Board) touch() {
	b.UpdatedAt = time.Now().UTC()
}
