// Package ranking inserts a user's computed metric into a fixed reference
// population (US states, Canadian provinces) and produces ordered,
// boundary-aware rankings.
//
// The population is never mutated: every call sorts a fresh copy, inserts the
// user transiently and returns a complete ranking, the user's own entry with
// a position description, and a windowed "mini ranking" for compact tables.
// Identical inputs always produce identical outputs.
package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hashheat/hashheat/pkg/errors"
)

// Direction declares which end of the value range ranks first.
type Direction string

const (
	// Ascending ranks lower values better (rank 1 = smallest).
	Ascending Direction = "asc"

	// Descending ranks higher values better (rank 1 = largest). All the
	// shipped metrics (savings, COPe, subsidy) are higher-is-better.
	Descending Direction = "desc"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ascending, Descending:
		return Direction(s), nil
	case "":
		return Descending, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "invalid direction: %q (must be asc or desc)", s)
}

// Region is one member of a reference population, or the user's own entry
// when IsUser is set. Values may be any real number including ±Inf: COPe
// approaches +Inf when mining revenue fully offsets heating cost, and +Inf
// sorts above every finite value.
type Region struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	IsUser bool    `json:"is_user,omitempty"`
}

// Entry is a region with its 1-based rank.
type Entry struct {
	Rank   int    `json:"rank"`
	Region Region `json:"region"`
}

// PositionKind classifies where the user's value landed relative to the
// population boundaries.
type PositionKind string

const (
	// PositionOnly means the population was empty: the user is rank 1 of 1.
	PositionOnly PositionKind = "only"

	// PositionAbove means the user is strictly better than every region.
	PositionAbove PositionKind = "above"

	// PositionBelow means the user is strictly worse than every region.
	PositionBelow PositionKind = "below"

	// PositionBetween means the user sits between two adjacent ranks
	// (or ties a region, in which case it sits immediately after it).
	PositionBetween PositionKind = "between"
)

// Position describes the user's slot in the ranking in terms of the
// population's own rank numbers.
type Position struct {
	Kind PositionKind `json:"kind"`

	// Upper and Lower bracket the user for PositionBetween: the user sits
	// between population rank Upper and rank Upper+1 (= Lower).
	Upper int `json:"upper,omitempty"`
	Lower int `json:"lower,omitempty"`

	// Size is the population size N.
	Size int `json:"size"`
}

// Describe renders the position as display text: "above #1", "below #12",
// "between rank 2 and rank 3", or "rank 1 of 1" for an empty population.
func (p Position) Describe() string {
	switch p.Kind {
	case PositionOnly:
		return "rank 1 of 1"
	case PositionAbove:
		return "above #1"
	case PositionBelow:
		return fmt.Sprintf("below #%d", p.Size)
	}
	if p.Lower > p.Size {
		// Tied with the last-ranked region: there is no rank below to
		// bracket against, so report the bottom boundary instead.
		return fmt.Sprintf("below #%d", p.Size)
	}
	return fmt.Sprintf("between rank %d and rank %d", p.Upper, p.Lower)
}

// Result is a complete ranking with the user inserted.
type Result struct {
	// All lists the population in rank order with the user entry spliced
	// in at its value position. Population entries keep their own ranks
	// 1..N; the user's rank never displaces a tied region's number.
	All []Entry `json:"all"`

	// User is the user's own ranked entry.
	User Entry `json:"user"`

	// Position describes the user's slot relative to population ranks.
	Position Position `json:"position"`

	// UserIndex is the user's offset within All. Serialized so a result
	// restored from a cache can still window correctly.
	UserIndex int `json:"user_index"`
}

// Rank sorts the population by value according to direction, inserts the
// user, and returns the full ranking.
//
// Ties within the population are broken by display name ascending, so the
// output is deterministic regardless of input order. The user's rank is
// 1 + the number of population entries sorting before it; a user tying a
// region's value is inserted immediately after all equal-or-better entries,
// so tying rank K yields user rank K+1 and a position bracketed between
// rank K and rank K+1 (tying the minimum yields rank N+1). This is the
// canonical tie contract; downstream rendering must not reinterpret it.
// An empty population yields the sentinel "rank 1 of 1".
func Rank(population []Region, user Region, dir Direction) Result {
	user.IsUser = true

	sorted := slices.Clone(population)
	slices.SortStableFunc(sorted, func(a, b Region) int {
		if c := compareValues(a.Value, b.Value, dir); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	n := len(sorted)
	better, equal := 0, 0
	for _, r := range sorted {
		switch c := compareValues(r.Value, user.Value, dir); {
		case c < 0:
			better++
		case c == 0:
			equal++
		}
	}

	userRank := 1 + better + equal
	userIdx := better + equal

	all := make([]Entry, 0, n+1)
	for i, r := range sorted[:userIdx] {
		all = append(all, Entry{Rank: i + 1, Region: r})
	}
	userEntry := Entry{Rank: userRank, Region: user}
	all = append(all, userEntry)
	for i, r := range sorted[userIdx:] {
		all = append(all, Entry{Rank: userIdx + i + 1, Region: r})
	}

	return Result{
		All:       all,
		User:      userEntry,
		Position:  describePosition(n, better, equal),
		UserIndex: userIdx,
	}
}

func describePosition(n, better, equal int) Position {
	switch {
	case n == 0:
		return Position{Kind: PositionOnly, Size: 0}
	case better == 0 && equal == 0:
		return Position{Kind: PositionAbove, Size: n}
	case better == n:
		return Position{Kind: PositionBelow, Size: n}
	}
	upper := better + equal
	return Position{Kind: PositionBetween, Upper: upper, Lower: upper + 1, Size: n}
}

// compareValues orders a against b so that better values sort first.
// ±Inf compare as ordinary extremes.
func compareValues(a, b float64, dir Direction) int {
	if dir == Ascending {
		return cmp.Compare(a, b)
	}
	return cmp.Compare(b, a)
}

// Window returns the compact "mini ranking": the topN best-ranked population
// entries plus the user's neighborhood (radius entries immediately better and
// worse, clipped at the boundaries), deduplicated and in rank order. The
// fixed top-N counts population entries only, so a user ranked inside the
// top N never displaces the rank-N region. The user's own entry is always
// included exactly once.
func (r Result) Window(topN, radius int) []Entry {
	if topN < 0 {
		topN = 0
	}
	if radius < 0 {
		radius = 0
	}

	include := make([]bool, len(r.All))
	for k := 0; k < topN; k++ {
		// Population rank k+1 lives at index k, shifted one slot down
		// when the user's entry is spliced in above it.
		idx := k
		if idx >= r.UserIndex {
			idx++
		}
		if idx >= len(r.All) {
			break
		}
		include[idx] = true
	}
	lo := max(0, r.UserIndex-radius)
	hi := min(len(r.All)-1, r.UserIndex+radius)
	for i := lo; i <= hi; i++ {
		include[i] = true
	}

	window := make([]Entry, 0, topN+2*radius+1)
	for i, e := range r.All {
		if include[i] {
			window = append(window, e)
		}
	}
	return window
}
