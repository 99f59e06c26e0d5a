package ranking

import (
	"math"
	"reflect"
	"testing"
)

func pop(values ...float64) []Region {
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf"}
	regions := make([]Region, len(values))
	for i, v := range values {
		regions[i] = Region{Code: names[i][:2], Name: names[i], Value: v}
	}
	return regions
}

func user(v float64) Region {
	return Region{Code: "YOU", Name: "You", Value: v}
}

func windowValues(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Region.Value
	}
	return out
}

func TestRankUserBetweenEntries(t *testing.T) {
	// Population 10..50, higher is better. A user at 25 sits after the
	// three strictly better values (50, 40, 30).
	r := Rank(pop(10, 20, 30, 40, 50), user(25), Descending)

	if r.User.Rank != 4 {
		t.Errorf("user rank = %d, want 4", r.User.Rank)
	}
	if r.Position.Kind != PositionBetween {
		t.Fatalf("position kind = %v, want between", r.Position.Kind)
	}
	if r.Position.Upper != 3 || r.Position.Lower != 4 {
		t.Errorf("position = between %d and %d, want between 3 and 4", r.Position.Upper, r.Position.Lower)
	}
	if got := r.Position.Describe(); got != "between rank 3 and rank 4" {
		t.Errorf("Describe() = %q", got)
	}

	// The bracketing values are 30 (better) and 20 (worse).
	if r.All[2].Region.Value != 30 || r.All[4].Region.Value != 20 {
		t.Errorf("user not bracketed by 30 and 20: %v", windowValues(r.All))
	}
}

func TestRankWindow(t *testing.T) {
	r := Rank(pop(10, 20, 30, 40, 50), user(25), Descending)

	got := windowValues(r.Window(2, 1))
	want := []float64{50, 40, 30, 25, 20}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Window(2,1) values = %v, want %v", got, want)
	}

	users := 0
	for _, e := range r.Window(2, 1) {
		if e.Region.IsUser {
			users++
		}
	}
	if users != 1 {
		t.Errorf("window contains %d user entries, want exactly 1", users)
	}
}

func TestRankWindowOverlapDeduplicates(t *testing.T) {
	// User near the top: the neighborhood overlaps the fixed top-N.
	r := Rank(pop(10, 20, 30, 40, 50), user(45), Descending)

	got := windowValues(r.Window(5, 2))
	want := []float64{50, 45, 40, 30, 20, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Window(5,2) values = %v, want %v", got, want)
	}
}

func TestRankWindowTopNCountsPopulationOnly(t *testing.T) {
	// User ranked first: the fixed top-N must still carry N population
	// entries, not N-1 with the user eating a slot.
	r := Rank(pop(10, 20, 30, 40, 50), user(99), Descending)

	got := windowValues(r.Window(3, 1))
	want := []float64{99, 50, 40, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Window(3,1) values = %v, want %v", got, want)
	}

	// Bottom-ranked user: top-N and neighborhood are disjoint.
	r = Rank(pop(10, 20, 30, 40, 50), user(5), Descending)
	got = windowValues(r.Window(3, 1))
	want = []float64{50, 40, 30, 10, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Window(3,1) values = %v, want %v", got, want)
	}
}

func TestRankAboveAll(t *testing.T) {
	r := Rank(pop(10, 20, 30), user(99), Descending)

	if r.User.Rank != 1 {
		t.Errorf("user rank = %d, want 1", r.User.Rank)
	}
	if r.Position.Kind != PositionAbove {
		t.Errorf("position kind = %v, want above", r.Position.Kind)
	}
	if got := r.Position.Describe(); got != "above #1" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestRankBelowAll(t *testing.T) {
	r := Rank(pop(10, 20, 30), user(1), Descending)

	if r.User.Rank != 4 {
		t.Errorf("user rank = %d, want 4", r.User.Rank)
	}
	if r.Position.Kind != PositionBelow {
		t.Errorf("position kind = %v, want below", r.Position.Kind)
	}
	if got := r.Position.Describe(); got != "below #3" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestRankTieInsertsAfterEqual(t *testing.T) {
	// User ties the rank-2 region: inserted after it, without displacing
	// the region's own rank.
	r := Rank(pop(10, 20, 30), user(20), Descending)

	if r.User.Rank != 3 {
		t.Errorf("user rank = %d, want 3", r.User.Rank)
	}

	// Order must be 30, 20 (region), 20 (user), 10.
	if !r.All[2].Region.IsUser {
		t.Errorf("user not inserted after the tied region: %+v", r.All)
	}
	if r.All[1].Rank != 2 {
		t.Errorf("tied region rank displaced to %d", r.All[1].Rank)
	}
}

func TestRankTieWithMinimumGetsLastRank(t *testing.T) {
	// A user equal to the population minimum under desc lands at N+1.
	r := Rank(pop(10, 20, 30, 40, 50), user(10), Descending)

	if r.User.Rank != 6 {
		t.Errorf("user rank = %d, want N+1 = 6", r.User.Rank)
	}
	if got := r.Position.Describe(); got != "below #5" {
		t.Errorf("Describe() = %q, want bottom boundary text", got)
	}
}

func TestRankBoundsProperty(t *testing.T) {
	values := []float64{-3, 0, 7.5, 7.5, 12}
	for _, uv := range []float64{-100, -3, 0, 5, 7.5, 12, 500} {
		r := Rank(pop(values...), user(uv), Descending)
		if r.User.Rank < 1 || r.User.Rank > len(values)+1 {
			t.Errorf("user value %v: rank %d outside [1, %d]", uv, r.User.Rank, len(values)+1)
		}
	}
}

func TestRankEmptyPopulation(t *testing.T) {
	r := Rank(nil, user(42), Descending)

	if r.User.Rank != 1 {
		t.Errorf("user rank = %d, want 1", r.User.Rank)
	}
	if len(r.All) != 1 || !r.All[0].Region.IsUser {
		t.Errorf("All = %+v, want only the user", r.All)
	}
	if got := r.Position.Describe(); got != "rank 1 of 1" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestRankInfiniteValues(t *testing.T) {
	// +Inf sorts above every finite value.
	r := Rank(pop(10, 20, 30), user(math.Inf(1)), Descending)
	if r.User.Rank != 1 {
		t.Errorf("infinite user rank = %d, want 1", r.User.Rank)
	}

	// An infinite population entry outranks a large finite user.
	regions := pop(10, 20)
	regions = append(regions, Region{Code: "IN", Name: "Hotel", Value: math.Inf(1)})
	r = Rank(regions, user(1e18), Descending)
	if r.User.Rank != 2 {
		t.Errorf("user rank = %d, want 2 (below the infinite entry)", r.User.Rank)
	}
}

func TestRankAscendingDirection(t *testing.T) {
	// Lower is better: a user at 15 beats 20 and 30 but not 10.
	r := Rank(pop(10, 20, 30), user(15), Ascending)

	if r.User.Rank != 2 {
		t.Errorf("user rank = %d, want 2", r.User.Rank)
	}
	if r.All[0].Region.Value != 10 {
		t.Errorf("rank 1 value = %v, want 10", r.All[0].Region.Value)
	}
}

func TestRankTieBreakByName(t *testing.T) {
	regions := []Region{
		{Code: "ZZ", Name: "Zulu", Value: 20},
		{Code: "AA", Name: "Anchor", Value: 20},
		{Code: "MM", Name: "Mike", Value: 50},
	}
	r := Rank(regions, user(5), Descending)

	if r.All[1].Region.Name != "Anchor" || r.All[2].Region.Name != "Zulu" {
		t.Errorf("ties not broken by name ascending: %+v", r.All)
	}

	// Input order must not matter.
	reversed := []Region{regions[2], regions[0], regions[1]}
	r2 := Rank(reversed, user(5), Descending)
	if !reflect.DeepEqual(r.All, r2.All) {
		t.Errorf("ranking depends on input order")
	}
}

func TestRankIdempotent(t *testing.T) {
	regions := pop(3, 1, 4, 1, 5)
	u := user(2)

	a := Rank(regions, u, Descending)
	b := Rank(regions, u, Descending)

	if !reflect.DeepEqual(a.All, b.All) {
		t.Errorf("All differs between identical calls")
	}
	if a.User != b.User {
		t.Errorf("User differs between identical calls")
	}
	if !reflect.DeepEqual(a.Window(5, 2), b.Window(5, 2)) {
		t.Errorf("Window differs between identical calls")
	}
}

func TestRankDoesNotMutatePopulation(t *testing.T) {
	regions := pop(30, 10, 20)
	snapshot := make([]Region, len(regions))
	copy(snapshot, regions)

	Rank(regions, user(15), Descending)

	if !reflect.DeepEqual(regions, snapshot) {
		t.Errorf("Rank mutated its input population")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "asc", want: Ascending},
		{in: "desc", want: Descending},
		{in: "", want: Descending},
		{in: "down", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
