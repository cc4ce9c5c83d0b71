package chit

import (
	"testing"

	"github.com/chitfundhq/chitfund/internal/models"
)

func TestResolveEligibilityPartition(t *testing.T) {
	roster := []models.GroupMember{
		{UserID: 1},
		{UserID: 2, HasWon: true},
		{UserID: 3},
		{UserID: 4},
		{UserID: 5, HasWon: true},
	}
	manual := []models.AuctionExclusion{{UserID: 4, Reason: "missed payments"}}

	elig := ResolveEligibility(roster, manual)

	if got := elig.Eligible; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected eligible set: %v", got)
	}
	if got := elig.PreviousWinners; len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Fatalf("unexpected previous winners: %v", got)
	}
	if got := elig.ManuallyExcluded; len(got) != 1 || got[0] != 4 {
		t.Fatalf("unexpected manual exclusions: %v", got)
	}

	// The three sets are disjoint and their union covers the roster.
	seen := map[uint64]int{}
	for _, id := range elig.Eligible {
		seen[id]++
	}
	for _, id := range elig.PreviousWinners {
		seen[id]++
	}
	for _, id := range elig.ManuallyExcluded {
		seen[id]++
	}
	if len(seen) != len(roster) {
		t.Fatalf("union does not cover roster: %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("member %d appears in %d sets", id, n)
		}
	}
}

func TestResolveEligibilityWinnerAlsoManuallyExcluded(t *testing.T) {
	// A prior winner with a stray manual exclusion row counts as
	// auto-excluded only, keeping the partition disjoint.
	roster := []models.GroupMember{
		{UserID: 1, HasWon: true},
		{UserID: 2},
	}
	manual := []models.AuctionExclusion{{UserID: 1}}

	elig := ResolveEligibility(roster, manual)
	if len(elig.PreviousWinners) != 1 || elig.PreviousWinners[0] != 1 {
		t.Fatalf("expected member 1 auto-excluded, got %v", elig.PreviousWinners)
	}
	if len(elig.ManuallyExcluded) != 0 {
		t.Fatalf("expected no manual exclusions, got %v", elig.ManuallyExcluded)
	}
	if len(elig.Eligible) != 1 || elig.Eligible[0] != 2 {
		t.Fatalf("unexpected eligible set: %v", elig.Eligible)
	}
}

func TestResolveEligibilityEmptyEligibleIsValid(t *testing.T) {
	roster := []models.GroupMember{{UserID: 1, HasWon: true}}
	elig := ResolveEligibility(roster, nil)
	if len(elig.Eligible) != 0 {
		t.Fatalf("expected empty eligible set, got %v", elig.Eligible)
	}
	if elig.IsEligible(1) {
		t.Fatalf("previous winner must not be eligible")
	}
	if !elig.InRoster(1) {
		t.Fatalf("previous winner still belongs to the roster")
	}
}
