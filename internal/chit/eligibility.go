package chit

import "github.com/chitfundhq/chitfund/internal/models"

// Eligibility partitions a group roster for one auction. Every roster
// member lands in exactly one of the three sets: a prior winner is
// auto-excluded even if an admin also entered a manual exclusion for them,
// so the sets stay disjoint and their union covers the roster.
type Eligibility struct {
	Eligible         []uint64 // Members permitted to bid.
	PreviousWinners  []uint64 // Members auto-excluded for having already won.
	ManuallyExcluded []uint64 // Members excluded by admin action.

	eligibleSet map[uint64]struct{}
	rosterSet   map[uint64]struct{}
}

// ResolveEligibility computes the member partition for an auction from the
// group roster and the auction's manual exclusion list. Roster order is
// preserved within each set. An empty eligible set is a valid result.
func ResolveEligibility(roster []models.GroupMember, manual []models.AuctionExclusion) Eligibility {
	manualSet := make(map[uint64]struct{}, len(manual))
	for _, ex := range manual {
		manualSet[ex.UserID] = struct{}{}
	}

	out := Eligibility{
		eligibleSet: make(map[uint64]struct{}, len(roster)),
		rosterSet:   make(map[uint64]struct{}, len(roster)),
	}
	for _, m := range roster {
		out.rosterSet[m.UserID] = struct{}{}
		switch {
		case m.HasWon:
			out.PreviousWinners = append(out.PreviousWinners, m.UserID)
		case hasMember(manualSet, m.UserID):
			out.ManuallyExcluded = append(out.ManuallyExcluded, m.UserID)
		default:
			out.Eligible = append(out.Eligible, m.UserID)
			out.eligibleSet[m.UserID] = struct{}{}
		}
	}
	return out
}

// IsEligible reports whether the member may bid in this auction.
func (e Eligibility) IsEligible(userID uint64) bool {
	return hasMember(e.eligibleSet, userID)
}

// InRoster reports whether the member belongs to the group at all.
func (e Eligibility) InRoster(userID uint64) bool {
	return hasMember(e.rosterSet, userID)
}

func hasMember(set map[uint64]struct{}, id uint64) bool {
	_, ok := set[id]
	return ok
}
