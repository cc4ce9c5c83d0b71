package chit

import (
	"sort"

	"github.com/chitfundhq/chitfund/internal/models"
)

// RankBids returns a new slice sorted into settlement order: amount
// descending, then bid time ascending (first bidder wins a tie), then
// user ID ascending so the order is total. The input is not modified.
func RankBids(bids []models.Bid) []models.Bid {
	ranked := make([]models.Bid, len(bids))
	copy(ranked, bids)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		if !ranked[i].BidTime.Equal(ranked[j].BidTime) {
			return ranked[i].BidTime.Before(ranked[j].BidTime)
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

// AdmitBid validates one bid against the auction state. It returns nil
// when the bid may be recorded and an *InvalidBidError carrying the
// specific reason otherwise. Admission requires a live auction, an
// eligible member, and an amount at or above the starting bid.
func AdmitBid(auctionStatus string, elig Eligibility, startingBid int64, userID uint64, amount int64) error {
	if auctionStatus != models.AuctionStatusLive {
		return &InvalidBidError{Reason: RejectAuctionNotLive, UserID: userID}
	}
	if !elig.IsEligible(userID) {
		return &InvalidBidError{Reason: RejectNotEligible, UserID: userID}
	}
	if amount < startingBid {
		return &InvalidBidError{Reason: RejectBelowFloor, UserID: userID}
	}
	return nil
}
