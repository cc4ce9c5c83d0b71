package chit

import (
	"errors"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

func TestRankBidsDeterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		{UserID: 1, Amount: 15000, BidTime: base.Add(2 * time.Minute)},
		{UserID: 2, Amount: 20000, BidTime: base.Add(5 * time.Minute)},
		{UserID: 3, Amount: 20000, BidTime: base.Add(1 * time.Minute)},
		{UserID: 4, Amount: 18000, BidTime: base},
	}

	ranked := RankBids(bids)
	want := []uint64{3, 2, 4, 1}
	for i, id := range want {
		if ranked[i].UserID != id {
			t.Fatalf("rank %d: expected member %d, got %d", i, id, ranked[i].UserID)
		}
	}

	// Rank 0 is always the highest amount, earliest time.
	if ranked[0].Amount != 20000 || !ranked[0].BidTime.Equal(base.Add(1*time.Minute)) {
		t.Fatalf("unexpected rank 0: %+v", ranked[0])
	}

	// The input slice must not be reordered.
	if bids[0].UserID != 1 {
		t.Fatalf("input slice was modified")
	}
}

func TestRankBidsEqualAmountAndTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		{UserID: 9, Amount: 5000, BidTime: at},
		{UserID: 2, Amount: 5000, BidTime: at},
	}
	ranked := RankBids(bids)
	if ranked[0].UserID != 2 || ranked[1].UserID != 9 {
		t.Fatalf("expected user id tie-break, got %d then %d", ranked[0].UserID, ranked[1].UserID)
	}
}

func TestAdmitBid(t *testing.T) {
	roster := []models.GroupMember{
		{UserID: 1},
		{UserID: 2, HasWon: true},
		{UserID: 3},
	}
	manual := []models.AuctionExclusion{{UserID: 3}}
	elig := ResolveEligibility(roster, manual)

	cases := []struct {
		name   string
		status string
		userID uint64
		amount int64
		reason BidRejectReason
	}{
		{"accepted", models.AuctionStatusLive, 1, 1000, ""},
		{"at floor", models.AuctionStatusLive, 1, 500, ""},
		{"not live", models.AuctionStatusScheduled, 1, 1000, RejectAuctionNotLive},
		{"closed", models.AuctionStatusClosed, 1, 1000, RejectAuctionNotLive},
		{"previous winner", models.AuctionStatusLive, 2, 1000, RejectNotEligible},
		{"manually excluded", models.AuctionStatusLive, 3, 1000, RejectNotEligible},
		{"stranger", models.AuctionStatusLive, 99, 1000, RejectNotEligible},
		{"below floor", models.AuctionStatusLive, 1, 499, RejectBelowFloor},
	}
	for _, tc := range cases {
		err := AdmitBid(tc.status, elig, 500, tc.userID, tc.amount)
		if tc.reason == "" {
			if err != nil {
				t.Fatalf("%s: expected admission, got %v", tc.name, err)
			}
			continue
		}
		var bidErr *InvalidBidError
		if !errors.As(err, &bidErr) {
			t.Fatalf("%s: expected InvalidBidError, got %v", tc.name, err)
		}
		if bidErr.Reason != tc.reason {
			t.Fatalf("%s: expected reason %s, got %s", tc.name, tc.reason, bidErr.Reason)
		}
	}
}
