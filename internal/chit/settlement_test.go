package chit

import (
	"errors"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

func testGroup(chitAmount, commission int64, totalMembers int) models.ChitGroup {
	return models.ChitGroup{
		ID:                  1,
		ChitAmount:          chitAmount,
		CommissionAmount:    commission,
		TotalMembers:        totalMembers,
		DurationMonths:      totalMembers,
		WinnerPaymentModel:  models.PaymentModelA,
		MonthlyContribution: MonthlyContribution(chitAmount, totalMembers, models.PaymentModelA, 0),
		Status:              models.GroupStatusActive,
	}
}

func testRoster(group models.ChitGroup, count int) []models.GroupMember {
	roster := make([]models.GroupMember, 0, count)
	for i := 1; i <= count; i++ {
		roster = append(roster, models.GroupMember{ChitGroupID: group.ID, UserID: uint64(i)})
	}
	return roster
}

func liveAuction() models.Auction {
	return models.Auction{ID: 1, ChitGroupID: 1, AuctionNumber: 1, Status: models.AuctionStatusLive}
}

func TestComputeSettlementScenario(t *testing.T) {
	group := testGroup(100000, 5000, 10)
	roster := testRoster(group, 10)
	bids := []models.Bid{
		{AuctionID: 1, UserID: 3, Amount: 20000, BidTime: time.Now()},
		{AuctionID: 1, UserID: 5, Amount: 18000, BidTime: time.Now()},
	}

	settlement, err := ComputeSettlement(SettlementRequest{
		Group:        group,
		Auction:      liveAuction(),
		Bids:         bids,
		Roster:       roster,
		WinnerUserID: 3,
	})
	if err != nil {
		t.Fatalf("compute settlement: %v", err)
	}

	if settlement.WinningBid != 20000 {
		t.Fatalf("expected winning bid 20000, got %d", settlement.WinningBid)
	}
	if settlement.CommissionCollected != 5000 {
		t.Fatalf("expected commission 5000, got %d", settlement.CommissionCollected)
	}
	if settlement.TotalDividend != 15000 {
		t.Fatalf("expected total dividend 15000, got %d", settlement.TotalDividend)
	}
	if settlement.AutoDividendPerMember != 1666 {
		t.Fatalf("expected dividend per member 1666, got %d", settlement.AutoDividendPerMember)
	}
	if settlement.WinnerReceives != 75000 {
		t.Fatalf("expected winner payout 75000, got %d", settlement.WinnerReceives)
	}

	// Conservation: winning bid fully splits into commission plus dividend pool.
	if settlement.WinningBid != settlement.CommissionCollected+settlement.TotalDividend {
		t.Fatalf("conservation violated: %d != %d + %d",
			settlement.WinningBid, settlement.CommissionCollected, settlement.TotalDividend)
	}

	if len(settlement.PaymentLines) != 10 {
		t.Fatalf("expected one payment line per roster member, got %d", len(settlement.PaymentLines))
	}
	for _, line := range settlement.PaymentLines {
		if line.IsWinner {
			if line.UserID != 3 {
				t.Fatalf("wrong winner line: %d", line.UserID)
			}
			if line.DividendReceived != 0 || line.DueAmount != group.MonthlyContribution {
				t.Fatalf("winner line should owe full contribution with no dividend: %+v", line)
			}
			continue
		}
		if line.DividendReceived != 1666 {
			t.Fatalf("expected non-winner dividend 1666, got %d", line.DividendReceived)
		}
		if line.DueAmount != group.MonthlyContribution-1666 {
			t.Fatalf("expected due amount %d, got %d", group.MonthlyContribution-1666, line.DueAmount)
		}
	}
}

func TestComputeSettlementDividendFloorIdentity(t *testing.T) {
	cases := []struct {
		winningBid int64
		commission int64
		members    int
	}{
		{20000, 5000, 10},
		{15001, 5000, 10},
		{5000, 5000, 10},
		{99999, 0, 7},
		{12345, 678, 25},
	}
	for _, tc := range cases {
		group := testGroup(1000000, tc.commission, tc.members)
		roster := testRoster(group, tc.members)
		settlement, err := ComputeSettlement(SettlementRequest{
			Group:        group,
			Auction:      liveAuction(),
			Bids:         []models.Bid{{UserID: 1, Amount: tc.winningBid}},
			Roster:       roster,
			WinnerUserID: 1,
		})
		if err != nil {
			t.Fatalf("bid=%d commission=%d: %v", tc.winningBid, tc.commission, err)
		}
		n := int64(tc.members - 1)
		lower := settlement.AutoDividendPerMember * n
		if lower > settlement.TotalDividend || settlement.TotalDividend >= lower+n {
			t.Fatalf("floor identity violated: dividend=%d n=%d total=%d",
				settlement.AutoDividendPerMember, n, settlement.TotalDividend)
		}
	}
}

func TestComputeSettlementNonNegativeDueAmount(t *testing.T) {
	// Tiny contribution with a huge dividend pool: due amounts must clamp at 0.
	group := testGroup(100000, 0, 3)
	group.MonthlyContribution = 100
	roster := testRoster(group, 3)

	settlement, err := ComputeSettlement(SettlementRequest{
		Group:        group,
		Auction:      liveAuction(),
		Bids:         []models.Bid{{UserID: 1, Amount: 90000}},
		Roster:       roster,
		WinnerUserID: 1,
	})
	if err != nil {
		t.Fatalf("compute settlement: %v", err)
	}
	if settlement.DividendPerMember <= group.MonthlyContribution {
		t.Fatalf("test needs dividend above contribution, got %d", settlement.DividendPerMember)
	}
	for _, line := range settlement.PaymentLines {
		if line.DueAmount < 0 {
			t.Fatalf("negative due amount for member %d: %d", line.UserID, line.DueAmount)
		}
		if !line.IsWinner && line.DueAmount != 0 {
			t.Fatalf("expected clamped due amount 0, got %d", line.DueAmount)
		}
	}
}

func TestComputeSettlementInsufficientBid(t *testing.T) {
	group := testGroup(100000, 5000, 10)
	_, err := ComputeSettlement(SettlementRequest{
		Group:        group,
		Auction:      liveAuction(),
		Bids:         []models.Bid{{UserID: 1, Amount: 4000}},
		Roster:       testRoster(group, 10),
		WinnerUserID: 1,
	})
	if !errors.Is(err, ErrInsufficientBid) {
		t.Fatalf("expected ErrInsufficientBid, got %v", err)
	}
}

func TestComputeSettlementExcessiveBid(t *testing.T) {
	group := testGroup(100000, 5000, 10)
	_, err := ComputeSettlement(SettlementRequest{
		Group:        group,
		Auction:      liveAuction(),
		Bids:         []models.Bid{{UserID: 1, Amount: 96000}},
		Roster:       testRoster(group, 10),
		WinnerUserID: 1,
	})
	if !errors.Is(err, ErrExcessiveBid) {
		t.Fatalf("expected ErrExcessiveBid, got %v", err)
	}
}

func TestComputeSettlementDegenerateGroup(t *testing.T) {
	group := testGroup(100000, 0, 1)
	_, err := ComputeSettlement(SettlementRequest{
		Group:        group,
		Auction:      liveAuction(),
		Bids:         []models.Bid{{UserID: 1, Amount: 1000}},
		Roster:       testRoster(group, 1),
		WinnerUserID: 1,
	})
	if !errors.Is(err, ErrDegenerateGroup) {
		t.Fatalf("expected ErrDegenerateGroup, got %v", err)
	}
}

func TestComputeSettlementStatusGuards(t *testing.T) {
	group := testGroup(100000, 5000, 10)
	bids := []models.Bid{{UserID: 1, Amount: 20000}}
	roster := testRoster(group, 10)

	closed := liveAuction()
	closed.Status = models.AuctionStatusClosed
	if _, err := ComputeSettlement(SettlementRequest{Group: group, Auction: closed, Bids: bids, Roster: roster, WinnerUserID: 1}); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}

	scheduled := liveAuction()
	scheduled.Status = models.AuctionStatusScheduled
	if _, err := ComputeSettlement(SettlementRequest{Group: group, Auction: scheduled, Bids: bids, Roster: roster, WinnerUserID: 1}); !errors.Is(err, ErrAuctionNotLive) {
		t.Fatalf("expected ErrAuctionNotLive, got %v", err)
	}

	if _, err := ComputeSettlement(SettlementRequest{Group: group, Auction: liveAuction(), Roster: roster, WinnerUserID: 1}); !errors.Is(err, ErrNoBids) {
		t.Fatalf("expected ErrNoBids, got %v", err)
	}

	var vErr *ValidationError
	if _, err := ComputeSettlement(SettlementRequest{Group: group, Auction: liveAuction(), Bids: bids, Roster: roster, WinnerUserID: 42}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for non-bidding winner, got %v", err)
	}
}

func TestComputeSettlementManualDividendOverride(t *testing.T) {
	group := testGroup(100000, 5000, 10)
	roster := testRoster(group, 10)
	bids := []models.Bid{{UserID: 1, Amount: 20000}}

	override := int64(1500)
	settlement, err := ComputeSettlement(SettlementRequest{
		Group: group, Auction: liveAuction(), Bids: bids, Roster: roster,
		WinnerUserID: 1, ManualDividendPerMember: &override,
	})
	if err != nil {
		t.Fatalf("compute settlement: %v", err)
	}
	if settlement.DividendPerMember != 1500 {
		t.Fatalf("expected override dividend 1500, got %d", settlement.DividendPerMember)
	}
	if settlement.AutoDividendPerMember != 1666 {
		t.Fatalf("auto dividend should be preserved, got %d", settlement.AutoDividendPerMember)
	}

	var vErr *ValidationError
	tooHigh := int64(1667)
	if _, err := ComputeSettlement(SettlementRequest{
		Group: group, Auction: liveAuction(), Bids: bids, Roster: roster,
		WinnerUserID: 1, ManualDividendPerMember: &tooHigh,
	}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for excessive override, got %v", err)
	}
	negative := int64(-1)
	if _, err := ComputeSettlement(SettlementRequest{
		Group: group, Auction: liveAuction(), Bids: bids, Roster: roster,
		WinnerUserID: 1, ManualDividendPerMember: &negative,
	}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for negative override, got %v", err)
	}
}
