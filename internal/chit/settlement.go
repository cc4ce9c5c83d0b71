package chit

import "github.com/chitfundhq/chitfund/internal/models"

// SettlementRequest carries everything the settlement computation needs.
// It is assembled by the caller from the chosen winner, the closing
// auction's bid list, and the group's financial parameters.
type SettlementRequest struct {
	Group        models.ChitGroup
	Auction      models.Auction
	Bids         []models.Bid
	Roster       []models.GroupMember
	WinnerUserID uint64

	// ManualDividendPerMember overrides the computed per-member dividend
	// when set. It must lie in [0, autoDividendPerMember].
	ManualDividendPerMember *int64
}

// PaymentLine is one member's payment obligation produced by a settlement.
type PaymentLine struct {
	UserID           uint64
	BaseAmount       int64
	DividendReceived int64
	DueAmount        int64
	IsWinner         bool
}

// Settlement is the full financial outcome of closing an auction.
type Settlement struct {
	WinnerUserID            uint64
	WinningBid              int64
	CommissionCollected     int64
	TotalDividend           int64
	AutoDividendPerMember   int64
	DividendPerMember       int64
	WinnerReceives          int64
	PaymentLines            []PaymentLine
}

// ComputeSettlement transforms a chosen winner and the auction's bid list
// into the cycle's settlement. It is pure: all guards run before the
// caller performs any side effect, so a returned error means nothing may
// be persisted.
//
// The dividend pool is the winning bid minus the fixed commission, split
// evenly across the group's non-winners with floor rounding; the organizer
// retains the remainder rather than distributing fractional currency.
// One payment line is produced per roster member: non-winners owe the
// monthly contribution net of the dividend (clamped at zero), the winner
// owes the full contribution and receives no dividend this cycle.
func ComputeSettlement(req SettlementRequest) (*Settlement, error) {
	switch req.Auction.Status {
	case models.AuctionStatusLive:
	case models.AuctionStatusClosed:
		return nil, ErrAlreadyClosed
	default:
		return nil, ErrAuctionNotLive
	}
	if len(req.Bids) == 0 {
		return nil, ErrNoBids
	}

	var winningBid int64
	found := false
	for _, b := range req.Bids {
		if b.UserID == req.WinnerUserID {
			winningBid = b.Amount
			found = true
			break
		}
	}
	if !found {
		return nil, &ValidationError{Field: "winner", Msg: "chosen winner has no bid in this auction"}
	}

	commission := req.Group.CommissionAmount
	totalDividend := winningBid - commission
	if totalDividend < 0 {
		return nil, ErrInsufficientBid
	}

	nonWinnerCount := int64(req.Group.TotalMembers - 1)
	if nonWinnerCount <= 0 {
		return nil, ErrDegenerateGroup
	}

	autoDividend := totalDividend / nonWinnerCount
	dividend := autoDividend
	if req.ManualDividendPerMember != nil {
		v := *req.ManualDividendPerMember
		if v < 0 || v > autoDividend {
			return nil, &ValidationError{Field: "dividend_per_member", Msg: "override must be between 0 and the computed dividend"}
		}
		dividend = v
	}

	winnerReceives := req.Group.ChitAmount - commission - winningBid
	if winnerReceives < 0 {
		return nil, ErrExcessiveBid
	}

	lines := make([]PaymentLine, 0, len(req.Roster))
	for _, m := range req.Roster {
		line := PaymentLine{
			UserID:     m.UserID,
			BaseAmount: req.Group.MonthlyContribution,
		}
		if m.UserID == req.WinnerUserID {
			line.IsWinner = true
			line.DueAmount = line.BaseAmount
		} else {
			line.DividendReceived = dividend
			line.DueAmount = line.BaseAmount - dividend
			if line.DueAmount < 0 {
				line.DueAmount = 0
			}
		}
		lines = append(lines, line)
	}

	return &Settlement{
		WinnerUserID:          req.WinnerUserID,
		WinningBid:            winningBid,
		CommissionCollected:   commission,
		TotalDividend:         totalDividend,
		AutoDividendPerMember: autoDividend,
		DividendPerMember:     dividend,
		WinnerReceives:        winnerReceives,
		PaymentLines:          lines,
	}, nil
}
