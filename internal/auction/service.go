// Package auction orchestrates the auction lifecycle: scheduling, opening,
// bid intake, exclusions, and settlement. The pure arithmetic lives in
// internal/chit; this package sequences it against the database, the
// settlement lock, and the event bus.
package auction

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/events"
	"github.com/chitfundhq/chitfund/internal/lock"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// settleLockTTL bounds how long a crashed settler can block the next
// attempt. The database CAS stays correct regardless.
const settleLockTTL = 30 * time.Second

// Service coordinates auction operations.
type Service struct {
	db     *gorm.DB
	locker lock.Locker
	bus    events.Bus
}

// NewService constructs an auction Service.
func NewService(db *gorm.DB, locker lock.Locker, bus events.Bus) *Service {
	return &Service{db: db, locker: locker, bus: bus}
}

// ScheduleInput carries the parameters for scheduling a new auction cycle.
type ScheduleInput struct {
	ChitGroupID uint64
	StartingBid int64
	ScheduledAt time.Time
	DueDate     time.Time
}

// Schedule creates the group's next auction cycle in the Scheduled state.
// The cycle number continues from the group's latest auction and may not
// exceed the group's duration.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (*models.Auction, error) {
	group, errGroup := store.NewAuctionStore(s.db).LoadGroup(ctx, in.ChitGroupID)
	if errGroup != nil {
		return nil, errGroup
	}

	var auction models.Auction
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lastNumber int
		row := tx.Model(&models.Auction{}).
			Where("chit_group_id = ?", in.ChitGroupID).
			Select("COALESCE(MAX(auction_number), 0)").
			Row()
		if errScan := row.Scan(&lastNumber); errScan != nil {
			return errScan
		}
		if lastNumber >= group.DurationMonths {
			return &chit.ValidationError{Field: "auction_number", Msg: "group has run all of its cycles"}
		}
		auction = models.Auction{
			ChitGroupID:   in.ChitGroupID,
			AuctionNumber: lastNumber + 1,
			Status:        models.AuctionStatusScheduled,
			StartingBid:   in.StartingBid,
			ScheduledAt:   in.ScheduledAt,
			DueDate:       in.DueDate,
		}
		return tx.Create(&auction).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"auction_id": auction.ID, "group_id": in.ChitGroupID, "number": auction.AuctionNumber}).Info("auction scheduled")
	return &auction, nil
}

// Start moves a Scheduled auction to Live and announces it on the bus.
func (s *Service) Start(ctx context.Context, auctionID uint64) (*models.Auction, error) {
	auctions := store.NewAuctionStore(s.db)
	now := time.Now().UTC()
	errGo := auctions.Transition(ctx, auctionID,
		models.AuctionStatusScheduled, models.AuctionStatusLive,
		map[string]any{"started_at": now})
	if errGo != nil {
		return nil, errGo
	}

	auction, errLoad := auctions.Load(ctx, auctionID)
	if errLoad != nil {
		return nil, errLoad
	}
	s.publish(ctx, events.KindAuctionStarted, &auction)
	log.WithFields(log.Fields{"auction_id": auctionID, "group_id": auction.ChitGroupID}).Info("auction started")
	return &auction, nil
}

// BidInput carries one bid submission. PlacedByName is set when an admin
// enters the bid on the member's behalf.
type BidInput struct {
	AuctionID    uint64
	UserID       uint64
	Amount       int64
	PlacedByName string
}

// PlaceBid validates and records a bid. A member's repeat bid replaces
// their earlier one and takes a fresh bid time.
func (s *Service) PlaceBid(ctx context.Context, in BidInput) (*models.Bid, error) {
	auctions := store.NewAuctionStore(s.db)
	auction, errLoad := auctions.Load(ctx, in.AuctionID)
	if errLoad != nil {
		return nil, errLoad
	}

	elig, errElig := s.eligibility(ctx, &auction)
	if errElig != nil {
		return nil, errElig
	}
	if errAdmit := chit.AdmitBid(auction.Status, elig, auction.StartingBid, in.UserID, in.Amount); errAdmit != nil {
		return nil, errAdmit
	}

	bid := models.Bid{
		AuctionID:     in.AuctionID,
		UserID:        in.UserID,
		Amount:        in.Amount,
		BidTime:       time.Now().UTC(),
		PlacedByAdmin: in.PlacedByName != "",
		PlacedByName:  in.PlacedByName,
	}
	if errUpsert := store.NewBidStore(s.db).Upsert(ctx, &bid); errUpsert != nil {
		return nil, errUpsert
	}
	s.publish(ctx, events.KindBidPlaced, &auction)
	return &bid, nil
}

// Eligibility resolves the auction's member partition.
func (s *Service) Eligibility(ctx context.Context, auctionID uint64) (chit.Eligibility, error) {
	auction, errLoad := store.NewAuctionStore(s.db).Load(ctx, auctionID)
	if errLoad != nil {
		return chit.Eligibility{}, errLoad
	}
	return s.eligibility(ctx, &auction)
}

func (s *Service) eligibility(ctx context.Context, auction *models.Auction) (chit.Eligibility, error) {
	eligStore := store.NewEligibilityStore(s.db)
	roster, errRoster := eligStore.Roster(ctx, auction.ChitGroupID)
	if errRoster != nil {
		return chit.Eligibility{}, errRoster
	}
	manual, errManual := eligStore.ManualExclusions(ctx, auction.ID)
	if errManual != nil {
		return chit.Eligibility{}, errManual
	}
	return chit.ResolveEligibility(roster, manual), nil
}

// Exclude adds a manual exclusion for a live or scheduled auction. Prior
// winners are already auto-excluded and are rejected here to keep the two
// exclusion kinds disjoint.
func (s *Service) Exclude(ctx context.Context, auctionID, userID uint64, reason, excludedBy string) error {
	auction, errLoad := store.NewAuctionStore(s.db).Load(ctx, auctionID)
	if errLoad != nil {
		return errLoad
	}
	if auction.Status == models.AuctionStatusClosed {
		return chit.ErrAlreadyClosed
	}

	elig, errElig := s.eligibility(ctx, &auction)
	if errElig != nil {
		return errElig
	}
	if !elig.InRoster(userID) {
		return chit.ErrNotFound
	}
	for _, prior := range elig.PreviousWinners {
		if prior == userID {
			return &chit.ValidationError{Field: "user_id", Msg: "member is already auto-excluded as a previous winner"}
		}
	}

	exclusion := models.AuctionExclusion{
		AuctionID:  auctionID,
		UserID:     userID,
		Reason:     reason,
		ExcludedBy: excludedBy,
	}
	return s.db.WithContext(ctx).Create(&exclusion).Error
}

// Unexclude lifts a manual exclusion.
func (s *Service) Unexclude(ctx context.Context, auctionID, userID uint64) error {
	auction, errLoad := store.NewAuctionStore(s.db).Load(ctx, auctionID)
	if errLoad != nil {
		return errLoad
	}
	if auction.Status == models.AuctionStatusClosed {
		return chit.ErrAlreadyClosed
	}
	res := s.db.WithContext(ctx).
		Where("auction_id = ? AND user_id = ?", auctionID, userID).
		Delete(&models.AuctionExclusion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return chit.ErrNotFound
	}
	return nil
}

// SettleInput carries the settlement parameters. A nil WinnerUserID picks
// the top-ranked bid; a nil DividendPerMember keeps the computed split.
type SettleInput struct {
	AuctionID         uint64
	WinnerUserID      *uint64
	DividendPerMember *int64
}

// Preview computes the settlement an auction would close with, without
// persisting anything. It runs the same guards as Settle.
func (s *Service) Preview(ctx context.Context, in SettleInput) (*chit.Settlement, error) {
	req, errBuild := s.buildSettlementRequest(ctx, s.db, in)
	if errBuild != nil {
		return nil, errBuild
	}
	return chit.ComputeSettlement(*req)
}

// Settle closes a live auction at most once: it serializes attempts under
// a per-auction lock, computes the settlement, and commits the status CAS,
// the winner's roster flag, and the payment ledger in one transaction.
// A second call after success reports ErrAlreadyClosed and changes nothing.
func (s *Service) Settle(ctx context.Context, in SettleInput) (*chit.Settlement, error) {
	unlock, errLock := s.locker.Acquire(ctx, settleKey(in.AuctionID), settleLockTTL)
	if errLock != nil {
		// An attempt losing the lock to a settlement that already committed
		// should see the terminal outcome, not transient contention.
		if errors.Is(errLock, lock.ErrHeld) {
			auction, errLoad := store.NewAuctionStore(s.db).Load(ctx, in.AuctionID)
			if errLoad == nil && auction.Status == models.AuctionStatusClosed {
				return nil, chit.ErrAlreadyClosed
			}
		}
		return nil, errLock
	}
	defer unlock()

	var settlement *chit.Settlement
	var auction models.Auction
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, errBuild := s.buildSettlementRequest(ctx, tx, in)
		if errBuild != nil {
			return errBuild
		}
		auction = req.Auction

		computed, errCompute := chit.ComputeSettlement(*req)
		if errCompute != nil {
			return errCompute
		}

		now := time.Now().UTC()
		errClose := store.NewAuctionStore(tx).Transition(ctx, auction.ID,
			models.AuctionStatusLive, models.AuctionStatusClosed,
			map[string]any{
				"closed_at":            now,
				"winner_user_id":       computed.WinnerUserID,
				"winning_bid":          computed.WinningBid,
				"commission_collected": computed.CommissionCollected,
				"total_dividend":       computed.TotalDividend,
				"dividend_per_member":  computed.DividendPerMember,
			})
		if errClose != nil {
			return errClose
		}

		errWinner := tx.Model(&models.GroupMember{}).
			Where("chit_group_id = ? AND user_id = ?", auction.ChitGroupID, computed.WinnerUserID).
			Updates(map[string]any{"has_won": true, "won_in_auction": auction.AuctionNumber}).Error
		if errWinner != nil {
			return errWinner
		}

		errPay := store.NewPaymentStore(tx).CreateSettlementPayments(
			ctx, auction.ChitGroupID, auction.ID, computed.PaymentLines, auction.DueDate)
		if errPay != nil {
			return errPay
		}

		settlement = computed
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	auction.Status = models.AuctionStatusClosed
	s.publish(ctx, events.KindAuctionClosed, &auction)
	log.WithFields(log.Fields{
		"auction_id": auction.ID,
		"group_id":   auction.ChitGroupID,
		"winner":     settlement.WinnerUserID,
		"bid":        settlement.WinningBid,
		"dividend":   settlement.DividendPerMember,
	}).Info("auction settled")
	return settlement, nil
}

func (s *Service) buildSettlementRequest(ctx context.Context, conn *gorm.DB, in SettleInput) (*chit.SettlementRequest, error) {
	auctions := store.NewAuctionStore(conn)
	auction, errLoad := auctions.Load(ctx, in.AuctionID)
	if errLoad != nil {
		return nil, errLoad
	}
	group, errGroup := auctions.LoadGroup(ctx, auction.ChitGroupID)
	if errGroup != nil {
		return nil, errGroup
	}
	bids, errBids := store.NewBidStore(conn).List(ctx, in.AuctionID)
	if errBids != nil {
		return nil, errBids
	}
	roster, errRoster := store.NewEligibilityStore(conn).Roster(ctx, auction.ChitGroupID)
	if errRoster != nil {
		return nil, errRoster
	}

	winner := uint64(0)
	if in.WinnerUserID != nil {
		winner = *in.WinnerUserID
	} else if ranked := chit.RankBids(bids); len(ranked) > 0 {
		winner = ranked[0].UserID
	}

	return &chit.SettlementRequest{
		Group:                   group,
		Auction:                 auction,
		Bids:                    bids,
		Roster:                  roster,
		WinnerUserID:            winner,
		ManualDividendPerMember: in.DividendPerMember,
	}, nil
}

func (s *Service) publish(ctx context.Context, kind string, auction *models.Auction) {
	if s.bus == nil {
		return
	}
	event := events.AuctionEvent{
		Kind:        kind,
		ChitGroupID: auction.ChitGroupID,
		AuctionID:   auction.ID,
		Status:      auction.Status,
		At:          time.Now().UTC(),
	}
	if errPub := s.bus.Publish(ctx, event); errPub != nil {
		log.WithError(errPub).WithField("auction_id", auction.ID).Warn("publish auction event failed")
	}
}

func settleKey(auctionID uint64) string {
	return "auction:settle:" + strconv.FormatUint(auctionID, 10)
}
