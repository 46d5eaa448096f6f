package earning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/metrics"
)

// ErrPositionNotFound indicates that no qualifying position exists for the pool.
var ErrPositionNotFound = errors.New("position not found")

// ErrPoolNotFound indicates that the pool is absent from the snapshot metadata.
var ErrPoolNotFound = errors.New("pool not found")

// SnapshotSource supplies the current earning snapshot and change notifications.
type SnapshotSource interface {
	Current() (domain.Snapshot, error)
	Subscribe() (<-chan struct{}, func())
}

// Service answers position queries against the current snapshot.
type Service struct {
	source SnapshotSource
}

// NewService creates a new earning Service. The source is required.
func NewService(source SnapshotSource) *Service {
	if source == nil {
		panic("earning.NewService: source is nil")
	}
	return &Service{source: source}
}

// PositionDetail aggregates the positions of pool slug, narrowed to address when it is not empty.
func (s *Service) PositionDetail(slug, address string) (domain.CompoundResult, error) {
	snap, err := s.source.Current()
	if err != nil {
		return domain.CompoundResult{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return detail(snap, slug, address)
}

func detail(snap domain.Snapshot, slug, address string) (domain.CompoundResult, error) {
	rs, err := Aggregate(snap.Positions, snap.Pools, ScopeFromAccount(snap.Account), slug, address)
	if err != nil {
		metrics.AggregationErrors.Inc()
		return domain.CompoundResult{}, err
	}
	metrics.AggregationsTotal.WithLabelValues(resultMode(rs)).Inc()
	return rs, nil
}

func resultMode(rs domain.CompoundResult) string {
	switch {
	case rs.Compound == nil:
		return "empty"
	case rs.Compound.IsCompound():
		return "compound"
	default:
		return "single"
	}
}

// Positions returns the position list, mainnet first and by fiat value.
func (s *Service) Positions() ([]domain.Position, error) {
	snap, err := s.source.Current()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	grouped, err := GroupPositions(snap.Positions, snap.Pools, ScopeFromAccount(snap.Account))
	if err != nil {
		metrics.AggregationErrors.Inc()
		return nil, err
	}
	return SortPositions(grouped, PriceBookFromSnapshot(snap)), nil
}

// PositionWithdrawal evaluates the unstakings of the pool's compound at nowMs.
func (s *Service) PositionWithdrawal(slug, address string, nowMs int64) (WithdrawalInfo, error) {
	snap, err := s.source.Current()
	if err != nil {
		return WithdrawalInfo{}, fmt.Errorf("reading snapshot: %w", err)
	}

	pool, ok := snap.Pools[slug]
	if !ok {
		return WithdrawalInfo{}, fmt.Errorf("%w: %s", ErrPoolNotFound, slug)
	}

	rs, err := detail(snap, slug, address)
	if err != nil {
		return WithdrawalInfo{}, err
	}
	if rs.Compound == nil {
		return WithdrawalInfo{}, fmt.Errorf("%w: %s", ErrPositionNotFound, slug)
	}
	return Withdrawal(rs.Compound.Unstakings, pool, nowMs), nil
}

// Describe returns the narration line for the pool's compound.
func (s *Service) Describe(slug, address string) (string, error) {
	snap, err := s.source.Current()
	if err != nil {
		return "", fmt.Errorf("reading snapshot: %w", err)
	}

	rs, err := detail(snap, slug, address)
	if err != nil {
		return "", err
	}
	if rs.Compound == nil {
		return "", fmt.Errorf("%w: %s", ErrPositionNotFound, slug)
	}
	return DescribePosition(*rs.Compound, snap.Assets[rs.Compound.BalanceToken]), nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (domain.Snapshot, error) {
	return s.source.Current()
}

// Watch calls fn with a fresh aggregation now and after every snapshot change
// until ctx is done. Snapshot read and aggregation errors are logged and the
// watch continues with the next change.
func (s *Service) Watch(ctx context.Context, slug, address string, fn func(domain.CompoundResult)) {
	changes, cancel := s.source.Subscribe()
	defer cancel()

	emit := func() {
		rs, err := s.PositionDetail(slug, address)
		if err != nil {
			slog.Warn("earning: watch recompute failed", "slug", slug, "address", address, "error", err)
			return
		}
		fn(rs)
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			emit()
		}
	}
}
