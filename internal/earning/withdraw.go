package earning

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// WithdrawalInfo summarizes what the unstakings of a position allow right now.
type WithdrawalInfo struct {
	TotalWithdrawable decimal.Decimal    `json:"totalWithdrawable"`
	HasUnlocking      bool               `json:"hasUnlocking"`
	CanWithdraw       bool               `json:"canWithdraw"`
	CanCancelUnstake  bool               `json:"canCancelUnstake"`
	Items             []domain.Unstaking `json:"items"`
}

// IsClaimable reports whether an unstaking can be withdrawn at nowMs.
// A known target timestamp takes precedence over the reported status.
func IsClaimable(u domain.Unstaking, nowMs int64) bool {
	if u.TargetTimestampMs != nil {
		return *u.TargetTimestampMs <= nowMs
	}
	return u.Status == domain.UnstakingClaimable
}

// Withdrawal evaluates unstakings against the pool's available methods at nowMs.
func Withdrawal(unstakings []domain.Unstaking, pool domain.PoolInfo, nowMs int64) WithdrawalInfo {
	total := lo.Reduce(unstakings, func(acc decimal.Decimal, u domain.Unstaking, _ int) decimal.Decimal {
		if IsClaimable(u, nowMs) {
			return acc.Add(u.Claimable)
		}
		return acc
	}, decimal.Zero)

	hasUnlocking := lo.SomeBy(unstakings, func(u domain.Unstaking) bool {
		return u.Status == domain.UnstakingUnlocking
	})

	return WithdrawalInfo{
		TotalWithdrawable: total,
		HasUnlocking:      hasUnlocking,
		CanWithdraw:       pool.AvailableMethods.Withdraw && total.IsPositive(),
		CanCancelUnstake:  pool.AvailableMethods.CancelUnstake && hasUnlocking,
		Items:             sortUnstakings(unstakings),
	}
}

// ClaimableEntry returns the first unstaking that can be withdrawn at nowMs.
func ClaimableEntry(unstakings []domain.Unstaking, nowMs int64) (domain.Unstaking, bool) {
	return lo.Find(unstakings, func(u domain.Unstaking) bool { return IsClaimable(u, nowMs) })
}

// sortUnstakings orders by target timestamp, then waiting time. Entries with
// neither come first; ties keep their input order.
func sortUnstakings(unstakings []domain.Unstaking) []domain.Unstaking {
	items := make([]domain.Unstaking, len(unstakings))
	copy(items, unstakings)

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.TargetTimestampMs == nil && b.TargetTimestampMs == nil {
			switch {
			case a.WaitingTime == nil:
				return b.WaitingTime != nil
			case b.WaitingTime == nil:
				return false
			default:
				return *a.WaitingTime < *b.WaitingTime
			}
		}
		if a.TargetTimestampMs == nil {
			return true
		}
		if b.TargetTimestampMs == nil {
			return false
		}
		return *a.TargetTimestampMs < *b.TargetTimestampMs
	})
	return items
}
