package earning

import (
	"github.com/samber/lo"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// ReduceStatus folds per-address statuses into the status of their rollup.
// A unanimous WAITING, NOT_EARNING or EARNING_REWARD set keeps that status;
// any mix is PARTIALLY_EARNING. An empty set is vacuously WAITING.
// The result does not depend on the order of statuses.
func ReduceStatus(statuses []domain.EarningStatus) domain.EarningStatus {
	unanimous := func(want domain.EarningStatus) bool {
		return lo.EveryBy(statuses, func(s domain.EarningStatus) bool { return s == want })
	}

	switch {
	case unanimous(domain.StatusWaiting):
		return domain.StatusWaiting
	case unanimous(domain.StatusNotEarning):
		return domain.StatusNotEarning
	case unanimous(domain.StatusEarningReward):
		return domain.StatusEarningReward
	default:
		return domain.StatusPartiallyEarning
	}
}
