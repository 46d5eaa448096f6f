// Package earning aggregates per-address staking positions into the views the
// wallet renders: a single position, or a compound rollup of every address in
// the "All Accounts" scope.
package earning

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// ErrUnsupportedPoolType is returned when a position's pool type has no compound constructor.
var ErrUnsupportedPoolType = errors.New("unsupported pool type")

// Scope is the account context positions are aggregated in.
type Scope struct {
	RelevantChains  []string
	ActiveAddresses []string
	IsAllAccount    bool
}

// ScopeFromAccount builds a Scope from the account section of a snapshot.
func ScopeFromAccount(a domain.AccountScope) Scope {
	return Scope{
		RelevantChains:  a.RelevantChains,
		ActiveAddresses: a.Addresses,
		IsAllAccount:    a.IsAllAccount,
	}
}

type filter struct {
	pools  map[string]domain.PoolInfo
	chains map[string]bool
	active map[string]bool
	scope  Scope
}

func newFilter(pools map[string]domain.PoolInfo, scope Scope) filter {
	toSet := func(s string) (string, bool) { return s, true }
	return filter{
		pools:  pools,
		chains: lo.SliceToMap(scope.RelevantChains, toSet),
		active: lo.SliceToMap(scope.ActiveAddresses, toSet),
		scope:  scope,
	}
}

// eligible checks the address-independent rules: relevant chain, known pool, live stake.
func (f filter) eligible(p domain.Position) bool {
	if !f.chains[p.Chain] {
		return false
	}
	if _, ok := f.pools[p.Slug]; !ok {
		return false
	}
	return p.TotalStake.IsPositive()
}

// matchesAddress checks the address rule. An empty target means no address was requested.
func (f filter) matchesAddress(p domain.Position, target string) bool {
	if f.scope.IsAllAccount {
		return target == "" || p.Address == target
	}
	if !f.active[p.Address] {
		return false
	}
	return target == "" || p.Address == target
}

// Aggregate returns the qualifying positions of pool slug and their compound.
//
// List keeps the input order and holds only real positions. In the all-accounts
// scope without a target address the compound is synthesized from List;
// otherwise it is List[0]. With no qualifying positions Compound is nil.
// Inputs are not modified.
func Aggregate(positions []domain.Position, pools map[string]domain.PoolInfo, scope Scope, slug, address string) (domain.CompoundResult, error) {
	f := newFilter(pools, scope)

	list := lo.Filter(positions, func(p domain.Position, _ int) bool {
		return p.Slug == slug && f.eligible(p) && f.matchesAddress(p, address)
	})
	if len(list) == 0 {
		return domain.CompoundResult{List: []domain.Position{}}, nil
	}

	if !scope.IsAllAccount || address != "" {
		first := list[0]
		return domain.CompoundResult{Compound: &first, List: list}, nil
	}

	compound, err := synthesize(list)
	if err != nil {
		return domain.CompoundResult{}, fmt.Errorf("aggregating %s: %w", slug, err)
	}
	return domain.CompoundResult{Compound: &compound, List: list}, nil
}

// synthesize merges positions of one pool into an all-accounts rollup.
// Amounts are summed exactly, unstakings concatenated in order, and the
// variant payload taken from list[0].
func synthesize(list []domain.Position) (domain.Position, error) {
	first := list[0]
	extra, err := compoundExtra(first)
	if err != nil {
		return domain.Position{}, err
	}

	rs := domain.Position{
		Slug:           first.Slug,
		Chain:          first.Chain,
		Type:           first.Type,
		Address:        domain.AllAccountKey,
		Group:          first.Group,
		BalanceToken:   first.BalanceToken,
		TotalStake:     decimal.Zero,
		ActiveStake:    decimal.Zero,
		UnstakeBalance: decimal.Zero,
		Nominations:    []domain.Nomination{},
		Unstakings:     []domain.Unstaking{},
		Status:         domain.StatusNotEarning,
		Extra:          extra,
	}

	statuses := make([]domain.EarningStatus, 0, len(list))
	for _, p := range list {
		rs.TotalStake = rs.TotalStake.Add(p.TotalStake)
		rs.ActiveStake = rs.ActiveStake.Add(p.ActiveStake)
		rs.UnstakeBalance = rs.UnstakeBalance.Add(p.UnstakeBalance)
		rs.IsBondedBefore = rs.IsBondedBefore || p.IsBondedBefore
		rs.Unstakings = append(rs.Unstakings, p.Unstakings...)
		statuses = append(statuses, p.Status)

		if p.Extra != first.Extra {
			slog.Warn("earning: positions of one pool disagree on variant data, keeping the first",
				"slug", first.Slug,
				"address", p.Address,
				"first", fmt.Sprintf("%+v", first.Extra),
				"got", fmt.Sprintf("%+v", p.Extra),
			)
		}
	}
	rs.Status = ReduceStatus(statuses)

	return rs, nil
}

// compoundExtra builds the compound payload for each pool type.
// Every YieldPoolType needs a case here.
func compoundExtra(first domain.Position) (domain.PositionExtra, error) {
	switch first.Type {
	case domain.PoolTypeNativeStaking:
		return domain.NativeStakingExtra{}, nil
	case domain.PoolTypeNominationPool:
		return domain.NominationPoolExtra{}, nil
	case domain.PoolTypeParachainStaking:
		return domain.ParachainStakingExtra{}, nil
	case domain.PoolTypeSingleFarming:
		return domain.SingleFarmingExtra{}, nil
	case domain.PoolTypeLiquidStaking:
		token, _ := first.DerivativeToken()
		return domain.LiquidStakingExtra{DerivativeToken: token}, nil
	case domain.PoolTypeLending:
		token, _ := first.DerivativeToken()
		return domain.LendingExtra{DerivativeToken: token}, nil
	case domain.PoolTypeSubnetStaking:
		e, _ := first.Extra.(domain.SubnetStakingExtra)
		return domain.SubnetStakingExtra{Subnet: e.Subnet}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedPoolType, first.Type)
}
