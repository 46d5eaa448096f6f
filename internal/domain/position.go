package domain

import (
	"github.com/shopspring/decimal"
)

// AllAccountKey is the pseudo-address carried by positions synthesized for the "All Accounts" view.
const AllAccountKey = "ALL"

// YieldPoolType classifies earning pools.
type YieldPoolType string

const (
	PoolTypeNativeStaking    YieldPoolType = "NATIVE_STAKING"
	PoolTypeNominationPool   YieldPoolType = "NOMINATION_POOL"
	PoolTypeLiquidStaking    YieldPoolType = "LIQUID_STAKING"
	PoolTypeLending          YieldPoolType = "LENDING"
	PoolTypeSubnetStaking    YieldPoolType = "SUBNET_STAKING"
	PoolTypeParachainStaking YieldPoolType = "PARACHAIN_STAKING"
	PoolTypeSingleFarming    YieldPoolType = "SINGLE_FARMING"
)

var allPoolTypes = []YieldPoolType{
	PoolTypeNativeStaking,
	PoolTypeNominationPool,
	PoolTypeLiquidStaking,
	PoolTypeLending,
	PoolTypeSubnetStaking,
	PoolTypeParachainStaking,
	PoolTypeSingleFarming,
}

// AllPoolTypes returns every known pool type. The returned slice is a copy.
func AllPoolTypes() []YieldPoolType {
	out := make([]YieldPoolType, len(allPoolTypes))
	copy(out, allPoolTypes)
	return out
}

// EarningStatus is the reward state of a position.
type EarningStatus string

const (
	StatusWaiting          EarningStatus = "WAITING"
	StatusNotEarning       EarningStatus = "NOT_EARNING"
	StatusEarningReward    EarningStatus = "EARNING_REWARD"
	StatusPartiallyEarning EarningStatus = "PARTIALLY_EARNING" // derived only, never reported by the engine
)

// UnstakingStatus is the state of an unbonding request.
type UnstakingStatus string

const (
	UnstakingClaimable UnstakingStatus = "CLAIMABLE"
	UnstakingUnlocking UnstakingStatus = "UNLOCKING"
)

// Nomination is a stake placed on a single validator or collator.
type Nomination struct {
	ValidatorAddress  string           `json:"validatorAddress"`
	ActiveStake       decimal.Decimal  `json:"activeStake"`
	ValidatorIdentity string           `json:"validatorIdentity,omitempty"`
	ValidatorMinStake *decimal.Decimal `json:"validatorMinStake,omitempty"`
	Status            EarningStatus    `json:"status"`
}

// Unstaking is a pending or finished unbonding request.
type Unstaking struct {
	ValidatorAddress  string          `json:"validatorAddress,omitempty"`
	Claimable         decimal.Decimal `json:"claimable"`
	WaitingTime       *float64        `json:"waitingTime,omitempty"` // hours
	TargetTimestampMs *int64          `json:"targetTimestampMs,omitempty"`
	Status            UnstakingStatus `json:"status"`
}

// SubnetData describes the subnet a subnet-staking position is delegated to.
type SubnetData struct {
	OriginalTotalStake string `json:"originalTotalStake"`
	SubnetSymbol       string `json:"subnetSymbol"`
	SubnetShortName    string `json:"subnetShortName"`
}

// Position is one address's stake in one pool.
// Amounts are in the token's smallest unit; decimals are applied only for display.
type Position struct {
	Slug           string          `json:"slug"`
	Chain          string          `json:"chain"`
	Type           YieldPoolType   `json:"type"`
	Address        string          `json:"address"`
	Group          string          `json:"group,omitempty"`
	BalanceToken   string          `json:"balanceToken"`
	TotalStake     decimal.Decimal `json:"totalStake"`
	ActiveStake    decimal.Decimal `json:"activeStake"`
	UnstakeBalance decimal.Decimal `json:"unstakeBalance"`
	Nominations    []Nomination    `json:"nominations"`
	Unstakings     []Unstaking     `json:"unstakings"`
	Status         EarningStatus   `json:"status"`
	IsBondedBefore bool            `json:"isBondedBefore"`
	Extra          PositionExtra   `json:"-"`
}

// IsCompound reports whether the position is an all-accounts rollup.
func (p Position) IsCompound() bool {
	return p.Address == AllAccountKey
}

// DerivativeToken returns the derivative token of liquid staking and lending positions.
func (p Position) DerivativeToken() (string, bool) {
	switch e := p.Extra.(type) {
	case LiquidStakingExtra:
		return e.DerivativeToken, true
	case LendingExtra:
		return e.DerivativeToken, true
	}
	return "", false
}

// CompoundResult is the outcome of aggregating positions for one pool.
// Compound is nil iff List is empty.
type CompoundResult struct {
	Compound *Position  `json:"compound"`
	List     []Position `json:"list"`
}
