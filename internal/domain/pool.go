package domain

import "github.com/shopspring/decimal"

// AvailableMethods lists the actions a pool supports.
type AvailableMethods struct {
	Join           bool `json:"join"`
	DefaultUnstake bool `json:"defaultUnstake"`
	FastUnstake    bool `json:"fastUnstake"`
	CancelUnstake  bool `json:"cancelUnstake"`
	Withdraw       bool `json:"withdraw"`
	ClaimReward    bool `json:"claimReward"`
}

// AssetEarning describes an asset earned by a pool and its rate against the input asset.
type AssetEarning struct {
	Slug         string          `json:"slug"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
}

// PoolInfo is the static metadata of an earning pool.
type PoolInfo struct {
	Slug             string           `json:"slug"`
	Chain            string           `json:"chain"`
	Type             YieldPoolType    `json:"type"`
	Group            string           `json:"group"`
	MaxPoolMembers   int              `json:"maxPoolMembers,omitempty"`
	AvailableMethods AvailableMethods `json:"availableMethods"`
	AssetEarning     []AssetEarning   `json:"assetEarning,omitempty"`
}

// ExchangeRate returns the rate recorded for the given asset, or 1 when none is recorded.
func (p PoolInfo) ExchangeRate(assetSlug string) decimal.Decimal {
	for _, a := range p.AssetEarning {
		if a.Slug == assetSlug && !a.ExchangeRate.IsZero() {
			return a.ExchangeRate
		}
	}
	return decimal.NewFromInt(1)
}

// ChainInfo is the subset of chain metadata the earning views need.
type ChainInfo struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	IsTestnet bool   `json:"isTestnet"`
}

// AssetInfo is the subset of asset registry data the earning views need.
type AssetInfo struct {
	Slug     string `json:"slug"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	PriceID  string `json:"priceId,omitempty"`
}
