package earning

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// PriceBook resolves fiat prices for positions.
type PriceBook struct {
	Pools  map[string]domain.PoolInfo
	Chains map[string]domain.ChainInfo
	Assets map[string]domain.AssetInfo
	Prices map[string]decimal.Decimal
}

// PriceBookFromSnapshot collects the price lookups of a snapshot.
func PriceBookFromSnapshot(s domain.Snapshot) PriceBook {
	return PriceBook{Pools: s.Pools, Chains: s.Chains, Assets: s.Assets, Prices: s.Prices}
}

// Value returns the fiat value of the position's total stake. Derivative-token
// positions are converted to the input asset with the pool's exchange rate.
// Unknown assets or prices value at zero.
func (b PriceBook) Value(p domain.Position) decimal.Decimal {
	asset, ok := b.Assets[p.BalanceToken]
	if !ok {
		return decimal.Zero
	}
	price, ok := b.Prices[asset.PriceID]
	if !ok {
		return decimal.Zero
	}

	rate := decimal.NewFromInt(1)
	if _, isDerivative := p.DerivativeToken(); isDerivative {
		if pool, ok := b.Pools[p.Slug]; ok {
			rate = pool.ExchangeRate(p.BalanceToken)
		}
	}

	return domain.ToUnits(p.TotalStake.Mul(rate), asset.Decimals).Mul(price)
}

// SortPositions returns a copy of positions with mainnet chains first, then by
// fiat value, highest first. Equal keys keep their input order.
func SortPositions(positions []domain.Position, book PriceBook) []domain.Position {
	type keyed struct {
		pos     domain.Position
		testnet bool
		value   decimal.Decimal
	}

	items := lo.Map(positions, func(p domain.Position, _ int) keyed {
		return keyed{pos: p, testnet: book.Chains[p.Chain].IsTestnet, value: book.Value(p)}
	})

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].testnet != items[j].testnet {
			return !items[i].testnet
		}
		return items[i].value.GreaterThan(items[j].value)
	})

	return lo.Map(items, func(k keyed, _ int) domain.Position { return k.pos })
}
