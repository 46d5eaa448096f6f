package domain

import "github.com/shopspring/decimal"

// AccountScope describes the account group currently selected in the wallet.
type AccountScope struct {
	IsAllAccount   bool     `json:"isAllAccount"`
	Addresses      []string `json:"addresses"`
	RelevantChains []string `json:"relevantChains"`
}

// Snapshot is a point-in-time view of the engine-pushed earning state.
// Consumers treat it as immutable.
type Snapshot struct {
	Positions []Position                 `json:"positions"`
	Pools     map[string]PoolInfo        `json:"pools"`
	Chains    map[string]ChainInfo       `json:"chains"`
	Assets    map[string]AssetInfo       `json:"assets"`
	Prices    map[string]decimal.Decimal `json:"prices"`
	Account   AccountScope               `json:"account"`
}
