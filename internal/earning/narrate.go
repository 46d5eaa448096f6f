package earning

import (
	"fmt"
	"strings"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

var statusPhrases = map[domain.EarningStatus]string{
	domain.StatusWaiting:          "waiting for the next era",
	domain.StatusNotEarning:       "not earning",
	domain.StatusEarningReward:    "earning reward",
	domain.StatusPartiallyEarning: "partially earning",
}

// DescribePosition renders a one-line summary of a position for transaction step text.
// Amounts are scaled by the asset's decimals and labeled with its symbol.
func DescribePosition(p domain.Position, asset domain.AssetInfo) string {
	format := func(label string, units string) string {
		if asset.Symbol == "" {
			return label + " " + units
		}
		return label + " " + units + " " + asset.Symbol
	}

	var b strings.Builder
	b.WriteString(format("Staked", domain.FormatUnits(p.TotalStake, asset.Decimals)))

	var parts []string
	if !p.ActiveStake.IsZero() {
		parts = append(parts, format("active", domain.FormatUnits(p.ActiveStake, asset.Decimals)))
	}
	if !p.UnstakeBalance.IsZero() {
		parts = append(parts, format("unstaking", domain.FormatUnits(p.UnstakeBalance, asset.Decimals)))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, " on %s", p.Chain)
	if phrase, ok := statusPhrases[p.Status]; ok {
		fmt.Fprintf(&b, ", %s", phrase)
	}
	if p.IsCompound() {
		b.WriteString(" across all accounts")
	}
	return b.String()
}
