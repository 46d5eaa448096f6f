package earning

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// GroupPositions returns the positions shown in the position list.
//
// Outside the all-accounts scope these are the qualifying positions of the
// active addresses across every pool, in input order. In the all-accounts scope
// each pool collapses into one compound, ordered by the pool's first appearance.
func GroupPositions(positions []domain.Position, pools map[string]domain.PoolInfo, scope Scope) ([]domain.Position, error) {
	f := newFilter(pools, scope)

	eligible := lo.Filter(positions, func(p domain.Position, _ int) bool {
		return f.eligible(p) && f.matchesAddress(p, "")
	})

	if !scope.IsAllAccount {
		return eligible, nil
	}

	bySlug := lo.GroupBy(eligible, func(p domain.Position) string { return p.Slug })
	slugs := lo.Uniq(lo.Map(eligible, func(p domain.Position, _ int) string { return p.Slug }))

	result := make([]domain.Position, 0, len(slugs))
	for _, slug := range slugs {
		compound, err := synthesize(bySlug[slug])
		if err != nil {
			return nil, fmt.Errorf("grouping %s: %w", slug, err)
		}
		result = append(result, compound)
	}
	return result, nil
}
