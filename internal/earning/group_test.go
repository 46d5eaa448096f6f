package earning

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

func ksmPosition(address string, total int64, status domain.EarningStatus) domain.Position {
	return domain.Position{
		Slug:         ksmSlug,
		Chain:        chainKSM,
		Type:         domain.PoolTypeNominationPool,
		Address:      address,
		BalanceToken: "kusama-NATIVE-KSM",
		TotalStake:   decimal.NewFromInt(total),
		ActiveStake:  decimal.NewFromInt(total),
		Status:       status,
		Extra:        domain.NominationPoolExtra{},
	}
}

func TestGroupPositionsAllAccounts(t *testing.T) {
	positions := []domain.Position{
		ksmPosition(addrA, 5, domain.StatusEarningReward),
		dotPosition(addrA, 10, domain.StatusEarningReward),
		ksmPosition(addrB, 7, domain.StatusWaiting),
		dotPosition(addrB, 0, domain.StatusEarningReward),
	}

	got, err := GroupPositions(positions, testPools(), allScope())
	if err != nil {
		t.Fatalf("GroupPositions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[0].Slug != ksmSlug || got[1].Slug != dotSlug {
		t.Errorf("order = [%s %s], want first appearance order", got[0].Slug, got[1].Slug)
	}
	for _, p := range got {
		if !p.IsCompound() {
			t.Errorf("%s: Address = %s, want compound", p.Slug, p.Address)
		}
	}
	if !got[0].TotalStake.Equal(decimal.NewFromInt(12)) || got[0].Status != domain.StatusPartiallyEarning {
		t.Errorf("ksm compound = %s %s, want 12 PARTIALLY_EARNING", got[0].TotalStake, got[0].Status)
	}
	if !got[1].TotalStake.Equal(decimal.NewFromInt(10)) || got[1].Status != domain.StatusEarningReward {
		t.Errorf("dot compound = %s %s, want 10 EARNING_REWARD", got[1].TotalStake, got[1].Status)
	}
}

func TestGroupPositionsSingleAccount(t *testing.T) {
	positions := []domain.Position{
		dotPosition(addrA, 10, domain.StatusEarningReward),
		ksmPosition(addrB, 7, domain.StatusWaiting),
		ksmPosition(addrA, 5, domain.StatusEarningReward),
	}

	got, err := GroupPositions(positions, testPools(), singleScope(addrA))
	if err != nil {
		t.Fatalf("GroupPositions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.Address != addrA {
			t.Errorf("Address = %s, want %s", p.Address, addrA)
		}
	}
	if got[0].Slug != dotSlug || got[1].Slug != ksmSlug {
		t.Errorf("order = [%s %s], want input order", got[0].Slug, got[1].Slug)
	}
}

func TestGroupPositionsEmpty(t *testing.T) {
	got, err := GroupPositions(nil, testPools(), allScope())
	if err != nil {
		t.Fatalf("GroupPositions() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
