// Package export renders earning positions into a spreadsheet report.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/earning"
)

// PositionRow is one position as it appears in the report, amounts in whole token units.
type PositionRow struct {
	Slug           string
	Chain          string
	Type           domain.YieldPoolType
	Address        string
	Symbol         string
	TotalStake     decimal.Decimal
	ActiveStake    decimal.Decimal
	UnstakeBalance decimal.Decimal
	Value          decimal.Decimal
	Status         domain.EarningStatus
	IsCompound     bool
}

// Report holds both sheets of the export.
type Report struct {
	GeneratedAt time.Time
	Positions   []PositionRow // position list as shown in the wallet
	Breakdown   []PositionRow // per-address positions behind each list entry
}

// SheetWriter writes a report to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, report Report) error
}

// PositionSource is the part of earning.Service the export reads.
type PositionSource interface {
	Positions() ([]domain.Position, error)
	PositionDetail(slug, address string) (domain.CompoundResult, error)
	Snapshot() (domain.Snapshot, error)
}

// Service builds reports from the current snapshot and delegates writing to a SheetWriter.
type Service struct {
	source PositionSource
	writer SheetWriter
	now    func() time.Time
}

// NewService creates a new export Service.
func NewService(source PositionSource, writer SheetWriter) *Service {
	if source == nil {
		panic("export.NewService: source is nil")
	}
	if writer == nil {
		panic("export.NewService: writer is nil")
	}
	return &Service{source: source, writer: writer, now: time.Now}
}

// Export builds a report of the current positions and writes it.
// Implements worker.AfterReloadHook.
func (s *Service) Export(ctx context.Context) error {
	report, err := s.Build()
	if err != nil {
		return err
	}
	return s.writer.Write(ctx, report)
}

// Build assembles the report without writing it.
func (s *Service) Build() (Report, error) {
	snap, err := s.source.Snapshot()
	if err != nil {
		return Report{}, fmt.Errorf("reading snapshot: %w", err)
	}
	positions, err := s.source.Positions()
	if err != nil {
		return Report{}, fmt.Errorf("listing positions: %w", err)
	}

	var breakdown []domain.Position
	for _, p := range positions {
		if !p.IsCompound() {
			breakdown = append(breakdown, p)
			continue
		}
		rs, err := s.source.PositionDetail(p.Slug, "")
		if err != nil {
			return Report{}, fmt.Errorf("aggregating %s: %w", p.Slug, err)
		}
		breakdown = append(breakdown, rs.List...)
	}

	book := earning.PriceBookFromSnapshot(snap)
	return Report{
		GeneratedAt: s.now().UTC(),
		Positions:   buildRows(positions, book),
		Breakdown:   buildRows(breakdown, book),
	}, nil
}

func buildRows(positions []domain.Position, book earning.PriceBook) []PositionRow {
	rows := make([]PositionRow, 0, len(positions))
	for _, p := range positions {
		asset := book.Assets[p.BalanceToken]
		rows = append(rows, PositionRow{
			Slug:           p.Slug,
			Chain:          p.Chain,
			Type:           p.Type,
			Address:        p.Address,
			Symbol:         asset.Symbol,
			TotalStake:     domain.ToUnits(p.TotalStake, asset.Decimals),
			ActiveStake:    domain.ToUnits(p.ActiveStake, asset.Decimals),
			UnstakeBalance: domain.ToUnits(p.UnstakeBalance, asset.Decimals),
			Value:          book.Value(p),
			Status:         p.Status,
			IsCompound:     p.IsCompound(),
		})
	}
	return rows
}
