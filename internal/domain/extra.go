package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownPoolType is returned when a pool type has no variant payload.
var ErrUnknownPoolType = errors.New("unknown pool type")

// PositionExtra is the pool-type specific payload of a Position.
// Every YieldPoolType has exactly one implementation; the set is closed to this package.
type PositionExtra interface {
	PoolType() YieldPoolType
	sealed()
}

type NativeStakingExtra struct{}

type NominationPoolExtra struct{}

type ParachainStakingExtra struct{}

type SingleFarmingExtra struct{}

// LiquidStakingExtra carries the derivative token minted for the staked asset.
type LiquidStakingExtra struct {
	DerivativeToken string
}

// LendingExtra carries the derivative token minted for the supplied asset.
type LendingExtra struct {
	DerivativeToken string
}

// SubnetStakingExtra carries the subnet the stake is delegated to.
type SubnetStakingExtra struct {
	Subnet SubnetData
}

func (NativeStakingExtra) PoolType() YieldPoolType    { return PoolTypeNativeStaking }
func (NominationPoolExtra) PoolType() YieldPoolType   { return PoolTypeNominationPool }
func (ParachainStakingExtra) PoolType() YieldPoolType { return PoolTypeParachainStaking }
func (SingleFarmingExtra) PoolType() YieldPoolType    { return PoolTypeSingleFarming }
func (LiquidStakingExtra) PoolType() YieldPoolType    { return PoolTypeLiquidStaking }
func (LendingExtra) PoolType() YieldPoolType          { return PoolTypeLending }
func (SubnetStakingExtra) PoolType() YieldPoolType    { return PoolTypeSubnetStaking }

func (NativeStakingExtra) sealed()    {}
func (NominationPoolExtra) sealed()   {}
func (ParachainStakingExtra) sealed() {}
func (SingleFarmingExtra) sealed()    {}
func (LiquidStakingExtra) sealed()    {}
func (LendingExtra) sealed()          {}
func (SubnetStakingExtra) sealed()    {}

// NewExtra builds the payload for the given pool type from its wire fields.
// Fields that do not apply to the pool type are ignored.
func NewExtra(t YieldPoolType, derivativeToken string, subnet *SubnetData) (PositionExtra, error) {
	switch t {
	case PoolTypeNativeStaking:
		return NativeStakingExtra{}, nil
	case PoolTypeNominationPool:
		return NominationPoolExtra{}, nil
	case PoolTypeParachainStaking:
		return ParachainStakingExtra{}, nil
	case PoolTypeSingleFarming:
		return SingleFarmingExtra{}, nil
	case PoolTypeLiquidStaking:
		return LiquidStakingExtra{DerivativeToken: derivativeToken}, nil
	case PoolTypeLending:
		return LendingExtra{DerivativeToken: derivativeToken}, nil
	case PoolTypeSubnetStaking:
		var sd SubnetData
		if subnet != nil {
			sd = *subnet
		}
		return SubnetStakingExtra{Subnet: sd}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPoolType, t)
}

type positionFields Position

type positionJSON struct {
	positionFields
	DerivativeToken string      `json:"derivativeToken,omitempty"`
	SubnetData      *SubnetData `json:"subnetData,omitempty"`
}

// MarshalJSON flattens the variant payload into derivativeToken / subnetData.
func (p Position) MarshalJSON() ([]byte, error) {
	out := positionJSON{positionFields: positionFields(p)}
	switch e := p.Extra.(type) {
	case LiquidStakingExtra:
		out.DerivativeToken = e.DerivativeToken
	case LendingExtra:
		out.DerivativeToken = e.DerivativeToken
	case SubnetStakingExtra:
		sd := e.Subnet
		out.SubnetData = &sd
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a position and builds its payload from the type tag.
func (p *Position) UnmarshalJSON(data []byte) error {
	var in positionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	extra, err := NewExtra(in.Type, in.DerivativeToken, in.SubnetData)
	if err != nil {
		return fmt.Errorf("position %s/%s: %w", in.Slug, in.Address, err)
	}
	*p = Position(in.positionFields)
	p.Extra = extra
	return nil
}
