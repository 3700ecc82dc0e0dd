// VulcanizeDB
// Copyright © 2018 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package oracle

import (
	"errors"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/registrar"
)

// Year is the charging unit: rents are quoted per year and partial years are
// rounded up.
const Year uint64 = 365 * 24 * 60 * 60

var (
	ErrNameTooShort  = errors.New("name is below the minimum length")
	ErrNotAuthorized = errors.New("caller is not the oracle owner")
)

// Quote is the price of a registration or renewal, split into the length-tier
// base rent and the decaying premium on recently lapsed names.
type Quote struct {
	Base    *big.Int
	Premium *big.Int
}

func (q Quote) Total() *big.Int {
	return new(big.Int).Add(q.Base, q.Premium)
}

type Oracle interface {
	Price(name string, expires, duration uint64) (Quote, error)
}

// StableOracle prices rent as a step function of rendered name length:
// three-character names at the highest tier, four at the middle, five and up
// at the lowest. Length is counted in runes so multi-byte characters weigh
// one unit each. Tier rates are owner-adjustable.
type StableOracle struct {
	owner        common.Address
	clock        core.Clock
	rates        [3]*big.Int
	startPremium *big.Int
	premiumDecay uint64
	logger       log.Logger
}

// NewStableOracle sets the annual rates for the three length tiers, shortest
// first.
func NewStableOracle(owner common.Address, clock core.Clock, rate3, rate4, rate5 *big.Int) *StableOracle {
	return &StableOracle{
		owner:        owner,
		clock:        clock,
		rates:        [3]*big.Int{rate3, rate4, rate5},
		startPremium: new(big.Int),
		logger:       log.New("component", "oracle"),
	}
}

func (o *StableOracle) SetRates(caller common.Address, rate3, rate4, rate5 *big.Int) error {
	if caller != o.owner {
		return ErrNotAuthorized
	}
	o.rates = [3]*big.Int{rate3, rate4, rate5}
	o.logger.Info("Tier rates updated", "rate3", rate3, "rate4", rate4, "rate5", rate5)
	return nil
}

// SetPremium configures the decaying premium charged on names whose grace
// period ended within the last decay seconds. A zero start premium disables
// premium pricing entirely.
func (o *StableOracle) SetPremium(caller common.Address, start *big.Int, decay uint64) error {
	if caller != o.owner {
		return ErrNotAuthorized
	}
	o.startPremium = new(big.Int).Set(start)
	o.premiumDecay = decay
	return nil
}

func (o *StableOracle) Price(name string, expires, duration uint64) (Quote, error) {
	length := utf8.RuneCountInString(name)
	if length < 3 {
		return Quote{}, ErrNameTooShort
	}
	var rate *big.Int
	switch length {
	case 3:
		rate = o.rates[0]
	case 4:
		rate = o.rates[1]
	default:
		rate = o.rates[2]
	}

	// Ceiling division written to survive attacker-sized durations without
	// wrapping; at least one full year is always charged.
	years := duration / Year
	if duration%Year != 0 || years == 0 {
		years++
	}
	base := new(big.Int).Mul(rate, new(big.Int).SetUint64(years))

	return Quote{Base: base, Premium: o.premium(expires)}, nil
}

// premium decays linearly from startPremium to zero over premiumDecay seconds
// starting the moment the name's grace period ends.
func (o *StableOracle) premium(expires uint64) *big.Int {
	if expires == 0 || o.premiumDecay == 0 || o.startPremium.Sign() == 0 {
		return new(big.Int)
	}
	graceEnd := expires + registrar.GracePeriod
	now := o.clock.Now()
	if now <= graceEnd || now >= graceEnd+o.premiumDecay {
		return new(big.Int)
	}
	remaining := graceEnd + o.premiumDecay - now
	premium := new(big.Int).Mul(o.startPremium, new(big.Int).SetUint64(remaining))
	return premium.Div(premium, new(big.Int).SetUint64(o.premiumDecay))
}
