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

package test_helpers

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/gomega"

	"github.com/vulcanize/ens_registry/controller"
	"github.com/vulcanize/ens_registry/oracle"
	"github.com/vulcanize/ens_registry/payment"
	"github.com/vulcanize/ens_registry/registrar"
	"github.com/vulcanize/ens_registry/registry"
	"github.com/vulcanize/ens_registry/utils"
)

var (
	RootOwner         = common.HexToAddress("0x1000000000000000000000000000000000000001")
	RegistrarAccount  = common.HexToAddress("0x1000000000000000000000000000000000000002")
	RegistrarOwner    = common.HexToAddress("0x1000000000000000000000000000000000000003")
	ControllerAccount = common.HexToAddress("0x1000000000000000000000000000000000000004")
	ControllerOwner   = common.HexToAddress("0x1000000000000000000000000000000000000005")
	Treasury          = common.HexToAddress("0x1000000000000000000000000000000000000006")
	OwnerA            = common.HexToAddress("0x2000000000000000000000000000000000000001")
	OwnerB            = common.HexToAddress("0x2000000000000000000000000000000000000002")
	Operator          = common.HexToAddress("0x2000000000000000000000000000000000000003")
	Rando             = common.HexToAddress("0x2000000000000000000000000000000000000004")
)

// StartTime is an arbitrary epoch well past the grace period, so that
// never-registered names start out available.
const StartTime uint64 = 1600000000

var (
	Rate3 = big.NewInt(640)
	Rate4 = big.NewInt(160)
	Rate5 = big.NewInt(5)
)

// FakeClock is a settable clock for driving expiry and commitment windows in
// tests.
type FakeClock struct {
	now uint64
}

func NewFakeClock(start uint64) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() uint64 {
	return c.now
}

func (c *FakeClock) Advance(seconds uint64) {
	c.now += seconds
}

func (c *FakeClock) Set(now uint64) {
	c.now = now
}

// System is a fully wired registry stack against a fake clock, registering
// under the "eth" base name.
type System struct {
	Clock      *FakeClock
	Registry   *registry.Registry
	Registrar  *registrar.Registrar
	Oracle     *oracle.StableOracle
	Ledger     *payment.Ledger
	Settlement *payment.LedgerSettlement
	Controller *controller.Controller
	BaseNode   common.Hash
}

func SetupSystem() *System {
	clock := NewFakeClock(StartTime)

	reg := registry.NewRegistry(RootOwner)
	baseNode, err := reg.SetSubnodeOwner(RootOwner, utils.RootNode, utils.LabelHash("eth"), RegistrarAccount)
	Expect(err).NotTo(HaveOccurred())

	rar := registrar.NewRegistrar(reg, RegistrarAccount, RegistrarOwner, baseNode, clock)
	orc := oracle.NewStableOracle(ControllerOwner, clock, Rate3, Rate4, Rate5)

	ledger := payment.NewLedger()
	settle := payment.NewLedgerSettlement(ledger, ControllerAccount)
	ctrl := controller.NewController(rar, orc, settle, ControllerAccount, ControllerOwner, Treasury, clock)

	err = rar.AddController(RegistrarOwner, ControllerAccount)
	Expect(err).NotTo(HaveOccurred())

	return &System{
		Clock:      clock,
		Registry:   reg,
		Registrar:  rar,
		Oracle:     orc,
		Ledger:     ledger,
		Settlement: settle,
		Controller: ctrl,
		BaseNode:   baseNode,
	}
}

// Fund credits account and approves the controller to pull up to the same
// amount, readying it to pay for registrations.
func (s *System) Fund(account common.Address, amount *big.Int) {
	Expect(s.Ledger.Mint(account, amount)).To(Succeed())
	Expect(s.Ledger.Approve(account, ControllerAccount, amount)).To(Succeed())
}
