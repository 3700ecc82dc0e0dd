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

package payment

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Settlement is the narrow surface the registration controller settles
// through. Collect pulls the fee from the payer, Forward pushes collected
// funds on to the treasury. Snapshot/RevertToSnapshot bracket a settlement
// so a failure later in the same operation rolls the payment back whole,
// allowances included.
type Settlement interface {
	Collect(payer common.Address, amount *big.Int) error
	Forward(to common.Address, amount *big.Int) error
	Snapshot() int
	RevertToSnapshot(id int)
	DiscardSnapshot(id int)
	Balance() *big.Int
}

// LedgerSettlement settles against an in-process Ledger, holding collected
// funds on its own account until they are forwarded. Collect pulls the exact
// amount via allowance, so no refund-of-excess path exists.
type LedgerSettlement struct {
	ledger  *Ledger
	account common.Address
}

func NewLedgerSettlement(ledger *Ledger, account common.Address) *LedgerSettlement {
	return &LedgerSettlement{ledger: ledger, account: account}
}

func (s *LedgerSettlement) Collect(payer common.Address, amount *big.Int) error {
	return s.ledger.TransferFrom(s.account, payer, s.account, amount)
}

func (s *LedgerSettlement) Forward(to common.Address, amount *big.Int) error {
	return s.ledger.Transfer(s.account, to, amount)
}

func (s *LedgerSettlement) Snapshot() int {
	return s.ledger.Snapshot()
}

func (s *LedgerSettlement) RevertToSnapshot(id int) {
	s.ledger.RevertToSnapshot(id)
}

func (s *LedgerSettlement) DiscardSnapshot(id int) {
	s.ledger.DiscardSnapshot(id)
}

func (s *LedgerSettlement) Balance() *big.Int {
	return s.ledger.BalanceOf(s.account)
}
