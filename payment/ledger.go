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
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNegativeAmount        = errors.New("negative amount")
)

// Ledger is the fungible-token settlement backend: balances and allowances
// with pull-payment semantics. The controller collects registration fees via
// TransferFrom against an allowance the payer granted beforehand, so the
// exact amount is pulled and no excess ever needs refunding.
type Ledger struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	snapshots  []snapshot
}

func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

func (l *Ledger) BalanceOf(account common.Address) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	if a, ok := l.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

// Mint credits account out of thin air. Funding hook for wiring and tests;
// a production deployment would seed balances from a real token bridge.
func (l *Ledger) Mint(account common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.credit(account, amount)
	return nil
}

func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	spenders, ok := l.allowances[owner]
	if !ok {
		spenders = make(map[common.Address]*big.Int)
		l.allowances[owner] = spenders
	}
	spenders[spender] = new(big.Int).Set(amount)
	return nil
}

func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	return nil
}

// TransferFrom moves amount from `from` to `to` on behalf of spender,
// consuming spender's allowance. Allowance is checked before balance so a
// payer learns the cheaper failure first.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	allowance, ok := l.allowances[from][spender]
	if !ok || allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	l.credit(to, amount)
	return nil
}

type snapshot struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

// Snapshot captures the full ledger state and returns a handle for
// RevertToSnapshot. Balances and allowances are both captured, so reverting
// restores exactly what a rolled-back transaction would leave behind.
func (l *Ledger) Snapshot() int {
	snap := snapshot{
		balances:   make(map[common.Address]*big.Int, len(l.balances)),
		allowances: make(map[common.Address]map[common.Address]*big.Int, len(l.allowances)),
	}
	for account, b := range l.balances {
		snap.balances[account] = new(big.Int).Set(b)
	}
	for owner, spenders := range l.allowances {
		copied := make(map[common.Address]*big.Int, len(spenders))
		for spender, a := range spenders {
			copied[spender] = new(big.Int).Set(a)
		}
		snap.allowances[owner] = copied
	}
	l.snapshots = append(l.snapshots, snap)
	return len(l.snapshots) - 1
}

func (l *Ledger) RevertToSnapshot(id int) {
	if id < 0 || id >= len(l.snapshots) {
		return
	}
	snap := l.snapshots[id]
	l.balances = snap.balances
	l.allowances = snap.allowances
	l.snapshots = l.snapshots[:id]
}

// DiscardSnapshot drops a snapshot once the operation it bracketed has
// committed.
func (l *Ledger) DiscardSnapshot(id int) {
	if id >= 0 && id == len(l.snapshots)-1 {
		l.snapshots = l.snapshots[:id]
	}
}

func (l *Ledger) credit(account common.Address, amount *big.Int) {
	b, ok := l.balances[account]
	if !ok {
		b = new(big.Int)
		l.balances[account] = b
	}
	b.Add(b, amount)
}

func (l *Ledger) debit(account common.Address, amount *big.Int) error {
	b, ok := l.balances[account]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.Sub(b, amount)
	return nil
}
