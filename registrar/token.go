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

package registrar

import "github.com/ethereum/go-ethereum/common"

// tokenLedger tracks raw token ownership per label id: one unique owner,
// an optional per-token approved account, and blanket operator approvals.
// Liveness gating happens in the Registrar, not here; a row outliving its
// name's expiry is expected and is only cleared on re-registration or
// release.
type tokenLedger struct {
	owners    map[common.Hash]common.Address
	approvals map[common.Hash]common.Address
	operators map[common.Address]map[common.Address]bool
}

func newTokenLedger() *tokenLedger {
	return &tokenLedger{
		owners:    make(map[common.Hash]common.Address),
		approvals: make(map[common.Hash]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (t *tokenLedger) exists(id common.Hash) bool {
	_, ok := t.owners[id]
	return ok
}

func (t *tokenLedger) ownerOf(id common.Hash) common.Address {
	return t.owners[id]
}

func (t *tokenLedger) mint(to common.Address, id common.Hash) {
	t.owners[id] = to
}

func (t *tokenLedger) burn(id common.Hash) {
	delete(t.owners, id)
	delete(t.approvals, id)
}

func (t *tokenLedger) transfer(id common.Hash, to common.Address) {
	t.owners[id] = to
	delete(t.approvals, id)
}

func (t *tokenLedger) approve(id common.Hash, to common.Address) {
	t.approvals[id] = to
}

func (t *tokenLedger) setApprovalForAll(owner, operator common.Address, approved bool) {
	ops, ok := t.operators[owner]
	if !ok {
		ops = make(map[common.Address]bool)
		t.operators[owner] = ops
	}
	ops[operator] = approved
}

func (t *tokenLedger) isApprovedOrOwner(account common.Address, id common.Hash) bool {
	owner, ok := t.owners[id]
	if !ok {
		return false
	}
	if owner == account || t.approvals[id] == account {
		return true
	}
	return t.operators[owner][account]
}
