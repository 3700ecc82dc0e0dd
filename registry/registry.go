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

package registry

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/utils"
)

var ErrNotAuthorized = errors.New("caller is not authorized for node")

type record struct {
	owner    common.Address
	resolver common.Address
	ttl      uint64
}

// Registry is the authoritative name tree: an ownership/delegation record per
// 256-bit node hash. Nodes enter existence only through SetSubnodeOwner on
// their parent, so authorization always flows down from the root owner.
type Registry struct {
	guard     core.Guard
	records   map[common.Hash]*record
	operators map[common.Address]map[common.Address]bool
	feed      event.Feed
	logger    log.Logger
}

func NewRegistry(rootOwner common.Address) *Registry {
	return &Registry{
		records: map[common.Hash]*record{
			utils.RootNode: {owner: rootOwner},
		},
		operators: make(map[common.Address]map[common.Address]bool),
		logger:    log.New("component", "registry"),
	}
}

// authorized reports whether caller may mutate node: it must be the node's
// current owner or an operator approved by that owner. An unowned node never
// passes, so fresh nodes are only reachable through their parent.
func (reg *Registry) authorized(caller common.Address, node common.Hash) bool {
	r, ok := reg.records[node]
	if !ok || r.owner == (common.Address{}) {
		return false
	}
	if r.owner == caller {
		return true
	}
	return reg.operators[r.owner][caller]
}

func (reg *Registry) SetOwner(caller common.Address, node common.Hash, newOwner common.Address) error {
	if err := reg.guard.Enter(); err != nil {
		return err
	}
	defer reg.guard.Exit()

	if !reg.authorized(caller, node) {
		return ErrNotAuthorized
	}
	reg.records[node].owner = newOwner
	reg.logger.Debug("Node owner changed", "node", node, "owner", newOwner)
	reg.feed.Send(Event{Type: TransferEvent, Node: node, Owner: newOwner})
	return nil
}

func (reg *Registry) SetSubnodeOwner(caller common.Address, parent, labelHash common.Hash, newOwner common.Address) (common.Hash, error) {
	if err := reg.guard.Enter(); err != nil {
		return common.Hash{}, err
	}
	defer reg.guard.Exit()

	if !reg.authorized(caller, parent) {
		return common.Hash{}, ErrNotAuthorized
	}
	child := utils.CreateSubnode(parent, labelHash)
	r, ok := reg.records[child]
	if !ok {
		r = &record{}
		reg.records[child] = r
	}
	r.owner = newOwner
	reg.logger.Debug("Subnode owner set", "parent", parent, "label", labelHash, "owner", newOwner)
	reg.feed.Send(Event{Type: NewOwnerEvent, Node: parent, Label: labelHash, Owner: newOwner})
	return child, nil
}

func (reg *Registry) SetResolver(caller common.Address, node common.Hash, resolver common.Address) error {
	if err := reg.guard.Enter(); err != nil {
		return err
	}
	defer reg.guard.Exit()

	if !reg.authorized(caller, node) {
		return ErrNotAuthorized
	}
	r := reg.records[node]
	if r.resolver == resolver {
		// Unchanged value, keep the event log quiet.
		return nil
	}
	r.resolver = resolver
	reg.logger.Debug("Resolver changed", "node", node, "resolver", resolver)
	reg.feed.Send(Event{Type: NewResolverEvent, Node: node, Resolver: resolver})
	return nil
}

func (reg *Registry) SetTTL(caller common.Address, node common.Hash, ttl uint64) error {
	if err := reg.guard.Enter(); err != nil {
		return err
	}
	defer reg.guard.Exit()

	if !reg.authorized(caller, node) {
		return ErrNotAuthorized
	}
	r := reg.records[node]
	if r.ttl == ttl {
		return nil
	}
	r.ttl = ttl
	reg.feed.Send(Event{Type: NewTTLEvent, Node: node, TTL: ttl})
	return nil
}

// SetApprovalForAll grants or revokes operator rights over every node the
// caller owns, including nodes acquired after the grant.
func (reg *Registry) SetApprovalForAll(caller, operator common.Address, approved bool) error {
	if err := reg.guard.Enter(); err != nil {
		return err
	}
	defer reg.guard.Exit()

	ops, ok := reg.operators[caller]
	if !ok {
		ops = make(map[common.Address]bool)
		reg.operators[caller] = ops
	}
	ops[operator] = approved
	reg.feed.Send(Event{Type: ApprovalForAllEvent, Owner: caller, Operator: operator, Approved: approved})
	return nil
}

func (reg *Registry) Owner(node common.Hash) common.Address {
	if r, ok := reg.records[node]; ok {
		return r.owner
	}
	return common.Address{}
}

func (reg *Registry) Resolver(node common.Hash) common.Address {
	if r, ok := reg.records[node]; ok {
		return r.resolver
	}
	return common.Address{}
}

func (reg *Registry) TTL(node common.Hash) uint64 {
	if r, ok := reg.records[node]; ok {
		return r.ttl
	}
	return 0
}

func (reg *Registry) RecordExists(node common.Hash) bool {
	r, ok := reg.records[node]
	return ok && r.owner != (common.Address{})
}

func (reg *Registry) IsApprovedForAll(owner, operator common.Address) bool {
	return reg.operators[owner][operator]
}

// Subscribe delivers every registry mutation to ch until the subscription is
// cancelled. This is how external read models mirror the tree.
func (reg *Registry) Subscribe(ch chan<- Event) event.Subscription {
	return reg.feed.Subscribe(ch)
}
