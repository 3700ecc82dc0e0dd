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

import (
	"errors"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/registry"
)

// GracePeriod is the window after expiry during which the previous holder can
// still renew but the name is neither resolvable nor available to others.
const GracePeriod uint64 = 90 * 24 * 60 * 60

var (
	ErrNameNotAvailable = errors.New("name is not available")
	ErrNameExpired      = errors.New("name is expired")
	ErrDurationOverflow = errors.New("duration overflows the timestamp domain")
	ErrZeroDuration     = errors.New("duration must be nonzero")
	ErrNotAuthorized    = errors.New("caller is not owner nor approved")
	ErrNotController    = errors.New("caller is not a registered controller")
)

// Registrar hands out time-bounded, tokenized leases over the immediate
// children of its base node. Registration and renewal are reserved for
// allowlisted controllers; the registrar pushes every ownership change into
// the registry so the tree and the token ledger stay consistent.
type Registrar struct {
	guard       core.Guard
	reg         *registry.Registry
	addr        common.Address
	owner       common.Address
	baseNode    common.Hash
	clock       core.Clock
	expiries    map[common.Hash]uint64
	token       *tokenLedger
	controllers map[common.Address]bool
	feed        event.Feed
	logger      log.Logger
}

// NewRegistrar wires a registrar for baseNode. addr is the identity the
// registrar presents to the registry; the registry's baseNode record must be
// owned by addr before Register can publish subnode owners.
func NewRegistrar(reg *registry.Registry, addr, owner common.Address, baseNode common.Hash, clock core.Clock) *Registrar {
	return &Registrar{
		reg:         reg,
		addr:        addr,
		owner:       owner,
		baseNode:    baseNode,
		clock:       clock,
		expiries:    make(map[common.Hash]uint64),
		token:       newTokenLedger(),
		controllers: make(map[common.Address]bool),
		logger:      log.New("component", "registrar"),
	}
}

func (r *Registrar) BaseNode() common.Hash {
	return r.baseNode
}

func (r *Registrar) NameExpires(id common.Hash) uint64 {
	return r.expiries[id]
}

// Available reports whether id can be freshly registered: either it was never
// registered or its grace period has fully elapsed.
func (r *Registrar) Available(id common.Hash) bool {
	return r.expiries[id]+GracePeriod < r.clock.Now()
}

// OwnerOf returns the current token holder. Ownership lapses the moment the
// name expires, even though the underlying token row persists through grace.
func (r *Registrar) OwnerOf(id common.Hash) (common.Address, error) {
	if r.expiries[id] <= r.clock.Now() {
		return common.Address{}, ErrNameExpired
	}
	return r.token.ownerOf(id), nil
}

func (r *Registrar) IsController(addr common.Address) bool {
	return r.controllers[addr]
}

func (r *Registrar) AddController(caller, controller common.Address) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if caller != r.owner {
		return ErrNotAuthorized
	}
	r.controllers[controller] = true
	r.logger.Info("Controller added", "controller", controller)
	r.feed.Send(Event{Type: ControllerAddedEvent, Account: controller})
	return nil
}

func (r *Registrar) RemoveController(caller, controller common.Address) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if caller != r.owner {
		return ErrNotAuthorized
	}
	delete(r.controllers, controller)
	r.logger.Info("Controller removed", "controller", controller)
	r.feed.Send(Event{Type: ControllerRemovedEvent, Account: controller})
	return nil
}

// checkDuration rejects any extension whose resulting expiry plus grace
// period would wrap the timestamp domain, and zero-length extensions, which
// would leave the expiry unchanged. Durations arrive from untrusted callers,
// so both must be explicit failures.
func checkDuration(from, duration uint64) (uint64, error) {
	if duration == 0 {
		return 0, ErrZeroDuration
	}
	if duration > math.MaxUint64-from {
		return 0, ErrDurationOverflow
	}
	expiry := from + duration
	if GracePeriod > math.MaxUint64-expiry {
		return 0, ErrDurationOverflow
	}
	return expiry, nil
}

// Register allocates id to owner for duration seconds. A token row left over
// from a fully lapsed previous registration is revoked before the fresh token
// is issued, and the new owner is published into the registry.
func (r *Registrar) Register(caller common.Address, id common.Hash, owner common.Address, duration uint64) (uint64, error) {
	if err := r.guard.Enter(); err != nil {
		return 0, err
	}
	defer r.guard.Exit()

	if !r.controllers[caller] {
		return 0, ErrNotController
	}
	if !r.Available(id) {
		return 0, ErrNameNotAvailable
	}
	now := r.clock.Now()
	expiry, err := checkDuration(now, duration)
	if err != nil {
		return 0, err
	}

	// Publish into the registry first: it is the only fallible step, and
	// keeping it ahead of local mutation keeps the operation atomic.
	if _, err := r.reg.SetSubnodeOwner(r.addr, r.baseNode, id, owner); err != nil {
		return 0, err
	}

	if r.token.exists(id) {
		r.token.burn(id)
	}
	r.token.mint(owner, id)
	r.expiries[id] = expiry

	r.logger.Info("Name registered", "id", id, "owner", owner, "expires", expiry)
	r.feed.Send(Event{Type: NameRegisteredEvent, ID: id, Account: owner, Expires: expiry})
	return expiry, nil
}

// Renew extends id's expiry by duration seconds. Allowed while the name is
// active or in grace; a fully lapsed name must go through Register again.
func (r *Registrar) Renew(caller common.Address, id common.Hash, duration uint64) (uint64, error) {
	if err := r.guard.Enter(); err != nil {
		return 0, err
	}
	defer r.guard.Exit()

	if !r.controllers[caller] {
		return 0, ErrNotController
	}
	// A zero expiry means the name was never registered (or was released);
	// near the epoch it would otherwise masquerade as in-grace.
	expires := r.expiries[id]
	if expires == 0 || expires+GracePeriod < r.clock.Now() {
		return 0, ErrNameExpired
	}
	expiry, err := checkDuration(expires, duration)
	if err != nil {
		return 0, err
	}
	r.expiries[id] = expiry

	r.logger.Info("Name renewed", "id", id, "expires", expiry)
	r.feed.Send(Event{Type: NameRenewedEvent, ID: id, Expires: expiry})
	return expiry, nil
}

// Reclaim re-publishes the registry subnode owner for a live name without
// touching its expiry. Used when a token transfer left the registry pointer
// behind.
func (r *Registrar) Reclaim(caller common.Address, id common.Hash, newOwner common.Address) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if r.expiries[id] <= r.clock.Now() {
		return ErrNameExpired
	}
	if !r.token.isApprovedOrOwner(caller, id) {
		return ErrNotAuthorized
	}
	_, err := r.reg.SetSubnodeOwner(r.addr, r.baseNode, id, newOwner)
	return err
}

// Transfer moves the ownership token of a live name. The registry pointer is
// deliberately left alone; the new holder calls Reclaim to take it over.
func (r *Registrar) Transfer(caller common.Address, id common.Hash, to common.Address) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if r.expiries[id] <= r.clock.Now() {
		return ErrNameExpired
	}
	if !r.token.isApprovedOrOwner(caller, id) {
		return ErrNotAuthorized
	}
	r.token.transfer(id, to)
	r.feed.Send(Event{Type: TokenTransferEvent, ID: id, Account: to})
	return nil
}

// Approve lets the live token holder delegate transfer rights for one name.
func (r *Registrar) Approve(caller common.Address, id common.Hash, to common.Address) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if r.expiries[id] <= r.clock.Now() {
		return ErrNameExpired
	}
	owner := r.token.ownerOf(id)
	if owner != caller && !r.token.operators[owner][caller] {
		return ErrNotAuthorized
	}
	r.token.approve(id, to)
	return nil
}

func (r *Registrar) SetApprovalForAll(caller, operator common.Address, approved bool) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	r.token.setApprovalForAll(caller, operator, approved)
	return nil
}

// Release clears the leftover token and expiry rows of a fully lapsed name.
// Permissionless: once past grace anyone may free the id for reallocation.
func (r *Registrar) Release(id common.Hash) error {
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	if !r.Available(id) {
		return ErrNameNotAvailable
	}
	if !r.token.exists(id) && r.expiries[id] == 0 {
		return nil
	}
	r.token.burn(id)
	delete(r.expiries, id)
	r.logger.Info("Name released", "id", id)
	r.feed.Send(Event{Type: NameReleasedEvent, ID: id})
	return nil
}

func (r *Registrar) Subscribe(ch chan<- Event) event.Subscription {
	return r.feed.Subscribe(ch)
}
