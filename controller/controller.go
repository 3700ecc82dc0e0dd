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

package controller

import (
	"errors"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/oracle"
	"github.com/vulcanize/ens_registry/payment"
	"github.com/vulcanize/ens_registry/registrar"
	"github.com/vulcanize/ens_registry/utils"
)

const (
	// MinCommitmentAge is how long a commitment must rest before it can be
	// revealed; it is what makes front-running a reveal pointless.
	MinCommitmentAge uint64 = 60
	// MaxCommitmentAge bounds how long a name can sit implicitly reserved
	// behind an unrevealed commitment.
	MaxCommitmentAge uint64 = 24 * 60 * 60
	// MinRegistrationDuration is the shortest lease sold.
	MinRegistrationDuration uint64 = 365 * 24 * 60 * 60
	// MinNameLength is counted in rendered characters, not bytes.
	MinNameLength = 3
)

var (
	ErrCommitmentTooNew    = errors.New("commitment is too new")
	ErrCommitmentTooOld    = errors.New("commitment is too old or unknown")
	ErrUnexpiredCommitment = errors.New("unexpired commitment exists")
	ErrDurationTooShort    = errors.New("registration duration is too short")
	ErrInvalidName         = errors.New("name fails the minimum length check")
	ErrNameNotAvailable    = errors.New("name is not available")
	ErrNotOwner            = errors.New("caller is not the controller owner")
)

// Controller sells registrations and renewals for one registrar. Names are
// claimed through a commit-reveal round trip: the client commits to a hash of
// (label, owner, salt), waits out MinCommitmentAge, then reveals. Payment is
// settled atomically with the registrar call; any failure rolls the whole
// operation back.
type Controller struct {
	guard       core.Guard
	registrar   *registrar.Registrar
	oracle      oracle.Oracle
	settlement  payment.Settlement
	addr        common.Address
	owner       common.Address
	treasury    common.Address
	clock       core.Clock
	commitments map[common.Hash]uint64
	hasher      *utils.Hasher
	feed        event.Feed
	logger      log.Logger
}

// NewController wires the registration front end. addr is the identity the
// controller presents to the registrar and must be on its allowlist.
func NewController(reg *registrar.Registrar, orc oracle.Oracle, settle payment.Settlement, addr, owner, treasury common.Address, clock core.Clock) *Controller {
	return &Controller{
		registrar:   reg,
		oracle:      orc,
		settlement:  settle,
		addr:        addr,
		owner:       owner,
		treasury:    treasury,
		clock:       clock,
		commitments: make(map[common.Hash]uint64),
		hasher:      utils.NewHasher(1024),
		logger:      log.New("component", "controller"),
	}
}

// MakeCommitment computes the commit-reveal hash for a registration intent.
// Clients run this off to the side with a salt of their own; only the hash
// ever reaches Commit, so the plaintext name stays hidden until reveal.
func MakeCommitment(name string, owner common.Address, salt common.Hash) common.Hash {
	label := utils.LabelHash(name)
	return crypto.Keccak256Hash(label.Bytes(), owner.Bytes(), salt.Bytes())
}

func (c *Controller) Valid(name string) bool {
	return utf8.RuneCountInString(name) >= MinNameLength
}

func (c *Controller) Available(name string) bool {
	return c.Valid(name) && c.registrar.Available(c.hasher.LabelHash(name))
}

// RentPrice quotes the current cost of holding name for duration seconds.
func (c *Controller) RentPrice(name string, duration uint64) (base, premium *big.Int, err error) {
	quote, err := c.oracle.Price(name, c.registrar.NameExpires(c.hasher.LabelHash(name)), duration)
	if err != nil {
		return nil, nil, err
	}
	return quote.Base, quote.Premium, nil
}

// Commit stores a commitment hash. A still-live prior entry for the same hash
// is rejected so a racing party cannot reset someone else's reveal window;
// an entry at or past MaxCommitmentAge is no longer revealable and is simply
// re-armed.
func (c *Controller) Commit(commitment common.Hash) error {
	if err := c.guard.Enter(); err != nil {
		return err
	}
	defer c.guard.Exit()

	now := c.clock.Now()
	if at, ok := c.commitments[commitment]; ok && at+MaxCommitmentAge > now {
		return ErrUnexpiredCommitment
	}
	c.commitments[commitment] = now
	c.logger.Debug("Commitment stored", "commitment", commitment)
	c.feed.Send(Event{Type: CommitmentMadeEvent, Commitment: commitment, At: now})
	return nil
}

// IsCommitmentReady reports whether a stored commitment is inside its reveal
// window.
func (c *Controller) IsCommitmentReady(commitment common.Hash) bool {
	at, ok := c.commitments[commitment]
	if !ok {
		return false
	}
	now := c.clock.Now()
	return at+MinCommitmentAge <= now && now < at+MaxCommitmentAge
}

// CommitmentAge returns the seconds since the commitment was stored, and
// whether it exists at all.
func (c *Controller) CommitmentAge(commitment common.Hash) (uint64, bool) {
	at, ok := c.commitments[commitment]
	if !ok {
		return 0, false
	}
	return c.clock.Now() - at, true
}

// Register reveals a prior commitment and, if the reveal window and pricing
// checks pass, settles payment and allocates the name in one atomic unit.
// The commitment is consumed first so it can never be replayed; it is put
// back whenever the operation fails, leaving no trace of the attempt.
func (c *Controller) Register(payer common.Address, name string, owner common.Address, duration uint64, salt common.Hash) (uint64, error) {
	if err := c.guard.Enter(); err != nil {
		return 0, err
	}
	defer c.guard.Exit()

	commitment := MakeCommitment(name, owner, salt)
	at, ok := c.commitments[commitment]
	now := c.clock.Now()
	if !ok || now >= at+MaxCommitmentAge {
		return 0, ErrCommitmentTooOld
	}
	if now < at+MinCommitmentAge {
		return 0, ErrCommitmentTooNew
	}
	if !c.Valid(name) {
		return 0, ErrInvalidName
	}
	label := c.hasher.LabelHash(name)
	if !c.registrar.Available(label) {
		return 0, ErrNameNotAvailable
	}
	if duration < MinRegistrationDuration {
		return 0, ErrDurationTooShort
	}
	quote, err := c.oracle.Price(name, c.registrar.NameExpires(label), duration)
	if err != nil {
		return 0, err
	}
	cost := quote.Total()

	delete(c.commitments, commitment)
	snap := c.settlement.Snapshot()
	if err := c.settlement.Collect(payer, cost); err != nil {
		c.settlement.DiscardSnapshot(snap)
		c.commitments[commitment] = at
		return 0, err
	}
	if err := c.settlement.Forward(c.treasury, cost); err != nil {
		c.settlement.RevertToSnapshot(snap)
		c.commitments[commitment] = at
		return 0, err
	}
	expires, err := c.registrar.Register(c.addr, label, owner, duration)
	if err != nil {
		c.settlement.RevertToSnapshot(snap)
		c.commitments[commitment] = at
		return 0, err
	}
	c.settlement.DiscardSnapshot(snap)

	c.logger.Info("Name registered", "name", name, "owner", owner, "cost", cost, "expires", expires)
	c.feed.Send(Event{
		Type:    NameRegisteredEvent,
		Name:    name,
		Label:   label,
		Owner:   owner,
		Base:    quote.Base,
		Premium: quote.Premium,
		Expires: expires,
	})
	return expires, nil
}

// Renew extends an existing registration. Permissionless: anyone may pay for
// any name's renewal, at base price only.
func (c *Controller) Renew(payer common.Address, name string, duration uint64) (uint64, error) {
	if err := c.guard.Enter(); err != nil {
		return 0, err
	}
	defer c.guard.Exit()

	label := c.hasher.LabelHash(name)
	quote, err := c.oracle.Price(name, c.registrar.NameExpires(label), duration)
	if err != nil {
		return 0, err
	}
	cost := quote.Base

	snap := c.settlement.Snapshot()
	if err := c.settlement.Collect(payer, cost); err != nil {
		c.settlement.DiscardSnapshot(snap)
		return 0, err
	}
	if err := c.settlement.Forward(c.treasury, cost); err != nil {
		c.settlement.RevertToSnapshot(snap)
		return 0, err
	}
	expires, err := c.registrar.Renew(c.addr, label, duration)
	if err != nil {
		c.settlement.RevertToSnapshot(snap)
		return 0, err
	}
	c.settlement.DiscardSnapshot(snap)

	c.logger.Info("Name renewed", "name", name, "cost", cost, "expires", expires)
	c.feed.Send(Event{Type: NameRenewedEvent, Name: name, Label: label, Base: cost, Expires: expires})
	return expires, nil
}

func (c *Controller) SetTreasury(caller, treasury common.Address) error {
	if err := c.guard.Enter(); err != nil {
		return err
	}
	defer c.guard.Exit()

	if caller != c.owner {
		return ErrNotOwner
	}
	c.treasury = treasury
	c.logger.Info("Treasury changed", "treasury", treasury)
	return nil
}

// Withdraw sweeps any balance stranded on the controller's settlement account
// to the treasury.
func (c *Controller) Withdraw(caller common.Address) error {
	if err := c.guard.Enter(); err != nil {
		return err
	}
	defer c.guard.Exit()

	if caller != c.owner {
		return ErrNotOwner
	}
	balance := c.settlement.Balance()
	if balance.Sign() == 0 {
		return nil
	}
	return c.settlement.Forward(c.treasury, balance)
}

func (c *Controller) Subscribe(ch chan<- Event) event.Subscription {
	return c.feed.Subscribe(ch)
}
