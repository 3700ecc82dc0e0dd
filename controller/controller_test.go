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

package controller_test

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/vulcanize/ens_registry/controller"
	"github.com/vulcanize/ens_registry/oracle"
	"github.com/vulcanize/ens_registry/registrar"
	"github.com/vulcanize/ens_registry/test_helpers"
	"github.com/vulcanize/ens_registry/utils"
)

var _ = Describe("Controller", func() {
	var (
		system *test_helpers.System
		salt   = common.HexToHash("0x7a1f000000000000000000000000000000000000000000000000000000000001")
		year   = oracle.Year
	)

	BeforeEach(func() {
		system = test_helpers.SetupSystem()
		system.Fund(test_helpers.OwnerA, big.NewInt(100000))
		system.Fund(test_helpers.OwnerB, big.NewInt(100000))
	})

	// commitAndWait submits the commitment and advances past the minimum age.
	commitAndWait := func(name string, owner common.Address) common.Hash {
		commitment := controller.MakeCommitment(name, owner, salt)
		Expect(system.Controller.Commit(commitment)).To(Succeed())
		system.Clock.Advance(controller.MinCommitmentAge)
		return commitment
	}

	Describe("Commit", func() {
		It("Rejects a fresh commit while a live entry exists", func() {
			commitment := controller.MakeCommitment("alice", test_helpers.OwnerA, salt)
			Expect(system.Controller.Commit(commitment)).To(Succeed())

			system.Clock.Advance(controller.MaxCommitmentAge - 1)
			err := system.Controller.Commit(commitment)
			Expect(err).To(MatchError(controller.ErrUnexpiredCommitment))
		})

		It("Re-arms the moment the prior entry stops being revealable", func() {
			commitment := controller.MakeCommitment("alice", test_helpers.OwnerA, salt)
			Expect(system.Controller.Commit(commitment)).To(Succeed())

			// At exactly the maximum age a reveal already fails, so a fresh
			// commit must be accepted.
			system.Clock.Advance(controller.MaxCommitmentAge)
			Expect(system.Controller.IsCommitmentReady(commitment)).To(BeFalse())
			Expect(system.Controller.Commit(commitment)).To(Succeed())

			age, ok := system.Controller.CommitmentAge(commitment)
			Expect(ok).To(BeTrue())
			Expect(age).To(Equal(uint64(0)))
		})
	})

	Describe("Register", func() {
		It("Completes the commit-reveal round trip", func() {
			// Commit, wait 60 simulated seconds, reveal with payment.
			commitAndWait("alice", test_helpers.OwnerA)

			expires, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())
			Expect(expires).To(Equal(system.Clock.Now() + year))

			label := utils.LabelHash("alice")
			Expect(system.Registrar.NameExpires(label)).To(Equal(expires))

			node := utils.CreateSubnode(system.BaseNode, label)
			Expect(system.Registry.Owner(node)).To(Equal(test_helpers.OwnerA))

			// Payment settled: one year of the five-character tier.
			Expect(system.Ledger.BalanceOf(test_helpers.Treasury)).To(Equal(test_helpers.Rate5))
			Expect(system.Ledger.BalanceOf(test_helpers.OwnerA)).To(Equal(big.NewInt(99995)))
		})

		It("Rejects a reveal before the minimum age", func() {
			commitment := controller.MakeCommitment("alice", test_helpers.OwnerA, salt)
			Expect(system.Controller.Commit(commitment)).To(Succeed())
			system.Clock.Advance(controller.MinCommitmentAge - 1)

			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).To(MatchError(controller.ErrCommitmentTooNew))
		})

		It("Rejects a reveal at or past the maximum age", func() {
			commitment := controller.MakeCommitment("alice", test_helpers.OwnerA, salt)
			Expect(system.Controller.Commit(commitment)).To(Succeed())
			system.Clock.Advance(controller.MaxCommitmentAge)

			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).To(MatchError(controller.ErrCommitmentTooOld))
		})

		It("Rejects a reveal with no commitment at all", func() {
			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).To(MatchError(controller.ErrCommitmentTooOld))
		})

		It("Consumes the commitment exactly once", func() {
			commitAndWait("alice", test_helpers.OwnerA)
			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())

			_, err = system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).To(MatchError(controller.ErrCommitmentTooOld))
		})

		It("Rejects registering a taken name", func() {
			commitAndWait("alice", test_helpers.OwnerA)
			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())

			commitAndWait("alice", test_helpers.OwnerB)
			_, err = system.Controller.Register(test_helpers.OwnerB, "alice", test_helpers.OwnerB, year, salt)
			Expect(err).To(MatchError(controller.ErrNameNotAvailable))
		})

		It("Lets a different account register after expiry and grace elapse", func() {
			commitAndWait("alice", test_helpers.OwnerA)
			expires, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())

			system.Clock.Set(expires + registrar.GracePeriod + 1)
			Expect(system.Controller.Available("alice")).To(BeTrue())

			commitAndWait("alice", test_helpers.OwnerB)
			_, err = system.Controller.Register(test_helpers.OwnerB, "alice", test_helpers.OwnerB, year, salt)
			Expect(err).NotTo(HaveOccurred())

			owner, err := system.Registrar.OwnerOf(utils.LabelHash("alice"))
			Expect(err).NotTo(HaveOccurred())
			Expect(owner).To(Equal(test_helpers.OwnerB))
		})

		It("Rejects durations under the minimum", func() {
			commitAndWait("alice", test_helpers.OwnerA)
			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year-1, salt)
			Expect(err).To(MatchError(controller.ErrDurationTooShort))
		})

		It("Rejects names under three characters", func() {
			commitAndWait("ab", test_helpers.OwnerA)
			_, err := system.Controller.Register(test_helpers.OwnerA, "ab", test_helpers.OwnerA, year, salt)
			Expect(err).To(MatchError(controller.ErrInvalidName))
		})

		It("Leaves no trace when payment fails", func() {
			commitAndWait("alice", test_helpers.Rando)

			// Rando never funded an account.
			_, err := system.Controller.Register(test_helpers.Rando, "alice", test_helpers.Rando, year, salt)
			Expect(err).To(HaveOccurred())

			Expect(system.Controller.Available("alice")).To(BeTrue())
			Expect(system.Ledger.BalanceOf(test_helpers.Treasury).Sign()).To(Equal(0))

			// The commitment survives the failed attempt and the reveal can
			// be retried once the payer is funded.
			system.Fund(test_helpers.Rando, big.NewInt(1000))
			_, err = system.Controller.Register(test_helpers.Rando, "alice", test_helpers.Rando, year, salt)
			Expect(err).NotTo(HaveOccurred())
		})

		It("Charges the premium on recently lapsed names", func() {
			Expect(system.Oracle.SetPremium(test_helpers.ControllerOwner, big.NewInt(1000), 1000)).To(Succeed())

			commitAndWait("alice", test_helpers.OwnerA)
			expires, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())

			// Halfway through the decay window past grace.
			system.Clock.Set(expires + registrar.GracePeriod + 500)
			base, premium, err := system.Controller.RentPrice("alice", year)
			Expect(err).NotTo(HaveOccurred())
			Expect(base).To(Equal(test_helpers.Rate5))
			Expect(premium).To(Equal(big.NewInt(500)))

			commitAndWait("alice", test_helpers.OwnerB)
			_, err = system.Controller.Register(test_helpers.OwnerB, "alice", test_helpers.OwnerB, year, salt)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Renew", func() {
		BeforeEach(func() {
			commitAndWait("alice", test_helpers.OwnerA)
			_, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())
		})

		It("Extends the lease for any payer at base price", func() {
			before := system.Registrar.NameExpires(utils.LabelHash("alice"))
			treasuryBefore := system.Ledger.BalanceOf(test_helpers.Treasury)

			expires, err := system.Controller.Renew(test_helpers.OwnerB, "alice", year)
			Expect(err).NotTo(HaveOccurred())
			Expect(expires).To(Equal(before + year))

			paid := new(big.Int).Sub(system.Ledger.BalanceOf(test_helpers.Treasury), treasuryBefore)
			Expect(paid).To(Equal(test_helpers.Rate5))
		})

		It("Succeeds within the grace window", func() {
			expires := system.Registrar.NameExpires(utils.LabelHash("alice"))
			system.Clock.Set(expires + registrar.GracePeriod)

			renewed, err := system.Controller.Renew(test_helpers.OwnerA, "alice", year)
			Expect(err).NotTo(HaveOccurred())
			Expect(renewed).To(Equal(expires + year))
		})

		It("Fails once grace has fully elapsed, without charging", func() {
			expires := system.Registrar.NameExpires(utils.LabelHash("alice"))
			balanceBefore := system.Ledger.BalanceOf(test_helpers.OwnerA)
			system.Clock.Set(expires + registrar.GracePeriod + 1)

			_, err := system.Controller.Renew(test_helpers.OwnerA, "alice", year)
			Expect(err).To(MatchError(registrar.ErrNameExpired))
			Expect(system.Ledger.BalanceOf(test_helpers.OwnerA)).To(Equal(balanceBefore))
		})
	})

	Describe("Valid and Available", func() {
		It("Applies the minimum length to availability", func() {
			Expect(system.Controller.Valid("ab")).To(BeFalse())
			Expect(system.Controller.Valid("abc")).To(BeTrue())
			Expect(system.Controller.Valid("日本語")).To(BeTrue())

			Expect(system.Controller.Available("ab")).To(BeFalse())
			Expect(system.Controller.Available("abc")).To(BeTrue())
		})
	})

	Describe("IsCommitmentReady", func() {
		It("Tracks the reveal window", func() {
			commitment := controller.MakeCommitment("alice", test_helpers.OwnerA, salt)
			Expect(system.Controller.IsCommitmentReady(commitment)).To(BeFalse())

			Expect(system.Controller.Commit(commitment)).To(Succeed())
			Expect(system.Controller.IsCommitmentReady(commitment)).To(BeFalse())

			system.Clock.Advance(controller.MinCommitmentAge)
			Expect(system.Controller.IsCommitmentReady(commitment)).To(BeTrue())

			system.Clock.Advance(controller.MaxCommitmentAge - controller.MinCommitmentAge)
			Expect(system.Controller.IsCommitmentReady(commitment)).To(BeFalse())
		})
	})

	Describe("Administration", func() {
		It("SetTreasury and Withdraw are owner-only", func() {
			Expect(system.Controller.SetTreasury(test_helpers.Rando, test_helpers.Rando)).To(MatchError(controller.ErrNotOwner))
			Expect(system.Controller.Withdraw(test_helpers.Rando)).To(MatchError(controller.ErrNotOwner))
			Expect(system.Controller.SetTreasury(test_helpers.ControllerOwner, test_helpers.Treasury)).To(Succeed())
		})

		It("Withdraw sweeps a stranded balance to the treasury", func() {
			Expect(system.Ledger.Mint(test_helpers.ControllerAccount, big.NewInt(77))).To(Succeed())
			Expect(system.Controller.Withdraw(test_helpers.ControllerOwner)).To(Succeed())
			Expect(system.Ledger.BalanceOf(test_helpers.Treasury)).To(Equal(big.NewInt(77)))
			Expect(system.Settlement.Balance().Sign()).To(Equal(0))
		})
	})

	Describe("Events", func() {
		It("Publishes commitment, registration and renewal", func() {
			events := make(chan controller.Event, 16)
			sub := system.Controller.Subscribe(events)
			defer sub.Unsubscribe()

			commitment := commitAndWait("alice", test_helpers.OwnerA)
			expires, err := system.Controller.Register(test_helpers.OwnerA, "alice", test_helpers.OwnerA, year, salt)
			Expect(err).NotTo(HaveOccurred())
			_, err = system.Controller.Renew(test_helpers.OwnerA, "alice", year)
			Expect(err).NotTo(HaveOccurred())

			Expect(events).To(HaveLen(3))
			first := <-events
			Expect(first.Type).To(Equal(controller.CommitmentMadeEvent))
			Expect(first.Commitment).To(Equal(commitment))

			second := <-events
			Expect(second.Type).To(Equal(controller.NameRegisteredEvent))
			Expect(second.Name).To(Equal("alice"))
			Expect(second.Owner).To(Equal(test_helpers.OwnerA))
			Expect(second.Expires).To(Equal(expires))

			third := <-events
			Expect(third.Type).To(Equal(controller.NameRenewedEvent))
			Expect(third.Name).To(Equal("alice"))
		})
	})
})
