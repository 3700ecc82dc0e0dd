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

package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Read surfaces consumed by external collaborators (resolvers, reverse
// registrars, payment forwarders, indexing caches). Collaborators never
// mutate registry or registrar state through these.

type RegistryReader interface {
	Owner(node common.Hash) common.Address
	Resolver(node common.Hash) common.Address
	TTL(node common.Hash) uint64
	RecordExists(node common.Hash) bool
	IsApprovedForAll(owner, operator common.Address) bool
}

type RegistrarReader interface {
	NameExpires(id common.Hash) uint64
	Available(id common.Hash) bool
	OwnerOf(id common.Hash) (common.Address, error)
}

type ControllerReader interface {
	RentPrice(name string, duration uint64) (base, premium *big.Int, err error)
	Valid(name string) bool
	Available(name string) bool
	IsCommitmentReady(commitment common.Hash) bool
	CommitmentAge(commitment common.Hash) (uint64, bool)
}
