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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type EventType int

const (
	CommitmentMadeEvent EventType = iota
	NameRegisteredEvent
	NameRenewedEvent
)

func (e EventType) String() string {
	names := [...]string{
		"CommitmentMade",
		"NameRegistered",
		"NameRenewed",
	}
	if e < CommitmentMadeEvent || e > NameRenewedEvent {
		return "Unknown"
	}
	return names[e]
}

// Event is the controller's notification record for external read models.
type Event struct {
	Type       EventType
	Commitment common.Hash
	At         uint64
	Name       string
	Label      common.Hash
	Owner      common.Address
	Base       *big.Int
	Premium    *big.Int
	Expires    uint64
}
