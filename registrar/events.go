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

type EventType int

const (
	NameRegisteredEvent EventType = iota
	NameRenewedEvent
	NameReleasedEvent
	TokenTransferEvent
	ControllerAddedEvent
	ControllerRemovedEvent
)

func (e EventType) String() string {
	names := [...]string{
		"NameRegistered",
		"NameRenewed",
		"NameReleased",
		"TokenTransfer",
		"ControllerAdded",
		"ControllerRemoved",
	}
	if e < NameRegisteredEvent || e > ControllerRemovedEvent {
		return "Unknown"
	}
	return names[e]
}

// Event is the registrar's notification record. ID is the label hash the
// event concerns; Account carries the new owner, transfer target or
// controller depending on Type.
type Event struct {
	Type    EventType
	ID      common.Hash
	Account common.Address
	Expires uint64
}
