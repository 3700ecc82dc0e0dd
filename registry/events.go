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

import "github.com/ethereum/go-ethereum/common"

type EventType int

const (
	TransferEvent EventType = iota
	NewOwnerEvent
	NewResolverEvent
	NewTTLEvent
	ApprovalForAllEvent
)

func (e EventType) String() string {
	names := [...]string{
		"Transfer",
		"NewOwner",
		"NewResolver",
		"NewTTL",
		"ApprovalForAll",
	}
	if e < TransferEvent || e > ApprovalForAllEvent {
		return "Unknown"
	}
	return names[e]
}

// Event is the registry's notification record. Node is the mutated node,
// except for NewOwner where it is the parent and Label identifies the child.
type Event struct {
	Type     EventType
	Node     common.Hash
	Label    common.Hash
	Owner    common.Address
	Resolver common.Address
	TTL      uint64
	Operator common.Address
	Approved bool
}
