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

package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
)

// RootNode is the hash of the registry tree root; every other node hash is
// derived from it by recursive application of CreateSubnode.
var RootNode = common.Hash{}

func NameHash(name string) common.Hash {
	if name == "" {
		return RootNode
	}
	// The leading label hashes against the node of everything after it, so
	// the recursion bottoms out at the root and builds hashes root-first.
	labels := strings.SplitN(name, ".", 2)
	labelHash := LabelHash(labels[0])
	if len(labels) == 1 {
		return CreateSubnode(RootNode, labelHash)
	}
	return CreateSubnode(NameHash(labels[1]), labelHash)
}

func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

func CreateSubnode(node, labelHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(append(node.Bytes(), labelHash.Bytes()...))
}

// Hasher memoizes NameHash and LabelHash results. The hash of a name never
// changes, so a bounded cache is safe and spares the keccak work on hot names.
// Names and labels live in separate caches since the same string hashes
// differently in each domain.
type Hasher struct {
	cachedNames  *lru.Cache
	cachedLabels *lru.Cache
}

func NewHasher(size int) *Hasher {
	names, _ := lru.New(size)
	labels, _ := lru.New(size)
	return &Hasher{cachedNames: names, cachedLabels: labels}
}

func (h *Hasher) NameHash(name string) common.Hash {
	if hash, ok := h.cachedNames.Get(name); ok {
		return hash.(common.Hash)
	}
	hash := NameHash(name)
	h.cachedNames.Add(name, hash)
	return hash
}

func (h *Hasher) LabelHash(label string) common.Hash {
	if hash, ok := h.cachedLabels.Get(label); ok {
		return hash.(common.Hash)
	}
	hash := LabelHash(label)
	h.cachedLabels.Add(label, hash)
	return hash
}
