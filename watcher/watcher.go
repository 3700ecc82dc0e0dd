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

package watcher

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/vulcanize/ens_registry/controller"
	"github.com/vulcanize/ens_registry/registrar"
	"github.com/vulcanize/ens_registry/registry"
	"github.com/vulcanize/ens_registry/utils"
)

// DomainRecord is the read-optimized view of one name, assembled from
// registry, registrar and controller notifications.
type DomainRecord struct {
	Name         string
	Node         common.Hash
	LabelHash    common.Hash
	ParentNode   common.Hash
	Owner        common.Address
	ResolverAddr common.Address
	TTL          uint64
	Expires      uint64
}

// Watcher mirrors registry and registrar state into an in-memory record set
// keyed by node hash. It consumes the event feeds the same way an external
// indexer would, so it doubles as a reference consumer for the notification
// surface.
type Watcher struct {
	mu      sync.RWMutex
	records map[common.Hash]*DomainRecord

	baseNode common.Hash

	registrySub   event.Subscription
	registrarSub  event.Subscription
	controllerSub event.Subscription
	registryCh    chan registry.Event
	registrarCh   chan registrar.Event
	controllerCh  chan controller.Event
	quit          chan struct{}
	done          chan struct{}
	logger        log.Logger
}

func NewWatcher(reg *registry.Registry, rar *registrar.Registrar, ctrl *controller.Controller) *Watcher {
	w := &Watcher{
		records:      make(map[common.Hash]*DomainRecord),
		baseNode:     rar.BaseNode(),
		registryCh:   make(chan registry.Event, 64),
		registrarCh:  make(chan registrar.Event, 64),
		controllerCh: make(chan controller.Event, 64),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		logger:       log.New("component", "watcher"),
	}
	w.registrySub = reg.Subscribe(w.registryCh)
	w.registrarSub = rar.Subscribe(w.registrarCh)
	w.controllerSub = ctrl.Subscribe(w.controllerCh)
	return w
}

// Run consumes events until Stop is called. Callers run it on its own
// goroutine.
func (w *Watcher) Run() {
	defer close(w.done)
	for {
		select {
		case ev := <-w.registryCh:
			w.applyRegistry(ev)
		case ev := <-w.registrarCh:
			w.applyRegistrar(ev)
		case ev := <-w.controllerCh:
			w.applyController(ev)
		case <-w.registrySub.Err():
			return
		case <-w.quit:
			return
		}
	}
}

func (w *Watcher) Stop() {
	w.registrySub.Unsubscribe()
	w.registrarSub.Unsubscribe()
	w.controllerSub.Unsubscribe()
	close(w.quit)
	<-w.done
}

// Record returns the current view of node, or false if the watcher has never
// seen it.
func (w *Watcher) Record(node common.Hash) (DomainRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.records[node]
	if !ok {
		return DomainRecord{}, false
	}
	return *r, true
}

func (w *Watcher) record(node common.Hash) *DomainRecord {
	r, ok := w.records[node]
	if !ok {
		r = &DomainRecord{Node: node}
		w.records[node] = r
	}
	return r
}

func (w *Watcher) applyRegistry(ev registry.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch ev.Type {
	case registry.TransferEvent:
		w.record(ev.Node).Owner = ev.Owner
	case registry.NewOwnerEvent:
		node := utils.CreateSubnode(ev.Node, ev.Label)
		r := w.record(node)
		r.ParentNode = ev.Node
		r.LabelHash = ev.Label
		r.Owner = ev.Owner
	case registry.NewResolverEvent:
		w.record(ev.Node).ResolverAddr = ev.Resolver
	case registry.NewTTLEvent:
		w.record(ev.Node).TTL = ev.TTL
	}
}

func (w *Watcher) applyRegistrar(ev registrar.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	node := utils.CreateSubnode(w.baseNode, ev.ID)
	switch ev.Type {
	case registrar.NameRegisteredEvent, registrar.NameRenewedEvent:
		w.record(node).Expires = ev.Expires
	case registrar.NameReleasedEvent:
		delete(w.records, node)
	}
}

// Controller events are the only ones carrying plaintext names; they let the
// watcher resolve label hashes back to readable names.
func (w *Watcher) applyController(ev controller.Event) {
	if ev.Type != controller.NameRegisteredEvent && ev.Type != controller.NameRenewedEvent {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	node := utils.CreateSubnode(w.baseNode, ev.Label)
	w.record(node).Name = ev.Name
}

// ByName looks up the record of a label under the registrar's base node.
func (w *Watcher) ByName(name string) (DomainRecord, bool) {
	return w.Record(utils.CreateSubnode(w.baseNode, utils.LabelHash(name)))
}
