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

package config

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vulcanize/ens_registry/controller"
	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/oracle"
	"github.com/vulcanize/ens_registry/payment"
	"github.com/vulcanize/ens_registry/registrar"
	"github.com/vulcanize/ens_registry/registry"
	"github.com/vulcanize/ens_registry/utils"
)

// System is a fully connected name-registry stack: the registry tree, the
// base-name registrar holding its allocation node, the price oracle, the
// settlement ledger and the registration controller on the registrar's
// allowlist.
type System struct {
	Clock      core.Clock
	Registry   *registry.Registry
	Registrar  *registrar.Registrar
	Oracle     *oracle.StableOracle
	Ledger     *payment.Ledger
	Controller *controller.Controller
}

// Wire builds the system from cfg: the root owner hands the base name's node
// to the registrar, and the controller is allowlisted, so the stack is ready
// to sell names immediately.
func Wire(cfg Config, clock core.Clock) (*System, error) {
	rootOwner := common.HexToAddress(cfg.Registry.RootOwner)
	registrarAddr := common.HexToAddress(cfg.Registrar.Address)
	registrarOwner := common.HexToAddress(cfg.Registrar.Owner)
	controllerAddr := common.HexToAddress(cfg.Controller.Address)
	controllerOwner := common.HexToAddress(cfg.Controller.Owner)
	treasury := common.HexToAddress(cfg.Controller.Treasury)
	oracleOwner := controllerOwner
	if cfg.Oracle.Owner != "" {
		if !common.IsHexAddress(cfg.Oracle.Owner) {
			return nil, fmt.Errorf("oracle.owner: %q is not a hex address", cfg.Oracle.Owner)
		}
		oracleOwner = common.HexToAddress(cfg.Oracle.Owner)
	}

	rate3, err := parseAmount("oracle.rate3", cfg.Oracle.Rate3)
	if err != nil {
		return nil, err
	}
	rate4, err := parseAmount("oracle.rate4", cfg.Oracle.Rate4)
	if err != nil {
		return nil, err
	}
	rate5, err := parseAmount("oracle.rate5", cfg.Oracle.Rate5)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry(rootOwner)
	baseNode, err := reg.SetSubnodeOwner(rootOwner, utils.RootNode, utils.LabelHash(cfg.Registrar.BaseName), registrarAddr)
	if err != nil {
		return nil, fmt.Errorf("claiming base node: %w", err)
	}

	rar := registrar.NewRegistrar(reg, registrarAddr, registrarOwner, baseNode, clock)

	orc := oracle.NewStableOracle(oracleOwner, clock, rate3, rate4, rate5)
	if cfg.Oracle.PremiumStart != "" && cfg.Oracle.PremiumStart != "0" {
		start, err := parseAmount("oracle.premiumStart", cfg.Oracle.PremiumStart)
		if err != nil {
			return nil, err
		}
		if err := orc.SetPremium(oracleOwner, start, cfg.Oracle.PremiumDecay); err != nil {
			return nil, err
		}
	}

	ledger := payment.NewLedger()
	settle := payment.NewLedgerSettlement(ledger, controllerAddr)
	ctrl := controller.NewController(rar, orc, settle, controllerAddr, controllerOwner, treasury, clock)

	if err := rar.AddController(registrarOwner, controllerAddr); err != nil {
		return nil, fmt.Errorf("allowlisting controller: %w", err)
	}

	return &System{
		Clock:      clock,
		Registry:   reg,
		Registrar:  rar,
		Oracle:     orc,
		Ledger:     ledger,
		Controller: ctrl,
	}, nil
}

func parseAmount(field, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q is not a non-negative decimal amount", field, value)
	}
	return amount, nil
}
