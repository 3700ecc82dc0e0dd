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

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config carries everything needed to stand up a registry, registrar, oracle
// and controller as one wired system. Addresses are hex strings, amounts are
// decimal strings so arbitrarily large rates survive the trip through the
// config file.
type Config struct {
	Registry   RegistryConfig
	Registrar  RegistrarConfig
	Controller ControllerConfig
	Oracle     OracleConfig
}

type RegistryConfig struct {
	RootOwner string `mapstructure:"rootOwner"`
}

type RegistrarConfig struct {
	BaseName string `mapstructure:"baseName"`
	Address  string `mapstructure:"address"`
	Owner    string `mapstructure:"owner"`
}

type ControllerConfig struct {
	Address  string `mapstructure:"address"`
	Owner    string `mapstructure:"owner"`
	Treasury string `mapstructure:"treasury"`
}

type OracleConfig struct {
	Owner        string `mapstructure:"owner"`
	Rate3        string `mapstructure:"rate3"`
	Rate4        string `mapstructure:"rate4"`
	Rate5        string `mapstructure:"rate5"`
	PremiumStart string `mapstructure:"premiumStart"`
	PremiumDecay uint64 `mapstructure:"premiumDecay"`
}

// Load reads a TOML/YAML config file. Only the base name and tier rates have
// defaults; account addresses must be explicit.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("registrar.baseName", "eth")
	v.SetDefault("oracle.rate3", "640")
	v.SetDefault("oracle.rate4", "160")
	v.SetDefault("oracle.rate5", "5")
	v.SetDefault("oracle.premiumStart", "0")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	for field, addr := range map[string]string{
		"registry.rootOwner":  cfg.Registry.RootOwner,
		"registrar.address":   cfg.Registrar.Address,
		"registrar.owner":     cfg.Registrar.Owner,
		"controller.address":  cfg.Controller.Address,
		"controller.owner":    cfg.Controller.Owner,
		"controller.treasury": cfg.Controller.Treasury,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s: %q is not a hex address", field, addr)
		}
	}
	if cfg.Registrar.BaseName == "" {
		return fmt.Errorf("registrar.baseName must not be empty")
	}
	return nil
}
