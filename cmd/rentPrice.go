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

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/vulcanize/ens_registry/config"
	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/oracle"
)

var rentYears uint64

// rentPriceCmd represents the rentPrice command
var rentPriceCmd = &cobra.Command{
	Use:   "rentPrice <name>",
	Short: "Quote the registration price of a name",
	Long: `Quotes base and premium price for registering a name, using the tier
rates from the config file:
./ens_registry rentPrice alice --years 2 --config registry.toml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rentPrice(args[0])
	},
}

func rentPrice(name string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	system, err := config.Wire(cfg, core.SystemClock{})
	if err != nil {
		log.Fatal(err)
	}

	base, premium, err := system.Controller.RentPrice(name, rentYears*oracle.Year)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("base: %s\npremium: %s\n", base, premium)
}

func init() {
	rentPriceCmd.Flags().Uint64Var(&rentYears, "years", 1, "registration duration in years")
	rootCmd.AddCommand(rentPriceCmd)
}
