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

	"github.com/spf13/cobra"

	"github.com/vulcanize/ens_registry/utils"
)

// namehashCmd represents the namehash command
var namehashCmd = &cobra.Command{
	Use:   "namehash <name>",
	Short: "Print the node hash of a dotted name",
	Long: `Computes the registry node hash of a full dotted name, e.g.
./ens_registry namehash foo.eth`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(utils.NameHash(args[0]).Hex())
	},
}

// labelhashCmd represents the labelhash command
var labelhashCmd = &cobra.Command{
	Use:   "labelhash <label>",
	Short: "Print the label hash of a single name segment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(utils.LabelHash(args[0]).Hex())
	},
}

func init() {
	rootCmd.AddCommand(namehashCmd)
	rootCmd.AddCommand(labelhashCmd)
}
