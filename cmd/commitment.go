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

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/vulcanize/ens_registry/controller"
)

// commitmentCmd represents the commitment command
var commitmentCmd = &cobra.Command{
	Use:   "commitment <name> <owner> <salt>",
	Short: "Compute the commit-reveal hash for a registration",
	Long: `Computes the commitment hash for registering <name> to <owner> with a
32-byte hex <salt>. The hash is what gets submitted to commit; keep the salt
private until reveal:
./ens_registry commitment alice 0xCbd0... 0x7a1f...`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		name, owner, salt := args[0], args[1], args[2]
		if !common.IsHexAddress(owner) {
			log.Fatalf("%q is not a hex address", owner)
		}
		fmt.Println(controller.MakeCommitment(name, common.HexToAddress(owner), common.HexToHash(salt)).Hex())
	},
}

func init() {
	rootCmd.AddCommand(commitmentCmd)
}
