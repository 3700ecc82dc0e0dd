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
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/vulcanize/ens_registry/config"
	"github.com/vulcanize/ens_registry/controller"
	"github.com/vulcanize/ens_registry/core"
	"github.com/vulcanize/ens_registry/oracle"
	"github.com/vulcanize/ens_registry/watcher"
)

var (
	registerOwner string
	registerYears uint64
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Run a commit-reveal registration and print the domain record",
	Long: `Runs the full commit-reveal flow for a name against an in-process stack
built from the config file, then prints the domain record assembled from the
emitted events:
	name:     alice
	node:     0x...
	owner:    0x...
	expires:  2027-08-30T12:00:00Z

The command waits out the minimum commitment age against the wall clock, so it
takes a little over a minute to complete:
./ens_registry register alice --owner 0xabc... --years 2 --config registry.toml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		register(args[0])
	},
}

func register(name string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	system, err := config.Wire(cfg, core.SystemClock{})
	if err != nil {
		log.Fatal(err)
	}
	if !common.IsHexAddress(registerOwner) {
		log.Fatalf("--owner: %q is not a hex address", registerOwner)
	}
	owner := common.HexToAddress(registerOwner)
	duration := registerYears * oracle.Year

	w := watcher.NewWatcher(system.Registry, system.Registrar, system.Controller)
	go w.Run()
	defer w.Stop()

	base, premium, err := system.Controller.RentPrice(name, duration)
	if err != nil {
		log.Fatal(err)
	}
	price := new(big.Int).Add(base, premium)
	if err := system.Ledger.Mint(owner, price); err != nil {
		log.Fatal(err)
	}
	if err := system.Ledger.Approve(owner, common.HexToAddress(cfg.Controller.Address), price); err != nil {
		log.Fatal(err)
	}

	var salt common.Hash
	if _, err := rand.Read(salt[:]); err != nil {
		log.Fatal(err)
	}
	commitment := controller.MakeCommitment(name, owner, salt)
	if err := system.Controller.Commit(commitment); err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if system.Controller.IsCommitmentReady(commitment) {
			break
		}
	}

	if _, err := system.Controller.Register(owner, name, owner, duration, salt); err != nil {
		log.Fatal(err)
	}

	// The watcher applies events on its own goroutine; give it a moment.
	var record watcher.DomainRecord
	for i := 0; i < 100; i++ {
		var ok bool
		if record, ok = w.ByName(name); ok && record.Name == name {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if record.Name != name {
		log.Fatalf("no record assembled for %q", name)
	}
	fmt.Printf("name:     %s\n", record.Name)
	fmt.Printf("node:     %s\n", record.Node.Hex())
	fmt.Printf("owner:    %s\n", record.Owner.Hex())
	fmt.Printf("expires:  %s\n", time.Unix(int64(record.Expires), 0).UTC().Format(time.RFC3339))
}

func init() {
	registerCmd.Flags().StringVar(&registerOwner, "owner", "", "address to register the name to")
	registerCmd.Flags().Uint64Var(&registerYears, "years", 1, "registration duration in years")
	rootCmd.AddCommand(registerCmd)
}
