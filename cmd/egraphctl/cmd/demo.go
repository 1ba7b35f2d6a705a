// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slotted-egraph/egraph/demo/arith"
	"github.com/slotted-egraph/egraph/egraph"
	"github.com/slotted-egraph/egraph/internal/dbg"
	"github.com/slotted-egraph/egraph/metadata"
	"github.com/slotted-egraph/egraph/metadata/sizeanalysis"
	"github.com/slotted-egraph/egraph/slot"
)

func newDemoCmd() *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Inserts (x+y) and (y+x), unions them, and prints the resulting class.",
		RunE:  runDemo,
	}
	demoCmd.Flags().Bool("trace", false, "Print the union worklist's trace as it runs.")
	return demoCmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	dbg.Enable(viper.GetBool("trace"))

	tracker := sizeanalysis.New[arith.Op]()
	eng := metadata.New[arith.Op](egraph.New[arith.Op](), nil, tracker)

	x, y := slot.Fresh(), slot.Fresh()
	xPlusY, err := eng.AddTree(arith.Plus(arith.Ref(x), arith.Ref(y)))
	if err != nil {
		return err
	}
	yPlusX, err := eng.AddTree(arith.Plus(arith.Ref(y), arith.Ref(x)))
	if err != nil {
		return err
	}

	fmt.Printf("x+y -> %s\n", xPlusY)
	fmt.Printf("y+x -> %s\n", yPlusX)
	fmt.Printf("same class already? %v\n", eng.Engine.AreSame(xPlusY, yPlusX))

	equivalences, err := eng.Union(xPlusY, yPlusX)
	if err != nil {
		return err
	}
	for _, eq := range equivalences {
		fmt.Printf("merged into %s: %v\n", eq.Root, eq.Calls)
	}

	canon, err := eng.Engine.Canonicalize(xPlusY.Ref)
	if err != nil {
		return err
	}
	fmt.Printf("x+y canonicalizes to %s, %d node(s) tracked\n", canon, tracker.Count(canon.Ref))
	return nil
}
