/*
   Copyright 2026 Ridgewood Robotics

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command btmon is a full-screen terminal viewer that re-ticks a tree on a
// timer and redraws node statuses, color-coded. It is modeled directly on
// the teacher's examples/tcell-pick-and-place/sim package screen-drawing
// loop (tcell.Screen, SetContent, polled key events), repurposed here to
// redraw node statuses instead of a 2D simulated world. Purely a local
// debugging aid over the already-ticked, in-process tree — it reads no
// remote state and implements no wire protocol, so it does not fall under
// the "remote introspection/visualization protocols" non-goal of §1.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ridgewood-robotics/bht"
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:]))
}

func run(cmd string, args []string) int {
	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var file, treeID string
	var interval time.Duration
	flags.StringVar(&file, `file`, ``, `path to an XML behavior tree document (required)`)
	flags.StringVar(&treeID, `tree`, ``, `override main_tree_to_execute`)
	flags.DurationVar(&interval, `interval`, 200*time.Millisecond, `tick interval`)
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if file == "" {
		log.Printf("-file is required\n")
		flags.Usage()
		return 1
	}

	data, err := os.ReadFile(file)
	if err != nil {
		log.Printf("reading %s: %v\n", file, err)
		return 1
	}

	factory := bht.NewFactory()
	if err := factory.RegisterTreeFromText(string(data)); err != nil {
		log.Printf("parsing %s: %v\n", file, err)
		return 1
	}
	tree, err := factory.InstantiateTree(bht.NewBlackboard(), treeID)
	if err != nil {
		log.Printf("instantiating tree: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Printf("tcell.NewScreen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		log.Printf("screen.Init: %v\n", err)
		return 1
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keyChan := make(chan *tcell.EventKey)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				select {
				case keyChan <- ev:
				case <-ctx.Done():
					return
				}
			case nil:
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := tree.TickOnce(ctx)
		if err != nil {
			tree.HaltTree(ctx)
			screen.Fini()
			log.Printf("tick: %v\n", err)
			return 1
		}
		draw(screen, tree, status)

		select {
		case <-ctx.Done():
			tree.HaltTree(ctx)
			return 0
		case ev := <-keyChan:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				tree.HaltTree(ctx)
				return 0
			}
		case <-ticker.C:
			if status != bht.Running {
				tree.HaltTree(ctx)
			}
		}
	}
}

func statusStyle(s bht.NodeStatus) tcell.Style {
	base := tcell.StyleDefault
	switch s {
	case bht.Running:
		return base.Foreground(tcell.ColorYellow)
	case bht.Success:
		return base.Foreground(tcell.ColorGreen)
	case bht.Failure:
		return base.Foreground(tcell.ColorRed)
	case bht.Skipped:
		return base.Foreground(tcell.ColorGray)
	default:
		return base.Foreground(tcell.ColorWhite)
	}
}

func draw(screen tcell.Screen, tree *bht.Tree, rootStatus bht.NodeStatus) {
	screen.Clear()
	row := 0
	var walk func(n *bht.TreeNode, depth int)
	walk = func(n *bht.TreeNode, depth int) {
		label := fmt.Sprintf("%s%s [%s]", indent(depth), n.Name, n.Status)
		putString(screen, 0, row, statusStyle(n.Status), label)
		row++
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(tree.Root(), 0)
	putString(screen, 0, row+1, tcell.StyleDefault, fmt.Sprintf("overall: %s  (ctrl-c/esc to quit)", rootStatus))
	screen.Show()
}

func indent(depth int) string {
	b := make([]byte, depth*2)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func putString(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
