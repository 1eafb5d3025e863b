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

// Command btrun loads an XML behavior tree definition and either ticks it
// once, ticks it while running, or dumps its shape. It is styled after the
// teacher's examples/tcell-pick-and-place/main.go flag/log scaffolding.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ridgewood-robotics/bht"
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:]))
}

type stringFlag string

func (f stringFlag) String() string { return string(f) }
func (f *stringFlag) Set(s string) error {
	*f = stringFlag(s)
	return nil
}

func run(cmd string, args []string) (exitCode int) {
	var (
		flags    = flag.NewFlagSet(cmd, flag.ContinueOnError)
		file     stringFlag
		treeID   stringFlag
		once     bool
		loop     bool
		dump     bool
		interval time.Duration
	)
	flags.Var(&file, `file`, `path to an XML behavior tree document (required)`)
	flags.Var(&treeID, `tree`, `override main_tree_to_execute`)
	flags.BoolVar(&once, `once`, false, `tick exactly once and exit`)
	flags.BoolVar(&loop, `loop`, false, `tick while running (without it, the tree is ticked once)`)
	flags.BoolVar(&dump, `dump`, false, `print the instantiated tree shape instead of ticking`)
	flags.DurationVar(&interval, `interval`, 100*time.Millisecond, `delay between ticks in -loop mode`)
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 0 {
		log.Printf("expected no positional args\n")
		flags.Usage()
		return 1
	}
	if file == "" {
		log.Printf("-file is required\n")
		flags.Usage()
		return 1
	}

	data, err := os.ReadFile(string(file))
	if err != nil {
		log.Printf("reading %s: %v\n", file, err)
		return 1
	}

	factory := bht.NewFactory()
	if err := factory.RegisterTreeFromText(string(data)); err != nil {
		log.Printf("parsing %s: %v\n", file, err)
		return 1
	}

	tree, err := factory.InstantiateTree(bht.NewBlackboard(), string(treeID))
	if err != nil {
		log.Printf("instantiating tree: %v\n", err)
		return 1
	}

	if dump {
		fmt.Println(tree.Render())
		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	if once || !loop {
		status, err := tree.TickOnce(ctx)
		if err != nil {
			log.Printf("tick: %v\n", err)
			return 1
		}
		log.Printf("result: %s\n", status)
		return 0
	}

	for {
		status, err := tree.TickOnce(ctx)
		if err != nil {
			log.Printf("tick: %v\n", err)
			return 1
		}
		if status != bht.Running {
			tree.HaltTree(ctx)
			log.Printf("result: %s\n", status)
			return 0
		}
		select {
		case <-ctx.Done():
			tree.HaltTree(ctx)
			return 0
		case <-time.After(interval):
		}
	}
}
