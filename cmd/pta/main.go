// Command pta runs a pointer analysis or a CHA call-graph construction on a
// program described in a yaml world file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gungnir479/pta"
	"github.com/gungnir479/pta/callgraph"
	"github.com/gungnir479/pta/ir"
	log "github.com/sirupsen/logrus"
)

var (
	mode    = flag.String("mode", "pta", "analysis to run: pta or cha")
	context = flag.String("context", "insens", "context policy for pta: insens, callsite or object")
	k       = flag.Int("k", 2, "context depth limit for callsite/object sensitivity")
	verbose = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() != 1 {
		log.Fatal("Specify a world file on the command line")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Opening world file: %v", err)
	}
	defer f.Close()

	world, err := ir.LoadYAML(f)
	if err != nil {
		log.Fatalf("Loading world: %v", err)
	}

	log.Infof("Loaded %d classes, entry %v", len(world.Classes()), world.Entry())

	switch *mode {
	case "cha":
		runCHA(world)
	case "pta":
		runPTA(world)
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
}

func runCHA(world *ir.World) {
	cg := callgraph.BuildCHA(world)

	fmt.Printf("%d reachable methods:\n", len(cg.ReachableMethods()))
	for _, m := range cg.ReachableMethods() {
		fmt.Printf("  %v\n", m)
	}

	fmt.Printf("%d call edges:\n", len(cg.Edges()))
	for _, e := range cg.Edges() {
		fmt.Printf("  [%s] %s -> %v\n", e.Kind, e.Site.Site(), e.Callee)
	}
}

func runPTA(world *ir.World) {
	var sel pta.ContextSelector
	switch *context {
	case "insens":
		sel = pta.Insensitive()
	case "callsite":
		sel = pta.KCallSite(*k)
	case "object":
		sel = pta.KObject(*k)
	default:
		log.Fatalf("Unknown context policy %q", *context)
	}

	res := pta.Analyze(pta.Config{World: world, Selector: sel})

	fmt.Printf("%d reachable methods:\n", len(res.ReachableMethods()))
	for _, m := range res.ReachableMethods() {
		fmt.Printf("  %v\n", m)
	}

	fmt.Printf("%d call edges:\n", len(res.CallEdges()))
	for _, e := range res.CallEdges() {
		fmt.Printf("  [%s] %s -> %v\n", e.Kind, e.Site.Site(), e.Callee)
	}

	fmt.Println("points-to sets:")
	for _, p := range res.Pointers() {
		if pts := p.PointsTo(); !pts.Empty() {
			fmt.Printf("  %v: %v\n", p, pts)
		}
	}
}
