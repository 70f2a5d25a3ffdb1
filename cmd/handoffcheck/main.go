// Command handoffcheck gates CI on unacknowledged cross-repository handoff
// documents. Exit codes: 0 clean, 1 unacknowledged incoming items found,
// 2 usage or scan errors.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shelfsense/pidash/internal/handoff"
)

func main() {
	quiet := flag.Bool("quiet", false, "suppress per-item output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: handoffcheck [-quiet] <glob> [glob...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	globs := flag.Args()
	if len(globs) == 0 {
		globs = []string{"docs/handoffs/*.md"}
	}

	items, errs := handoff.Scan(globs...)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "handoffcheck: %v\n", err)
	}
	if len(errs) > 0 {
		os.Exit(2)
	}

	blocking := handoff.Unacknowledged(items)
	if len(blocking) == 0 {
		if !*quiet {
			fmt.Printf("handoffcheck: %d document(s) scanned, none pending\n", len(items))
		}
		return
	}

	for _, it := range blocking {
		fmt.Printf("%s\t%s\t%s\n", it.ID, it.Title, it.Path)
	}
	fmt.Fprintf(os.Stderr, "handoffcheck: %d unacknowledged incoming handoff(s)\n", len(blocking))
	os.Exit(1)
}
