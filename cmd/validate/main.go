package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jwebster45206/food-guardian/pkg/story"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <story.json|story.yaml>...\n", os.Args[0])
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run validates every file and returns the process exit code.
func run(files []string, stdout, stderr io.Writer) int {
	failed := 0
	for _, filename := range files {
		if err := validateFile(filename, stdout); err != nil {
			failed++
			fmt.Fprintf(stderr, "Validation failed: %v\n", err)
		}
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d story files failed validation\n", failed, len(files))
		return 1
	}
	return 0
}

func validateFile(filename string, out io.Writer) error {
	fmt.Fprintf(out, "Validating %s...\n", filename)

	g, err := story.Load(filename)
	if err != nil {
		var verr *story.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%d problem(s) in %w", len(verr.Problems), err)
		}
		return err
	}

	// Unreachable nodes are legal but usually an authoring mistake.
	for _, id := range g.Unreachable() {
		fmt.Fprintf(out, "  warning: node %q is not reachable from %q\n", id, g.Start())
	}

	fmt.Fprintf(out, "%s is valid: %d nodes, start %q, %d images\n", filename, g.Len(), g.Start(), len(g.ImageURLs()))
	return nil
}
