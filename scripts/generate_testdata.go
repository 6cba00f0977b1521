//go:build ignore

// generate_testdata.go creates large inputs for profiling the viewer.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.txt   (1k tokens)
//	testdata/benchmark/medium.txt  (10k tokens)
//	testdata/benchmark/large.txt   (100k tokens)
//	testdata/benchmark/huge.txt    (1M tokens)
//	testdata/benchmark/wide.json   (balanced JSON, 6 levels of 6)
//
// Open one with STRUCTLESS_DEBUG=1 structless -i testdata/benchmark/large.txt
// and read the timings in the debug log.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/structless/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
}

var datasets = []datasetSpec{
	{"small", 1_000},
	{"medium", 10_000},
	{"large", 100_000},
	{"huge", 1_000_000},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d tokens)...\n", ds.name, ds.size)

		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.size) // reproducible per size
		src := testutil.New(cfg).Random(ds.size)

		write(filepath.Join(outputDir, ds.name+".txt"), src)
	}

	write(filepath.Join(outputDir, "wide.json"), balancedJSON(6, 6))
	fmt.Println("\nDone! Inputs created in", outputDir)
}

// balancedJSON returns nested objects depth levels deep with breadth keys
// per object.
func balancedJSON(depth, breadth int) string {
	var b strings.Builder
	var emit func(level int)
	emit = func(level int) {
		if level == depth {
			fmt.Fprintf(&b, "%d", level)
			return
		}
		b.WriteByte('{')
		for i := 0; i < breadth; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%q:", fmt.Sprintf("k%d_%d", level, i))
			emit(level + 1)
		}
		b.WriteByte('}')
	}
	emit(0)
	return b.String()
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("  Written %s (%d bytes)\n", path, len(content))
}
