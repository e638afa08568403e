// kotoba-query loads a previously exported model and answers a query
// against its searchable index.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sorataki/kotoba/pkg/kotoba"
)

func main() {
	_ = godotenv.Load()

	modelPath := flag.String("model", "model.json", "path to an exported model JSON file")
	top := flag.Int("top", 5, "number of results to return")
	verbose := flag.Bool("verbose", false, "enable verbose debug output")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: kotoba-query [options] <query>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	query := strings.Join(args, " ")

	data, err := os.ReadFile(*modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading model: %v\n", err)
		os.Exit(1)
	}

	embedder := kotoba.New(1000, 0)
	if err := embedder.ImportModel(data); err != nil {
		fmt.Fprintf(os.Stderr, "error importing model: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("[DEBUG] loaded model, searchable=%d unique=%d\n", embedder.SearchableCount(), embedder.UniqueDocumentCount())
		fmt.Printf("[DEBUG] query: %q, top=%d\n", query, *top)
	}

	results, err := embedder.FindSimilarWithScores(query, *top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error searching: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	fmt.Printf("Found %d results:\n\n", len(results))
	for _, r := range results {
		fmt.Printf("%.4f  %s\n", r.Score, r.Document)
	}
}
