// kotoba-ingest reads every text/markdown file in a directory, feeds it
// through an incremental embedder, drives the retrain loop to completion,
// and writes the resulting model to a JSON file.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sorataki/kotoba/pkg/kotoba"
)

// envInt returns the named env var parsed as an int, or fallback. A .env
// file in the working directory can set KOTOBA_K etc. for local runs.
func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	docsDir := flag.String("docs", "docs", "directory of .txt/.md files to ingest")
	dictPath := flag.String("dict", "", "path to a dictionary JSON file (optional)")
	outPath := flag.String("out", "model.json", "path to write the exported model")
	k := flag.Int("k", envInt("KOTOBA_K", 64), "embedding dimension K")
	threshold := flag.Float64("threshold", envFloat("KOTOBA_THRESHOLD", 2.0), "auto-retrain change-ratio threshold")
	vmax := flag.Int("vmax", envInt("KOTOBA_VMAX", 0), "vocabulary capacity (0 uses the default)")
	flag.Parse()

	fmt.Println("kotoba ingestion tool")
	fmt.Println("======================")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\ninterrupted; no partial model was written")
		os.Exit(1)
	}()

	embedder := kotoba.New(float32(*threshold), *vmax)

	if *dictPath != "" {
		data, err := os.ReadFile(*dictPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading dictionary: %v\n", err)
			os.Exit(1)
		}
		if err := embedder.SetDictionary(data); err != nil {
			fmt.Fprintf(os.Stderr, "error parsing dictionary: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Step 1: loading documents from %s...\n", *docsDir)
	texts, err := loadTexts(*docsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading documents: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  loaded %d documents\n\n", len(texts))

	fmt.Println("Step 2: ingesting documents...")
	for _, text := range texts {
		if err := embedder.AddDocument(text, *k); err != nil {
			fmt.Fprintf(os.Stderr, "error adding document: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("  unique=%d searchable=%d\n\n", embedder.UniqueDocumentCount(), embedder.SearchableCount())

	if !embedder.IsRetraining() {
		if ok, err := embedder.StartBackgroundRetrain(*k); !ok {
			fmt.Fprintf(os.Stderr, "error: could not start retrain: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Step 3: training...")
	for {
		done := embedder.StepRetrain()
		fmt.Printf("\r  progress: %.0f%%", embedder.GetRetrainProgress()*100)
		if done {
			fmt.Println()
			break
		}
	}
	if err := embedder.LastRetrainError(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	fmt.Printf("Step 4: exporting model to %s...\n", *outPath)
	data, err := embedder.ExportModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error exporting model: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  wrote %d bytes\n\n", len(data))
	fmt.Println("Done.")
}

// loadTexts reads every .txt/.md file under dir, including
// subdirectories, in lexical walk order, trimming surrounding whitespace.
func loadTexts(dir string) ([]string, error) {
	var texts []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(string(data))
		if text != "" {
			texts = append(texts, text)
		}
		return nil
	})
	return texts, err
}
