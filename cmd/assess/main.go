// Command assess scores a single reading against the risk catalog without a
// running service. It reads an assessment envelope (the same JSON shape the
// source topic and the HTTP API accept) and prints the ranked results.
//
// Usage:
//
//	go run ./cmd/assess -input reading.json
//	cat reading.json | go run ./cmd/assess -mode meta -limit 3
//	go run ./cmd/assess -input reading.json -catalog custom-catalog.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cropwatch/climate-risk-service/internal/catalog"
	"github.com/cropwatch/climate-risk-service/internal/domain"
	"github.com/cropwatch/climate-risk-service/internal/engine"
)

func main() {
	input := flag.String("input", "-", "path to an assessment envelope JSON file, or - for stdin")
	mode := flag.String("mode", "", "override the envelope's scoring mode (standard or meta)")
	category := flag.String("category", "", "override the envelope's category (disease or pest)")
	limit := flag.Int("limit", 10, "maximum number of ranked results")
	catalogPath := flag.String("catalog", "", "path to a YAML catalog; defaults to the built-in catalog")
	flag.Parse()

	if err := run(*input, *mode, *category, *limit, *catalogPath); err != nil {
		fmt.Fprintln(os.Stderr, "assess:", err)
		os.Exit(1)
	}
}

func run(input, mode, category string, limit int, catalogPath string) error {
	value, err := readInput(input)
	if err != nil {
		return err
	}

	parsed, err := domain.ParseAssessmentInput(value)
	if err != nil {
		return err
	}
	if mode != "" {
		parsed.Mode = domain.ParseScoringMode(mode)
	}
	if category != "" {
		parsed.Category = domain.Category(category)
	}

	c := catalog.Default()
	if catalogPath != "" {
		if c, err = catalog.LoadFile(catalogPath); err != nil {
			return err
		}
	}

	evaluator := engine.New(catalog.NewStore(c), engine.DefaultOptions())
	results := evaluator.Evaluate(parsed.Reading, parsed.Mode, parsed.Category)
	assessment := domain.NewAssessment(parsed, engine.Rank(results, limit))

	out, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
