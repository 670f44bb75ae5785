// Command extract regenerates the survey-data JSON from the Google Forms
// xlsx export. Usage: extract [input.xlsx] [output.json]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"surveydash/internal/extract"
)

func main() {
	source := "Formulario sin título (Respuestas).xlsx"
	target := "web/data/survey-data.json"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	if len(os.Args) > 2 {
		target = os.Args[2]
	}

	data, err := extract.FromFile(source, extract.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
	if err := data.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "extract: output violates invariants: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Create(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()
	if err := extract.WriteJSON(f, data); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	grades := make([]string, 0, len(data.Overall.GradesDistribution))
	for _, gc := range data.Overall.GradesDistribution {
		grades = append(grades, gc.Name)
	}

	fmt.Printf("Generated: %s\n", target)
	fmt.Printf("Valid responses: %d\n", data.Meta.ValidResponses)
	fmt.Printf("Grades: %s\n", strings.Join(grades, ", "))
}
