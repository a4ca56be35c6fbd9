// scanimg runs the extraction stages against local screenshot files and
// prints the resulting board. Useful for checking OCR quality and the
// mismatch-correction table on a new batch of screenshots without touching
// the server or the database.
package main

import (
	"flag"
	"fmt"
	"log"

	"pckstats/pkg/digits"
	"pckstats/pkg/scan"
)

func main() {
	namesPath := flag.String("names", "", "names column image")
	statsPath := flag.String("stats", "", "stats grid image")
	modelPath := flag.String("model", "", "optional digit model weights (json)")
	flag.Parse()
	if *statsPath == "" {
		log.Fatal("-stats is required")
	}

	scanner := &scan.Scanner{Engine: scan.Tesseract{}}
	if *modelPath != "" {
		classifier, err := digits.Load(*modelPath)
		if err != nil {
			log.Fatalf("load model: %v", err)
		}
		scanner.Disambiguate = classifier.Predict
	}

	if *namesPath == "" {
		tokens, err := scanner.StatTokens(*statsPath)
		if err != nil {
			log.Fatalf("scan: %v", err)
		}
		for i, row := range tokens {
			fmt.Printf("row %d: %v\n", i+1, row)
		}
		return
	}

	board, err := scanner.Team(*namesPath, *statsPath)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
	fmt.Print(board.Format())
}
