package scan

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/imaging"

	"pckstats/pkg/scoreboard"
)

// Disambiguator is the optional second-pass classifier consulted when OCR
// reads a cell as "6" or "9", the one digit pair it confuses often enough to
// matter. It returns the corrected token.
type Disambiguator func(cell image.Image) (string, error)

// Scanner runs the extraction stages for one team: segment the stats grid,
// OCR every cell, apply mismatch corrections, and align the names column.
type Scanner struct {
	Engine       Engine
	Disambiguate Disambiguator // nil disables the second pass
}

// StatTokens OCRs one stats-grid image and returns the corrected cell tokens
// in row-major order.
func (s *Scanner) StatTokens(path string) ([][]string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrExtraction, path, err)
	}
	cells, err := Cells(img)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(cells))
	for i, rowCells := range cells {
		rows[i] = make([]string, len(rowCells))
		for j, cell := range rowCells {
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, cell, imaging.PNG); err != nil {
				return nil, fmt.Errorf("%w: encode cell %d/%d: %v", ErrExtraction, i, j, err)
			}
			token, err := s.Engine.CellText(buf.Bytes())
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d/%d: %v", ErrExtraction, i, j, err)
			}
			token = CorrectMismatches(token)
			if token == "6" || token == "9" {
				token = s.secondPass(cell, token)
			}
			rows[i][j] = token
		}
	}
	return rows, nil
}

// secondPass consults the disambiguator. Failure is non-fatal: the OCR token
// stands and the pipeline continues.
func (s *Scanner) secondPass(cell image.Image, token string) string {
	if s.Disambiguate == nil {
		return token
	}
	resolved, err := s.Disambiguate(cell)
	if err != nil {
		log.Printf("digit disambiguation failed, keeping %q: %v", token, err)
		return token
	}
	return resolved
}

// Team extracts one team's board from its names image and stats image. Names
// align to stat rows by line index; there is no fuzzy line splitting.
func (s *Scanner) Team(namesPath, statsPath string) (scoreboard.Board, error) {
	namesText, err := s.Engine.NamesText(namesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: names %s: %v", ErrExtraction, namesPath, err)
	}
	tokens, err := s.StatTokens(statsPath)
	if err != nil {
		return nil, err
	}

	board := scoreboard.Board{}
	row := 0
	for _, line := range strings.Split(namesText, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if row >= len(tokens) {
			break
		}
		board[name] = scoreboard.StatLine{
			Kills:   CleanStat(tokens[row][0]),
			Deaths:  CleanStat(tokens[row][1]),
			Assists: CleanStat(tokens[row][2]),
		}
		row++
	}
	if len(board) == 0 {
		return nil, fmt.Errorf("%w: no player names detected in %s", ErrExtraction, namesPath)
	}
	return board, nil
}
