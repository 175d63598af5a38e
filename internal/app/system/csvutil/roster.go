// internal/app/system/csvutil/roster.go
package csvutil

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dalemusser/teamstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/normalize"
)

// ErrTooManyRows is returned when an import exceeds ParseOptions.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// RosterRow is one normalized player from an import.
type RosterRow struct {
	Line     int
	Name     string
	Number   int
	Position string
}

// RowError describes one rejected line.
type RowError struct {
	Line   int
	Reason string
	Raw    []string
}

// ParseResult holds accepted rows and per-line errors.
type ParseResult struct {
	Rows   []RosterRow
	Errors []RowError
}

// HasErrors reports whether any line was rejected.
func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// Summary describes up to maxShow errors in one message.
func (r *ParseResult) Summary(maxShow int) string {
	if !r.HasErrors() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s) are invalid", len(r.Errors))
	n := len(r.Errors)
	if n > maxShow {
		n = maxShow
	}
	for _, e := range r.Errors[:n] {
		fmt.Fprintf(&b, "; line %d: %s", e.Line, e.Reason)
	}
	if rest := len(r.Errors) - n; rest > 0 {
		fmt.Fprintf(&b, "; and %d more", rest)
	}
	return b.String()
}

// ParseOptions tunes ParseRosterCSV. MaxRows 0 means unlimited.
type ParseOptions struct {
	MaxRows int
}

// DefaultParseOptions returns options with no row limit.
func DefaultParseOptions() ParseOptions { return ParseOptions{} }

// ParseRosterCSV reads "Name,Number,Position" rows. A header row is
// detected and skipped, a UTF-8 BOM is ignored, blank lines are skipped.
// Every row is validated; numbers repeated within the file are rejected.
// Nothing is written anywhere.
func ParseRosterCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &ParseResult{}
	seen := map[int]int{}
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if blank(rec) {
			continue
		}
		if opts.MaxRows > 0 && len(res.Rows)+len(res.Errors) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}

		row, reason := parseRow(rec)
		row.Line = line
		if reason == "" {
			if prev, dup := seen[row.Number]; dup {
				reason = fmt.Sprintf("duplicate number (also on line %d)", prev)
			}
		}
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Line: line, Reason: reason, Raw: rec})
			continue
		}
		seen[row.Number] = line
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func isHeader(rec []string) bool {
	first := strings.ToLower(cell(rec, 0))
	second := strings.ToLower(cell(rec, 1))
	return (first == "name" || first == "player" || first == "player name") &&
		(second == "number" || second == "#" || second == "no")
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(rec []string) (RosterRow, string) {
	row := RosterRow{
		Name:     normalize.Name(htmlsanitize.PlainText(cell(rec, 0))),
		Position: normalize.Position(cell(rec, 2)),
	}
	if row.Name == "" {
		return row, "missing name"
	}
	n, err := strconv.Atoi(cell(rec, 1))
	if err != nil {
		return row, "missing or non-numeric number"
	}
	if n < inputval.MinJersey || n > inputval.MaxJersey {
		return row, "invalid range"
	}
	row.Number = n
	if !inputval.IsValidPosition(row.Position) {
		return row, "invalid position (Forward, Defense, or Goalie)"
	}
	return row, ""
}
