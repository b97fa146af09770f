// Package export renders projects and material lists as JSON, CSV and
// XLSX documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatDetailed Format = "detailed"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatDetailed, FormatXLSX:
		return f, nil
	case "csv-detailed", "detallado":
		return FormatDetailed, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv, detailed or xlsx)", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension is the file extension of the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatDetailed:
		return "csv"
	default:
		return string(f)
	}
}

// Write renders p in the given format.
func Write(w io.Writer, f Format, p *project.Project) error {
	switch f {
	case FormatJSON:
		return JSON(w, p)
	case FormatCSV:
		return BOMCSV(w, p.Materials())
	case FormatDetailed:
		return DetailedCSV(w, p)
	case FormatXLSX:
		return XLSX(w, p)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// JSON writes the whole project as indented JSON.
func JSON(w io.Writer, p *project.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	return nil
}

var bomHeader = []string{"key", "label", "qty", "unit"}

// BOMCSV writes an aggregated material list, one row per line.
func BOMCSV(w io.Writer, lines []bom.Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bomHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, l := range lines {
		if err := cw.Write([]string{sanitize(l.Key), sanitize(l.Label), formatQty(l.Qty), sanitize(l.Unit)}); err != nil {
			return fmt.Errorf("writing %s: %w", l.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var detailedHeader = []string{"partida_kind", "partida_title", "key", "label", "qty", "unit", "created_at"}

// DetailedCSV writes every partida's materials without aggregation, so each
// line can be traced back to the calculation that produced it.
func DetailedCSV(w io.Writer, p *project.Project) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailedHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, pt := range p.Parts {
		for _, l := range pt.Materials {
			row := []string{
				string(pt.Kind),
				sanitize(pt.Title),
				sanitize(l.Key),
				sanitize(l.Label),
				formatQty(l.Qty),
				sanitize(l.Unit),
				pt.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing %s/%s: %w", pt.Kind, l.Key, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds a download name from the project name.
func Filename(p *project.Project, f Format) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.Name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = p.ID
	}
	suffix := ""
	if f == FormatDetailed {
		suffix = "-detalle"
	}
	return name + suffix + "." + f.Extension()
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
