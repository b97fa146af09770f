package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
)

// SheetBOM is the name of the aggregated materials sheet.
const SheetBOM = "BOM"

const maxSheetName = 31

// XLSX writes a workbook with the aggregated bill of materials on the first
// sheet and one sheet per partida.
func XLSX(w io.Writer, p *project.Project) error {
	file, err := Workbook(p)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook without writing it.
func Workbook(p *project.Project) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(SheetBOM)
	if err != nil {
		return nil, fmt.Errorf("adding %s sheet: %w", SheetBOM, err)
	}
	addLines(sheet, p.Materials())

	used := map[string]bool{SheetBOM: true}
	for _, pt := range p.Parts {
		name := sheetName(string(pt.Kind), pt.Title, used)
		sheet, err := file.AddSheet(name)
		if err != nil {
			return nil, fmt.Errorf("adding sheet for partida %s: %w", pt.ID, err)
		}
		addLines(sheet, pt.Materials)
	}
	return file, nil
}

func addLines(sheet *xlsx.Sheet, lines []bom.Line) {
	header := sheet.AddRow()
	for _, h := range bomHeader {
		header.AddCell().SetString(h)
	}
	for _, l := range lines {
		row := sheet.AddRow()
		row.AddCell().SetString(l.Key)
		row.AddCell().SetString(l.Label)
		row.AddCell().SetFloat(l.Qty)
		row.AddCell().SetString(l.Unit)
	}
}

// sheetName derives a unique sheet name of at most 31 characters without
// the characters Excel rejects.
func sheetName(kind, title string, used map[string]bool) string {
	base := kind
	if t := strings.TrimSpace(title); t != "" {
		base = kind + " - " + t
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, base)
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
