package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
)

func sampleProject() *project.Project {
	created := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	return &project.Project{
		ID:   "prj_test",
		Name: "Casa Gómez 2",
		Parts: []project.Partida{
			{
				ID:    "pt_water",
				Kind:  project.KindWater,
				Title: "Agua fría/caliente",
				Materials: []bom.Line{
					{Key: "PPR-TUBO-20", Label: "Caño PPR 20 mm", Qty: 4, Unit: "barra"},
					{Key: "PPR-CODO-20", Label: "Codo 90 PPR, 20 mm", Qty: 6, Unit: "u"},
				},
				CreatedAt: created,
			},
			{
				ID:    "pt_drain",
				Kind:  project.KindDrainage,
				Title: "Desagüe\nprimario",
				Materials: []bom.Line{
					{Key: "PPR-TUBO-20", Label: "Caño PPR 20 mm", Qty: 1.5, Unit: "barra"},
					{Key: "PVC-PIPE-110", Label: "Caño PVC 110", Qty: 3, Unit: "barra"},
				},
				CreatedAt: created,
			},
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "CSV": FormatCSV, " xlsx ": FormatXLSX,
		"detailed": FormatDetailed, "detallado": FormatDetailed,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleProject()))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"id\": \"prj_test\""))

	var back project.Project
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Len(t, back.Parts, 2)
}

func TestBOMCSVAggregates(t *testing.T) {
	p := sampleProject()
	var buf bytes.Buffer
	require.NoError(t, BOMCSV(&buf, p.Materials()))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, []string{"key", "label", "qty", "unit"}, records[0])
	assert.Equal(t, []string{"PPR-TUBO-20", "Caño PPR 20 mm", "5.5", "barra"}, records[1])
	assert.Equal(t, []string{"PVC-PIPE-110", "Caño PVC 110", "3", "barra"}, records[2])
	assert.Equal(t, []string{"PPR-CODO-20", "Codo 90 PPR, 20 mm", "6", "u"}, records[3])
	assert.Contains(t, buf.String(), `"Codo 90 PPR, 20 mm"`, "labels with commas are quoted")
}

func TestDetailedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DetailedCSV(&buf, sampleProject()))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, detailedHeader, records[0])
	assert.Equal(t, []string{"agua", "Agua fría/caliente", "PPR-TUBO-20", "Caño PPR 20 mm", "4", "barra", "2026-05-04T10:30:00Z"}, records[1])
	assert.Equal(t, "Desagüe primario", records[3][1], "newlines are flattened")
}

func TestXLSXSheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleProject()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 3)
	assert.Equal(t, SheetBOM, file.Sheets[0].Name)
	assert.Equal(t, "agua - Agua fría-caliente", file.Sheets[1].Name)

	bomSheet := file.Sheets[0]
	require.Len(t, bomSheet.Rows, 4)
	assert.Equal(t, "PPR-TUBO-20", bomSheet.Rows[1].Cells[0].Value)
	qty, err := bomSheet.Rows[1].Cells[2].Float()
	require.NoError(t, err)
	assert.Equal(t, 5.5, qty)
}

func TestSheetNameUniqueAndShort(t *testing.T) {
	used := map[string]bool{}
	long := strings.Repeat("calefacción ", 5)
	a := sheetName("calefaccion", long, used)
	b := sheetName("calefaccion", long, used)

	assert.LessOrEqual(t, len([]rune(a)), maxSheetName)
	assert.LessOrEqual(t, len([]rune(b)), maxSheetName)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(b, " (2)"))
}

func TestFilename(t *testing.T) {
	p := sampleProject()
	assert.Equal(t, "casa-gmez-2.csv", Filename(p, FormatCSV))
	assert.Equal(t, "casa-gmez-2-detalle.csv", Filename(p, FormatDetailed))
	assert.Equal(t, "prj_test.xlsx", Filename(&project.Project{ID: "prj_test", Name: "¿?"}, FormatXLSX))
}
