package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/drainage"
	"github.com/home265/bob-obras-sanitarias/pkg/heating"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
	"github.com/home265/bob-obras-sanitarias/pkg/water"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AFFF"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD75F"))
)

// summary is the part every engine result shares.
type summary struct {
	rows            []report.Row
	recommendations []string
	warnings        []string
	materials       []bom.Line
	incomplete      bool
}

func printSection(title string, s summary) {
	fmt.Println(titleStyle.Render(title))
	fmt.Println(strings.Repeat("=", lipgloss.Width(title)))
	fmt.Println()

	for _, r := range s.rows {
		line := fmt.Sprintf("  %-34s %12s %-6s", r.Label, r.Qty, r.Unit)
		if r.Hint != "" {
			line += " " + mutedStyle.Render(r.Hint)
		}
		fmt.Println(line)
	}

	if len(s.materials) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Materials"))
		printMaterials(s.materials)
	}

	if len(s.recommendations) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Recommendations"))
		for _, r := range s.recommendations {
			fmt.Printf("  * %s\n", r)
		}
	}

	if len(s.warnings) > 0 {
		fmt.Println()
		fmt.Println(warningStyle.Render(fmt.Sprintf("WARNINGS (%d):", len(s.warnings))))
		for _, w := range s.warnings {
			fmt.Printf("  ! %s\n", w)
		}
	}
	if s.incomplete {
		fmt.Println()
		fmt.Println(warningStyle.Render("Result is incomplete: some catalog lookups fell back to zero."))
	}
}

func printMaterials(lines []bom.Line) {
	fmt.Printf("  %-32s %-34s %10s %-6s\n", "Key", "Description", "Qty", "Unit")
	fmt.Printf("  %-32s %-34s %10s %-6s\n",
		strings.Repeat("-", 32), strings.Repeat("-", 34), strings.Repeat("-", 10), strings.Repeat("-", 6))
	for _, l := range lines {
		fmt.Printf("  %-32s %-34s %10s %-6s\n", l.Key, truncate(l.Label, 34), formatQty(l.Qty), l.Unit)
	}
}

func printWaterSegments(r *water.Result) {
	if len(r.Segments) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Branches"))
	fmt.Printf("  %-12s %-5s %7s %7s %5s %7s %8s %8s\n", "Branch", "Net", "UC", "Q l/s", "DN", "v m/s", "J m", "P end")
	for _, s := range r.Segments {
		line := fmt.Sprintf("  %-12s %-5s %7.2f %7.3f %5d %7.2f %8.3f %8.2f",
			truncate(s.ID, 12), s.Network, s.UC, s.FlowLS, s.DN, s.VelocityMS, s.LossM, s.PressureEndM)
		switch {
		case s.Sizing == water.SizingDegraded:
			line = errorStyle.Render(line + "  velocity exceeded")
		case s.PressureEndM < r.RequiredPressureM:
			line = warningStyle.Render(line + "  low pressure")
		}
		fmt.Println(line)
	}
}

func printDrainageRuns(r *drainage.Result) {
	if len(r.Runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Runs"))
	fmt.Printf("  %-12s %-9s %5s %7s %7s %8s %5s\n", "Run", "Kind", "DN", "L m", "i cm/m", "exit cm", "OK")
	for _, run := range r.Runs {
		ok := successStyle.Render("yes")
		if !run.OK {
			ok = errorStyle.Render("no") + " " + run.Reason
		}
		fmt.Printf("  %-12s %-9s %5d %7.2f %7.2f %8.1f %s\n",
			truncate(run.ID, 12), run.Kind, run.DN, run.LengthM, run.SlopeCMPerM, run.ExitDepthCM, ok)
	}
}

func printHeatingRooms(r *heating.Result) {
	if len(r.Rooms) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Rooms"))
	fmt.Printf("  %-16s %5s %8s %9s %9s %6s\n", "Room", "Floor", "Area m2", "Loss W", "kcal/h", "Elem.")
	for _, room := range r.Rooms {
		line := fmt.Sprintf("  %-16s %5d %8.2f %9.1f %9.0f %6d",
			truncate(room.Name, 16), room.Floor, room.AreaM2, room.TotalW, room.KcalH, room.Elements)
		if room.Incomplete {
			line = warningStyle.Render(line + "  incomplete")
		}
		fmt.Println(line)
	}
}

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("ERRORS (%d):", len(r.Errors))))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Printf("    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("WARNINGS (%d):", len(r.Warnings))))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.SpecPath != "" {
				fmt.Printf("    -> %s\n", w.SpecPath)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("INFO (%d):", len(r.Info))))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: %s (%s)\n", successStyle.Render("VALID"), r.Summary)
	} else {
		fmt.Printf("Result: %s (%s)\n", errorStyle.Render("INVALID"), r.Summary)
	}
}

func printProjectList(list []project.Project) {
	if len(list) == 0 {
		fmt.Println(mutedStyle.Render("No projects yet. Create one with `instalaciones project create --name ...`."))
		return
	}
	fmt.Printf("%-42s %-28s %-8s %s\n", "ID", "Name", "Partidas", "Updated")
	for _, p := range list {
		fmt.Printf("%-42s %-28s %-8d %s\n", p.ID, truncate(p.Name, 28), len(p.Parts), p.UpdatedAt.Local().Format(time.DateTime))
	}
}

func printProject(p *project.Project) {
	fmt.Println(titleStyle.Render(p.Name) + " " + mutedStyle.Render(p.ID))
	if p.Client != "" {
		fmt.Printf("  Client:  %s\n", p.Client)
	}
	if p.SiteAddress != "" {
		fmt.Printf("  Site:    %s\n", p.SiteAddress)
	}
	if p.Notes != "" {
		fmt.Printf("  Notes:   %s\n", p.Notes)
	}
	fmt.Printf("  Updated: %s\n", p.UpdatedAt.Local().Format(time.DateTime))
	fmt.Println()

	if len(p.Parts) == 0 {
		fmt.Println(mutedStyle.Render("  No partidas saved."))
		return
	}
	fmt.Println(headerStyle.Render("Partidas"))
	for _, pt := range p.Parts {
		fmt.Printf("  %-12s %-32s %3d lines  %s\n", pt.Kind, truncate(pt.Title, 32), len(pt.Materials), mutedStyle.Render(pt.ID))
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Bill of materials"))
	printMaterials(p.Materials())
}

func printCatalogs(dir string, set catalog.Set, gasket catalog.Drainage, fallbacks []catalog.FallbackRecord) {
	fmt.Println(titleStyle.Render("Catalogs in " + dir))
	rows := []struct {
		file  string
		count int
	}{
		{catalog.FilePPR, len(set.Water.PPR.Pipes) + len(set.Water.PPR.Fittings) + len(set.Water.PPR.Valves)},
		{catalog.FileFixtureWeights, len(set.Water.FixtureWeights)},
		{catalog.FileEquivalentLength, len(set.Water.EquivalentLengths)},
		{catalog.FileVelocityLimits, 2},
		{catalog.FileProbableFlow, len(set.Water.ProbableFlow)},
		{catalog.FileSlopes, len(set.Drainage.Slopes)},
		{catalog.FileAccessSpacing, 1},
		{catalog.FilePVCGlued, len(set.Drainage.PVC.Pipes) + len(set.Drainage.PVC.Fittings) + len(set.Drainage.PVC.Supplies)},
		{catalog.FilePVCGasket, len(gasket.PVC.Pipes) + len(gasket.PVC.Fittings) + len(gasket.PVC.Supplies)},
		{catalog.FileClimateZones, len(set.Heating.Zones)},
		{catalog.FileTransmittances, len(set.Heating.Transmittances.Walls) + len(set.Heating.Transmittances.Roofs) +
			len(set.Heating.Transmittances.Glazing) + len(set.Heating.Transmittances.Floors)},
	}

	failed := make(map[string]string, len(fallbacks))
	for _, f := range fallbacks {
		failed[f.File] = f.Reason
	}
	for _, r := range rows {
		if reason, ok := failed[r.file]; ok {
			fmt.Printf("  %-44s %s\n", r.file, warningStyle.Render("fallback: "+reason))
			continue
		}
		fmt.Printf("  %-44s %5d entries\n", r.file, r.count)
	}
	if len(fallbacks) > 0 {
		fmt.Println()
		fmt.Println(warningStyle.Render(fmt.Sprintf("%d table(s) replaced by built-in defaults", len(fallbacks))))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
