package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/transform"
	"github.com/mrbooshehri/folio/internal/validation"
)

// PrintProjectList prints one row per project
func PrintProjectList(projects []models.Project) {
	if len(projects) == 0 {
		PrintEmptyState("No projects match", "Try removing a filter or run: folio project list")
		return
	}

	table := NewTable("ID", "Title", "Category", "Status", "Team", "Updated")
	table.SetColumnAlignment(4, AlignRight)
	for _, p := range projects {
		table.AddColoredRow(
			[]string{
				p.ID,
				Truncate(p.Title, 40),
				string(p.Category),
				StatusIcon(p.Status) + " " + string(p.Status),
				strconv.Itoa(p.TeamSize()),
				p.UpdatedAt.Format(models.DateLayout),
			},
			[]*color.Color{nil, nil, nil, StatusColor(p.Status), nil, Dim},
		)
	}
	table.Print()
	Dim.Fprintf(Out, "%d project(s)\n", len(projects))
}

// PrintProjectCard renders a project for the given viewpoint. HR cards lead
// with people and skills; Boss cards lead with outcomes.
func PrintProjectCard(t *transform.Transformer, p models.Project, view models.Viewpoint) {
	d, err := t.ToDisplayFormat(p)
	if err != nil {
		d = transform.FallbackDisplay
	}

	PrintHeader(d.Title)
	if d.Description != "" {
		Dim.Fprintln(Out, d.Description)
	}
	fmt.Fprintln(Out)

	PrintField("ID", d.ID)
	PrintField("Category", d.CategoryLabel)
	fmt.Fprint(Out, padCell("Status:", 13, AlignLeft))
	StatusColor(p.Status).Fprintf(Out, "%s %s\n", StatusIcon(p.Status), d.StatusLabel)
	PrintField("Duration", d.Duration)
	PrintField("Tags", strings.Join(d.Tags, ", "))

	if view == models.ViewBoss {
		printOutcomes(t, p)
		printMilestones(p)
		printPeople(p, d, false)
	} else {
		printPeople(p, d, true)
		printTechnologies(p)
		printOutcomes(t, p)
	}

	if link, ok := p.PrimaryLink(); ok {
		fmt.Fprintln(Out)
		Dim.Fprintf(Out, "🔗 %s: %s\n", link.Title, link.URL)
	}
}

func printPeople(p models.Project, d transform.DisplayProject, detailed bool) {
	PrintSubHeader("👥 Team")
	fmt.Fprintf(Out, "   %s\n", d.TeamSummary)
	if !detailed {
		return
	}
	for _, m := range p.Team {
		marker := "•"
		if m.IsLead {
			marker = "★"
		}
		fmt.Fprintf(Out, "   %s %s ", marker, m.Name)
		Cyan.Fprintf(Out, "(%s)", m.Role)
		if len(m.Skills) > 0 {
			Dim.Fprintf(Out, " %s", strings.Join(m.Skills, ", "))
		}
		fmt.Fprintln(Out)
	}
}

func printTechnologies(p models.Project) {
	if len(p.Technologies) == 0 {
		return
	}
	PrintSubHeader("🛠  Technologies")
	for _, tech := range p.Technologies {
		fmt.Fprintf(Out, "   %-16s ", Truncate(tech.Name, 16))
		if tech.Proficiency > 0 {
			PrintProgressBar(float64(tech.Proficiency)*10, 10)
			fmt.Fprintf(Out, " %d/10", tech.Proficiency)
		}
		Dim.Fprintf(Out, "  %s\n", tech.Category)
	}
}

func printOutcomes(t *transform.Transformer, p models.Project) {
	if len(p.Metrics.Primary) == 0 && len(p.Metrics.KPIs) == 0 {
		return
	}
	PrintSubHeader("📈 Outcomes")
	for _, m := range p.Metrics.Primary {
		fmt.Fprintf(Out, "   %s: ", m.Label)
		BoldGreen.Fprint(Out, t.FormatMetric(m))
		fmt.Fprintf(Out, " %s\n", TrendIcon(m.Trend))
	}
	if score, ok := p.KPIScore(); ok {
		fmt.Fprint(Out, "   KPI score: ")
		PrintProgressBar(score*100, 20)
		fmt.Fprintf(Out, " %.0f%%\n", score*100)
	}
}

func printMilestones(p models.Project) {
	done, total := p.MilestoneProgress()
	if total == 0 {
		return
	}
	PrintSubHeader(fmt.Sprintf("🏁 Milestones (%d/%d)", done, total))
	for _, m := range p.Timeline.Milestones {
		mark := "○"
		if m.Completed {
			mark = "●"
		}
		fmt.Fprintf(Out, "   %s %s %s ", mark, m.Date.Format(models.DateLayout), m.Title)
		ImportanceColor(m.Importance).Fprintf(Out, "[%s]\n", m.Importance)
	}
}

// PrintKPIReport prints each KPI with its tier and the weighted score
func PrintKPIReport(t *transform.Transformer, p models.Project) {
	PrintHeader(fmt.Sprintf("KPI Report: %s", p.Title))

	if len(p.Metrics.KPIs) == 0 {
		PrintEmptyState("This project defines no KPIs", "")
		return
	}

	table := NewTable("KPI", "Value", "Target", "Tier", "Weight")
	table.SetColumnAlignment(1, AlignRight)
	table.SetColumnAlignment(4, AlignRight)
	for i := range p.Metrics.KPIs {
		kpi := &p.Metrics.KPIs[i]
		tier := kpi.Tier()
		target := ""
		if kpi.Target != nil {
			target = kpi.Target.String()
		}
		table.AddColoredRow(
			[]string{
				kpi.Label,
				t.FormatMetric(kpi.MetricItem) + " " + TrendIcon(kpi.Trend),
				target,
				string(tier),
				fmt.Sprintf("%.2f", kpi.Weight),
			},
			[]*color.Color{nil, nil, Dim, TierColor(tier), nil},
		)
	}
	table.Print()

	fmt.Fprintln(Out)
	if score, ok := p.KPIScore(); ok {
		fmt.Fprint(Out, "Weighted score: ")
		PrintProgressBar(score*100, 40)
		fmt.Fprintf(Out, " %.1f%%\n", score*100)
	} else {
		Dim.Fprintln(Out, "No numeric KPIs to score")
	}
}

// PrintValidationReport prints errors then warnings for one source
func PrintValidationReport(name string, r validation.Result) {
	PrintHeader("Validation: " + name)

	if r.IsValid && !r.HasWarnings() {
		PrintSuccess("No issues found")
		return
	}

	if len(r.Errors) > 0 {
		PrintSubHeader(fmt.Sprintf("Errors (%d)", len(r.Errors)))
		for _, issue := range r.Errors {
			PrintIssue(issue, true)
		}
	}
	if len(r.Warnings) > 0 {
		PrintSubHeader(fmt.Sprintf("Warnings (%d)", len(r.Warnings)))
		for _, issue := range r.Warnings {
			PrintIssue(issue, false)
		}
	}

	fmt.Fprintln(Out)
	if r.IsValid {
		PrintWarning("Valid with %s", r.Summary())
	} else {
		PrintError("Invalid: %s", r.Summary())
	}
}

// PrintPortfolioStats prints counts by status and category
func PrintPortfolioStats(projects []models.Project) {
	PrintHeader(fmt.Sprintf("Portfolio: %d project(s)", len(projects)))

	byStatus := models.CountByStatus(projects)
	PrintSubHeader("By status")
	bars := make([]ChartBar, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		bars = append(bars, ChartBar{Label: string(s), Value: float64(byStatus[s])})
	}
	PrintChart(bars, 30, true)

	byCategory := models.CountByCategory(projects)
	PrintSubHeader("By category")
	bars = bars[:0]
	for _, c := range models.AllCategories {
		if byCategory[c] > 0 {
			bars = append(bars, ChartBar{Label: string(c), Value: float64(byCategory[c])})
		}
	}
	PrintChart(bars, 30, true)
}

// PrintIndexStats prints search index statistics
func PrintIndexStats(stats storage.IndexStats) {
	PrintHeader("Search Index")
	PrintField("Entries", strconv.Itoa(stats.Entries))
	PrintField("Built", stats.BuiltAt.Format("2006-01-02 15:04:05"))
	PrintField("Avg weight", fmt.Sprintf("%.2f", stats.AverageWeight))
	if stats.Stale {
		PrintWarning("Index is stale; run: folio index rebuild")
	} else {
		PrintSuccess("Index is up to date")
	}
}

// PrintSnapshots lists saved snapshots
func PrintSnapshots(infos []storage.SnapshotInfo) {
	if len(infos) == 0 {
		PrintEmptyState("No snapshots saved", "Save one with: folio snapshot save <key>")
		return
	}
	table := NewTable("Key", "Projects", "Saved")
	table.SetColumnAlignment(1, AlignRight)
	for _, info := range infos {
		table.AddRow(info.Key, strconv.Itoa(info.Count), info.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	table.Print()
}
