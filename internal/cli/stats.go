package cli

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/rollcall/internal/stats"
	"github.com/sadopc/rollcall/internal/store"
)

type StatsCmd struct {
	Width  int  `help:"Chart width in columns." default:"60"`
	Height int  `help:"Chart height in rows." default:"12"`
	Chart  bool `help:"Draw the per-subject bar chart." default:"true" negatable:""`
}

func (c *StatsCmd) Run(ctx *Context) error {
	overall, err := ctx.Store.OverallAttendance()
	if err != nil {
		return err
	}
	subjects, err := ctx.Store.SubjectsWithAttendance()
	if err != nil {
		return err
	}

	var sections []string
	sections = append(sections, titleStyle.Render("Overall attendance: ")+highlightStyle.Render(formatPercent(overall)))

	if c.Chart && len(subjects) > 0 {
		sections = append(sections, renderChart(subjects, c.Width, c.Height))
	}

	ranking := stats.Rank(subjects)
	if ranking.Best != nil {
		sections = append(sections, renderRanking(ranking))
	}
	if len(subjects) > 0 {
		sections = append(sections, renderProjections(subjects))
	}

	ctx.printf("%s\n", panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
	return nil
}

func renderChart(subjects []store.SubjectWithAttendance, width, height int) string {
	if width < 20 {
		width = 20
	}
	if height < 4 {
		height = 4
	}
	chart := barchart.New(width, height)

	var bars []barchart.BarData
	for _, s := range subjects {
		value := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if p := s.Percentage(); p != nil {
			value = *p
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		}
		values := []barchart.BarValue{{Name: s.Name, Value: value, Style: style}}
		bars = append(bars, barchart.BarData{
			Label:  chartLabel(s.Name),
			Values: values,
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func chartLabel(name string) string {
	r := []rune(name)
	if len(r) > 6 {
		return string(r[:6])
	}
	return name
}

func renderRanking(r stats.Ranking) string {
	lines := []string{headingStyle.Render("Ranking")}
	line := func(label string, s store.SubjectWithAttendance) string {
		return fmt.Sprintf("  %-7s %s %-20s %s", label, colorDot(s.Color), s.Name,
			targetStyle(s.MeetsTarget()).Render(formatPercent(s.Percentage())))
	}
	lines = append(lines, line("best", *r.Best))
	for _, s := range r.Others {
		lines = append(lines, line("", s))
	}
	if r.Worst != nil {
		lines = append(lines, line("worst", *r.Worst))
	}
	return strings.Join(lines, "\n")
}

// renderProjections tells, per subject, how many classes to attend to get
// back on target or how many can be skipped without dropping below it.
func renderProjections(subjects []store.SubjectWithAttendance) string {
	lines := []string{headingStyle.Render("Target")}
	for _, s := range subjects {
		var note string
		switch {
		case s.Held() == 0:
			note = mutedStyle.Render("no classes held yet")
		case !s.MeetsTarget():
			need := stats.ClassesToReachTarget(s.Attended(), s.Held(), s.TargetAttendance)
			if need < 0 {
				note = errorStyle.Render(fmt.Sprintf("%.0f%% can no longer be reached", s.TargetAttendance))
			} else {
				note = errorStyle.Render(fmt.Sprintf("attend the next %d to reach %.0f%%", need, s.TargetAttendance))
			}
		default:
			skip := stats.SkippableClasses(s.Attended(), s.Held(), s.TargetAttendance)
			switch {
			case skip < 0:
				note = successStyle.Render("no target set")
			case skip == 0:
				note = warningStyle.Render("on the edge, do not skip")
			default:
				note = successStyle.Render(fmt.Sprintf("can skip %d and stay at %.0f%%", skip, s.TargetAttendance))
			}
		}
		lines = append(lines, fmt.Sprintf("  %s %-20s %s", colorDot(s.Color), s.Name, note))
	}
	return strings.Join(lines, "\n")
}
