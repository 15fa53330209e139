package ui

import (
	"fmt"
	"strings"

	"github.com/bdwatch/pursuit/internal/sorting"
)

// RenderStatusBar draws the bottom bar: match count, sort indicator,
// loading state, and key hints.
func RenderStatusBar(matches, total int, spec sorting.Spec, loading bool, width int) string {
	var left string
	if loading {
		left = "loading…"
	} else {
		left = fmt.Sprintf("%d/%d", matches, total)
	}

	if s := sortLabel(spec); s != "" {
		left += StatusBarText.Render("  sort:" + s)
	}

	hints := []string{
		StatusBarKey.Render("/") + StatusBarText.Render(" search"),
		StatusBarKey.Render("tab") + StatusBarText.Render(" pane"),
		StatusBarKey.Render("enter") + StatusBarText.Render(" select"),
		StatusBarKey.Render("t/a/d") + StatusBarText.Render(" sort"),
		StatusBarKey.Render("i") + StatusBarText.Render(" interest"),
		StatusBarKey.Render("L") + StatusBarText.Render(" lead"),
		StatusBarKey.Render("c") + StatusBarText.Render(" clear"),
		StatusBarKey.Render("r") + StatusBarText.Render(" refresh"),
		StatusBarKey.Render("q") + StatusBarText.Render(" quit"),
	}

	bar := left + "  " + strings.Join(hints, " ")
	return StatusBar.Width(width).Render(bar)
}

func sortLabel(spec sorting.Spec) string {
	var name string
	switch spec.Field {
	case sorting.FieldTitle:
		name = "title"
	case sorting.FieldAgency:
		name = "agency"
	case sorting.FieldDue:
		name = "due"
	default:
		return ""
	}
	if spec.Dir == sorting.Desc {
		return name + "▼"
	}
	return name + "▲"
}
