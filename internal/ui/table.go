package ui

import (
	"fmt"
	"strings"

	"github.com/bdwatch/pursuit/internal/catalog"
)

// RenderTable draws the solicitation table with the accordion detail
// block under the expanded row. Scrolls to keep the cursor visible.
func RenderTable(items []catalog.Solicitation, cursor int, expandedID string,
	myClaims map[string]string, details map[string]catalog.Detail,
	width, height int) string {

	if len(items) == 0 {
		return HelpStyle.Render("No results. Press 'c' to clear filters, 'r' to refresh.")
	}

	var b strings.Builder

	if height < 1 {
		height = 1
	}

	// The expanded block consumes viewport lines, so it is rendered up
	// front and its height feeds the scroll offset.
	expandedIdx := -1
	var blockLines []string
	if expandedID != "" {
		for i, it := range items {
			if it.SourceID == expandedID {
				expandedIdx = i
				block := renderDetail(it, details[expandedID], myClaims[expandedID], width)
				blockLines = strings.Split(block, "\n")
				break
			}
		}
	}

	offset := scrollOffset(len(items), cursor, height, expandedIdx, len(blockLines))

	rendered := 0
	for i := offset; i < len(items) && rendered < height; i++ {
		it := items[i]
		b.WriteString(renderRow(it, i == cursor, i == expandedIdx, myClaims[it.SourceID], width))
		b.WriteString("\n")
		rendered++

		if i == expandedIdx {
			for _, line := range blockLines {
				if rendered >= height {
					break
				}
				b.WriteString(line)
				b.WriteString("\n")
				rendered++
			}
		}
	}

	return b.String()
}

func renderRow(it catalog.Solicitation, selected, expanded bool, myClaim string, width int) string {
	due := "N/A"
	if it.HasDueDate() {
		due = it.DueDate.Format("2006-01-02")
	}

	badge := "  "
	switch myClaim {
	case catalog.ClaimInterested:
		badge = ClaimBadge.Render("★ ")
	case catalog.ClaimLead:
		badge = LeadBadge.Render("⚑ ")
	}

	arrow := "  "
	if expanded {
		arrow = "▼ "
	}

	agencyWidth := 12
	dueWidth := 10
	titleWidth := width - agencyWidth - dueWidth - 10
	if titleWidth < 16 {
		titleWidth = 16
	}

	line := fmt.Sprintf("%s%s%-*s  %-*s  %*s",
		arrow, badge,
		agencyWidth, clip(it.Agency, agencyWidth),
		titleWidth, clip(it.Title, titleWidth),
		dueWidth, due)

	if selected {
		return SelectedRow.Render(line)
	}
	return NormalRow.Render(line)
}

func renderDetail(it catalog.Solicitation, d catalog.Detail, myClaim string, width int) string {
	var b strings.Builder

	desc := it.Description
	if desc == "" {
		desc = "No description provided."
	}
	b.WriteString(wrap(desc, width-8))
	b.WriteString("\n")

	if len(it.Documents) > 0 {
		b.WriteString("Documents:\n")
		for _, doc := range it.Documents {
			title := doc.Title
			if title == "" {
				title = "File"
			}
			b.WriteString("  • " + title + "  " + doc.URL + "\n")
		}
	}

	// Team status: only known once the detail has been hydrated.
	if d.SourceID != "" {
		if lead, ok := d.Lead(); ok {
			b.WriteString("Lead: " + lead.User.FullName)
			if lead.User.OrganizationName != "" {
				b.WriteString(" (" + lead.User.OrganizationName + ")")
			}
			b.WriteString("\n")
		} else {
			b.WriteString("Lead: none\n")
		}
		if interested := d.Interested(); len(interested) > 0 {
			names := make([]string, 0, len(interested))
			for _, c := range interested {
				names = append(names, c.User.FullName)
			}
			b.WriteString("Interested: " + strings.Join(names, ", ") + "\n")
		}
	}

	if myClaim != "" && myClaim != catalog.ClaimNone {
		b.WriteString("Your claim: " + myClaim + "\n")
	}
	if it.URL != "" {
		b.WriteString(it.URL + "\n")
	}

	return DetailBlock.Render(strings.TrimRight(b.String(), "\n"))
}

// scrollOffset keeps the cursor within the viewport, counting the
// expanded detail block's lines whenever the block sits at or above the
// cursor.
func scrollOffset(n, cursor, height, expandedIdx, blockHeight int) int {
	needed := cursor + 1
	if expandedIdx >= 0 && expandedIdx <= cursor {
		needed += blockHeight
	}
	if needed <= height {
		return 0
	}

	offset := needed - height
	if expandedIdx >= 0 && expandedIdx < offset {
		// Scrolling past the expanded row frees its block's lines.
		offset = cursor - height + 1
		if offset <= expandedIdx {
			offset = expandedIdx + 1
		}
	}
	if offset > n-1 {
		offset = n - 1
	}
	return offset
}

// clip shortens a string to max runes, adding "…" if truncated.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// wrap breaks text into lines of at most w runes, capped at six lines.
func wrap(s string, w int) string {
	if w < 16 {
		w = 16
	}
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, word := range words {
		if cur == "" {
			cur = word
			continue
		}
		if len(cur)+1+len(word) > w {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur += " " + word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > 6 {
		lines = append(lines[:6], "…")
	}
	return strings.Join(lines, "\n")
}
