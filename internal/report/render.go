package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gerrit-reviewstats/internal/domain"

	"gopkg.in/yaml.v3"
)

// Форматы вывода отчета.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const coreMarker = " **"

const disagreementsFootnote = "(*) Disagreements are defined as a +1 or +2 vote on a patch " +
	"where a core team member later gave a -1 or -2 vote, or a " +
	"negative vote overridden with a positive one afterwards."

// Write выводит отчет в указанном формате.
func Write(w io.Writer, r *domain.Report, format string) error {
	switch format {
	case FormatText, "table", "":
		return WriteText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteText выводит отчет текстовой таблицей с заголовком, итогами и сноской.
func WriteText(w io.Writer, r *domain.Report) error {
	var b strings.Builder

	if r.AllProjects {
		fmt.Fprintf(&b, "Reviews for the last %d days in projects: %s\n", r.Days, strings.Join(r.Projects, ", "))
		b.WriteString("** -- Member of at least one core reviewer team\n")
	} else {
		name := strings.Join(r.Projects, ", ")
		fmt.Fprintf(&b, "Reviews for the last %d days in %s\n", r.Days, name)
		fmt.Fprintf(&b, "** -- %s-core team member\n", name)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	table := NewTable(w, "Reviewer", "Reviews", "-2", "-1", "+1", "+2", "+/- %", "Disagreements*", "Disagreement %")
	for _, row := range r.Rows {
		table.AddRow(
			DisplayName(row),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Votes.MinusTwo),
			strconv.Itoa(row.Votes.MinusOne),
			strconv.Itoa(row.Votes.PlusOne),
			strconv.Itoa(row.Votes.PlusTwo),
			formatRatio(row.Ratio, row.RatioDefined),
			strconv.Itoa(row.Disagreements),
			formatRatio(row.DisagreementRatio, true),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal reviews: %d\nTotal reviewers: %d\n\n%s\n",
		r.TotalReviews, r.TotalReviewers, disagreementsFootnote)
	return err
}

// DisplayName возвращает имя ревьювера с пометкой участника core-команды.
func DisplayName(row domain.ReviewerRow) string {
	if row.CoreMember {
		return row.Username + coreMarker
	}
	return row.Username
}

func formatRatio(ratio float64, defined bool) string {
	if !defined {
		return "N/A"
	}
	return fmt.Sprintf("%5.1f%%", ratio)
}
