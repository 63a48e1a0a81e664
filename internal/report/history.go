package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/signalnine/seedrun/internal/result"
	"github.com/signalnine/seedrun/internal/runner"
)

// TagPrefix is stripped from tag names when listing runs.
const TagPrefix = "seedrun/"

// HistoryRow is one past run as shown by `seedrun list`.
type HistoryRow struct {
	StartTime            string  `json:"start_time"`
	Accepted             int     `json:"accepted"`
	CaseCount            int     `json:"case_count"`
	AverageScore         float64 `json:"average_score"`
	AverageRelativeScore float64 `json:"average_relative_score"`
	MaxExecutionTimeMS   float64 `json:"max_execution_time_ms"`
	Tag                  string  `json:"tag"`
	Comment              string  `json:"comment"`

	bestScore    bool
	bestRelative bool
}

// Summarize turns past runs into rows, recomputing relative scores against
// the current best and marking the best average score (per objective) and
// the best average relative score.
func Summarize(runs []*result.RunResult, best map[uint64]runner.Score, obj runner.Objective) []HistoryRow {
	rows := make([]HistoryRow, 0, len(runs))
	for _, rr := range runs {
		tag := "-"
		if rr.TagName != nil {
			tag = strings.TrimPrefix(*rr.TagName, TagPrefix)
		}
		rows = append(rows, HistoryRow{
			StartTime:            rr.StartTime.Local().Format("01/02 15:04:05"),
			Accepted:             rr.AcceptedCount(),
			CaseCount:            rr.CaseCount,
			AverageScore:         rr.AverageScore(),
			AverageRelativeScore: rr.AverageRelativeScore(best, obj),
			MaxExecutionTimeMS:   rr.MaxExecutionTime * 1e3,
			Tag:                  tag,
			Comment:              rr.Comment,
		})
	}
	if len(rows) == 0 {
		return rows
	}

	bestScore, bestRel := rows[0].AverageScore, rows[0].AverageRelativeScore
	for _, r := range rows[1:] {
		if (obj == runner.Maximize && r.AverageScore > bestScore) ||
			(obj == runner.Minimize && r.AverageScore < bestScore) {
			bestScore = r.AverageScore
		}
		bestRel = max(bestRel, r.AverageRelativeScore)
	}
	for i := range rows {
		rows[i].bestScore = rows[i].AverageScore == bestScore
		rows[i].bestRelative = rows[i].AverageRelativeScore == bestRel
	}
	return rows
}

// WriteHistory renders rows as a markdown table ("table") or a JSON array
// ("json").
func WriteHistory(w io.Writer, rows []HistoryRow, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table", "":
		return writeHistoryTable(w, rows)
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

var historyHeaders = []string{"Time", "AC/All", "Avg Score", "Avg Rel.", "Max Time", "Tag", "Comment"}

// columns 1 through 4 hold numbers
func rightAligned(col int) bool { return col >= 1 && col <= 4 }

func writeHistoryTable(w io.Writer, rows []HistoryRow) error {
	st := newStyles(w)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		ac := fmt.Sprintf("%d/%d", r.Accepted, r.CaseCount)
		if r.Accepted == r.CaseCount {
			ac = st.ok.Render(ac)
		} else {
			ac = st.warn.Render(ac)
		}
		score := fmt.Sprintf("%.2f", r.AverageScore)
		if r.bestScore {
			score = st.best.Render(score)
		}
		rel := fmt.Sprintf("%.3f", r.AverageRelativeScore)
		if r.bestRelative {
			rel = st.best.Render(rel)
		}
		cells = append(cells, []string{
			r.StartTime, ac, score, rel,
			fmt.Sprintf("%.0f ms", r.MaxExecutionTimeMS),
			r.Tag, r.Comment,
		})
	}

	widths := make([]int, len(historyHeaders))
	for i, h := range historyHeaders {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(row []string, header bool) {
		b.WriteString("|")
		for i, cell := range row {
			if rightAligned(i) && !header {
				cell = padLeft(cell, widths[i])
			} else {
				cell = padRight(cell, widths[i])
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}
	writeRow(historyHeaders, true)
	b.WriteString("|")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2) + "|")
	}
	b.WriteString("\n")
	for _, row := range cells {
		writeRow(row, false)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
