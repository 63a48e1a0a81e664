package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signalnine/seedrun/internal/numfmt"
	"github.com/signalnine/seedrun/internal/runner"
)

const minScoreWidth = 7

// ConsoleSink prints a live progress table, one row per finished case,
// followed by a short summary.
type ConsoleSink struct {
	w      io.Writer
	styles styles

	total      int
	completed  int
	scoreSum   uint64
	relSum     float64
	scoreWidth int
}

func NewConsoleSink(w io.Writer, total int) *ConsoleSink {
	return &ConsoleSink{
		w:          w,
		styles:     newStyles(w),
		total:      total,
		scoreWidth: minScoreWidth,
	}
}

func (c *ConsoleSink) OnCase(res runner.CaseResult) error {
	c.completed++
	c.scoreSum += uint64(res.Score)
	c.relSum += res.RelativeScore

	if c.completed == 1 {
		// leave room for the running average to grow
		c.scoreWidth = max(c.scoreWidth, len(numfmt.Uint(c.scoreSum))+3)
		if err := c.writeHeader(); err != nil {
			return err
		}
	}

	score := numfmt.Uint(uint64(res.Score))
	c.scoreWidth = max(c.scoreWidth, len(score))
	digits := len(strconv.Itoa(c.total))
	avg := numfmt.Round(float64(c.scoreSum) / float64(c.completed))

	row := fmt.Sprintf("| case %*d / %*d | %04d | %*s | %8.3f | %*s | %8.3f | %6s ms |",
		digits, c.completed, digits, c.total,
		res.Seed(),
		c.scoreWidth, score,
		res.RelativeScore,
		c.scoreWidth, avg,
		c.relSum/float64(c.completed),
		numfmt.Uint(uint64(res.ExecutionTime.Milliseconds())),
	)
	if res.Accepted() {
		_, err := fmt.Fprintln(c.w, row)
		return err
	}
	_, err := fmt.Fprintf(c.w, "%s\n%s\n", c.styles.warn.Render(row), c.styles.warn.Render(res.Message))
	return err
}

func (c *ConsoleSink) writeHeader() error {
	testWidth := len(strconv.Itoa(c.total))*2 + 8
	sw := c.scoreWidth
	sw1 := sw + 11

	var b strings.Builder
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
		center("Progress", testWidth), center("Seed", 4),
		center("Case Score", sw1), center("Average Score", sw1), center("Exec.", 9))
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
		center("", testWidth), center("", 4),
		center("Score", sw), center("Relative", 8),
		center("Score", sw), center("Relative", 8), center("Time", 9))
	dash := func(n int) string { return strings.Repeat("-", n) }
	fmt.Fprintf(&b, "|%s|%s|%s|%s|%s|%s|%s|\n",
		dash(testWidth+2), dash(6), dash(sw+2), dash(10), dash(sw+2), dash(10), dash(11))
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *ConsoleSink) OnSummary(report *runner.RunReport) error {
	accepted := fmt.Sprintf("%d / %d", report.Accepted, report.CaseCount())
	if report.Accepted == report.CaseCount() {
		accepted = c.styles.best.Render(accepted)
	} else {
		accepted = c.styles.boldWarn.Render(accepted)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Average Score          : %s\n", numfmt.Round(report.AverageScore()))
	fmt.Fprintf(&b, "Average Score (log10)  : %.3f\n", report.AverageScoreLog10())
	fmt.Fprintf(&b, "Average Relative Score : %.3f\n", report.AverageRelativeScore())
	fmt.Fprintf(&b, "Accepted               : %s\n", accepted)
	fmt.Fprintf(&b, "Max Execution Time     : %s ms\n", numfmt.Uint(uint64(report.MaxExecutionTime.Milliseconds())))
	_, err := io.WriteString(c.w, b.String())
	return err
}
