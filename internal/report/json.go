package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/signalnine/seedrun/internal/runner"
)

type caseRecord struct {
	Progress      int     `json:"progress"`
	Seed          uint64  `json:"seed"`
	Score         uint64  `json:"score"`
	RelativeScore float64 `json:"relative_score"`
	ExecutionTime float64 `json:"execution_time"`
	ErrorMessage  string  `json:"error_message"`
}

// JSONSink writes one JSON object per finished case and nothing at the end,
// for consumption by other tools.
type JSONSink struct {
	enc       *json.Encoder
	completed int
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (j *JSONSink) OnCase(res runner.CaseResult) error {
	j.completed++
	return j.enc.Encode(caseRecord{
		Progress:      j.completed,
		Seed:          res.Seed(),
		Score:         uint64(res.Score),
		RelativeScore: res.RelativeScore,
		ExecutionTime: res.ExecutionTime.Seconds(),
		ErrorMessage:  res.Message,
	})
}

func (j *JSONSink) OnSummary(*runner.RunReport) error { return nil }
