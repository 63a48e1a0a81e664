package runner

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const scoreGroup = "score"

// ScoreExtractor pulls the score out of captured solver output using a
// regular expression with a named group "score".
type ScoreExtractor struct {
	pattern *regexp.Regexp
	group   int
}

func NewScoreExtractor(expr string) (*ScoreExtractor, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: score regex %q: %v", ErrInvalidConfig, expr, err)
	}
	group := re.SubexpIndex(scoreGroup)
	if group < 0 {
		return nil, fmt.Errorf("%w: score regex %q has no named group %q", ErrInvalidConfig, expr, scoreGroup)
	}
	return &ScoreExtractor{pattern: re, group: group}, nil
}

// parsedScore is one capture that parsed as a number. Plain unsigned
// integers keep their exact value; anything else goes through float64.
type parsedScore struct {
	exact uint64
	float float64
	isInt bool
}

func parseCapture(s string) (parsedScore, bool) {
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return parsedScore{exact: u, isInt: true}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return parsedScore{}, false
	}
	return parsedScore{float: f}, true
}

// Extract returns the last score found across outputs, in order. A missing
// score yields a ScoreMissing error and a non-positive or fractional one a
// WrongAnswer error.
func (e *ScoreExtractor) Extract(outputs [][]byte) (Score, error) {
	var (
		last  parsedScore
		found bool
	)
	for _, out := range outputs {
		// A run of invalid bytes becomes a single U+FFFD. The score pattern
		// only has to match the valid text between such runs.
		text := strings.ToValidUTF8(string(out), "�")
		for _, m := range e.pattern.FindAllStringSubmatch(text, -1) {
			if p, ok := parseCapture(m[e.group]); ok {
				last, found = p, true
			}
		}
	}
	if !found {
		return 0, &CaseError{Kind: ScoreMissing}
	}
	if last.isInt {
		if last.exact == 0 {
			return 0, &CaseError{Kind: WrongAnswer}
		}
		return Score(last.exact), nil
	}
	f := last.float
	if !(f > 0) || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, &CaseError{Kind: WrongAnswer}
	}
	return Score(uint64(f)), nil
}
