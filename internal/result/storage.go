package result

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/signalnine/seedrun/internal/numfmt"
	"github.com/signalnine/seedrun/internal/runner"
)

const (
	bestScoreFile = "best_scores.json"
	summaryFile   = "summary.md"
	jsonDir       = "json"
)

func BestScorePath(outDir string) string { return filepath.Join(outDir, bestScoreFile) }

func SummaryPath(outDir string) string { return filepath.Join(outDir, summaryFile) }

func JSONDir(outDir string) string { return filepath.Join(outDir, jsonDir) }

// LoadBestScores reads the best-score file. A missing file is an empty
// map; entries whose key is not a seed or whose score is zero are dropped.
func LoadBestScores(path string) (map[uint64]runner.Score, error) {
	best := map[uint64]runner.Score{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return best, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading best scores: %w", err)
	}
	var raw map[string]uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing best scores %s: %w", path, err)
	}
	for key, score := range raw {
		seed, err := strconv.ParseUint(key, 10, 64)
		if err != nil || score == 0 {
			continue
		}
		best[seed] = runner.Score(score)
	}
	return best, nil
}

// SaveBestScores writes best with 4-digit zero-padded seed keys.
func SaveBestScores(path string, best map[uint64]runner.Score) error {
	raw := make(map[string]uint64, len(best))
	for seed, score := range best {
		raw[fmt.Sprintf("%04d", seed)] = uint64(score)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling best scores: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// UpdateBestScores records every accepted case that matches or beats its
// reference and returns how many seeds changed.
func UpdateBestScores(best map[uint64]runner.Score, report *runner.RunReport) int {
	updated := 0
	for _, res := range report.Results {
		if !res.IsBest() {
			continue
		}
		if best[res.Seed()] != res.Score {
			updated++
		}
		best[res.Seed()] = res.Score
	}
	return updated
}

const (
	summaryHeader    = "Time                      | Cases | Total Score      | Avg. Score       | Total log10  | Avg. log10  | Comment\n"
	summarySeparator = "--------------------------|------:|-----------------:|-----------------:|-------------:|------------:|----------------------\n"
)

// AppendSummary adds one row for report to the markdown summary log,
// writing the header first when the file is new.
func AppendSummary(path string, report *runner.RunReport, comment, tag string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening summary: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening summary: %w", err)
	}
	w := bufio.NewWriter(f)
	if info.Size() == 0 {
		w.WriteString(summaryHeader)
		w.WriteString(summarySeparator)
	}
	w.WriteString(SummaryRow(report, comment, tag))
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// SummaryRow renders the summary.md line for report, newline included.
func SummaryRow(report *runner.RunReport, comment, tag string) string {
	if tag != "" {
		comment = fmt.Sprintf("(%s) %s", tag, comment)
	}
	return fmt.Sprintf("%-25s | %5s | %16s | %16s | %12s | %11s | %s\n",
		report.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		numfmt.Uint(uint64(report.CaseCount())),
		numfmt.Uint(report.ScoreSum),
		numfmt.Float(report.AverageScore(), 2),
		numfmt.Float(report.ScoreSumLog10, 5),
		numfmt.Float(report.AverageScoreLog10(), 5),
		comment,
	)
}

// RunResultPath names the per-run file after its local start time.
func RunResultPath(outDir string, rr *RunResult) string {
	name := fmt.Sprintf("result_%s.json", rr.StartTime.Local().Format("20060102_150405"))
	return filepath.Join(JSONDir(outDir), name)
}

func WriteRunResult(outDir string, rr *RunResult) (string, error) {
	path := RunResultPath(outDir, rr)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating json dir: %w", err)
	}
	data, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling run result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing run result: %w", err)
	}
	return path, nil
}

func ReadRunResult(path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run result: %w", err)
	}
	var rr RunResult
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("parsing run result %s: %w", path, err)
	}
	return &rr, nil
}

// ListRunResults loads the per-run files of outDir, newest first. A limit
// of zero or less means no limit. Files that fail to parse are logged and
// skipped.
func ListRunResults(outDir string, limit int, logger zerolog.Logger) ([]*RunResult, error) {
	dir := JSONDir(outDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no results found: %s does not exist", dir)
		}
		return nil, fmt.Errorf("listing results: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "result_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	results := make([]*RunResult, 0, len(names))
	for _, name := range names {
		rr, err := ReadRunResult(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("skipping unreadable result")
			continue
		}
		results = append(results, rr)
	}
	return results, nil
}
