package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"

	"keywordtagger/internal/history"
	"keywordtagger/internal/preflight"
	"keywordtagger/internal/tagger"
)

func isTerminalWriter(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSummary(s tagger.Summary) string {
	mode := "write"
	if s.DryRun {
		mode = "dry-run"
	}
	rows := [][]string{
		{"Run ID", s.RunID},
		{"Mode", mode},
		{"NFO files", strconv.Itoa(s.Scanned)},
		{"Movie records", strconv.Itoa(s.Records)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Updated", strconv.Itoa(s.Updated)},
		{"Keywords added", strconv.Itoa(s.KeywordsAdded)},
		{"Failures", strconv.Itoa(s.Failures)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Summary", ""}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderHistory(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.Finished() {
			finished = run.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			run.Target,
			strconv.Itoa(run.Records),
			strconv.Itoa(run.Updated),
			strconv.Itoa(run.KeywordsAdded),
			strconv.Itoa(run.Failures),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Finished", "Target", "Records", "Updated", "Added", "Failures"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderChecks(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
