package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// TableHeader precedes the data rows of a timing table.
const TableHeader = "start_time\tend_time\tspeaker_id\ttranslated_text"

var ErrMalformedLine = errors.New("malformed table line")

// RowResult is the outcome of parsing one table line. Err is set, and Spec is
// zero, when the line could not be parsed.
type RowResult struct {
	Line int
	Spec RenderSpec
	Err  error
}

// TableReport summarises a parsed table.
type TableReport struct {
	Rows    int
	Skipped []RowResult
}

// WriteTable writes the header and one row per spec. Text is written as is.
func WriteTable(w io.Writer, specs []RenderSpec) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, TableHeader); err != nil {
		return err
	}
	for _, s := range specs {
		if _, err := fmt.Fprintf(bw, "%.3f\t%.3f\t%s\t%s\n", s.Start, s.End, s.Speaker, s.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadTable parses a timing table line by line. Rows with four columns are
// start, end, speaker, text. Three columns are the older start, end, text
// layout and two columns are a silent row. A leading header is skipped and
// blank lines are ignored. Only read failures are returned as an error.
func ReadTable(r io.Reader) ([]RowResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []RowResult
	line := 0
	seenData := false
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if !seenData && strings.HasPrefix(strings.TrimSpace(raw), "start") {
			seenData = true
			continue
		}
		seenData = true
		spec, err := parseRow(raw)
		if err != nil {
			out = append(out, RowResult{Line: line, Err: err})
			continue
		}
		out = append(out, RowResult{Line: line, Spec: spec})
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read table: %w", err)
	}
	return out, nil
}

// parseTime accepts finite seconds only. ParseFloat alone lets nan and inf through.
func parseTime(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite time")
	}
	return v, nil
}

func parseRow(raw string) (RenderSpec, error) {
	parts := strings.Split(raw, "\t")
	if len(parts) < 2 {
		return RenderSpec{}, fmt.Errorf("%w: want at least 2 columns, got %d", ErrMalformedLine, len(parts))
	}
	start, err := parseTime(parts[0])
	if err != nil {
		return RenderSpec{}, fmt.Errorf("%w: start %q", ErrMalformedLine, parts[0])
	}
	end, err := parseTime(parts[1])
	if err != nil {
		return RenderSpec{}, fmt.Errorf("%w: end %q", ErrMalformedLine, parts[1])
	}

	spec := RenderSpec{Start: start, End: end}
	switch len(parts) {
	case 2:
	case 3:
		spec.Text = strings.TrimSpace(parts[2])
	default:
		spec.Speaker = strings.TrimSpace(parts[2])
		spec.Text = strings.TrimSpace(strings.Join(parts[3:], "\t"))
	}
	return spec, nil
}

// Specs collects the parsed rows in order and reports the skipped ones.
func Specs(results []RowResult) ([]RenderSpec, TableReport) {
	specs := make([]RenderSpec, 0, len(results))
	var rep TableReport
	for _, r := range results {
		if r.Err != nil {
			rep.Skipped = append(rep.Skipped, r)
			continue
		}
		specs = append(specs, r.Spec)
	}
	rep.Rows = len(specs)
	return specs, rep
}

// FromSentences pairs each sentence with its translated text. Missing
// translations fall back to the source text.
func FromSentences(sents []Sentence, translated []string) []RenderSpec {
	out := make([]RenderSpec, len(sents))
	for i, s := range sents {
		text := s.Text
		if i < len(translated) && translated[i] != "" {
			text = translated[i]
		}
		out[i] = RenderSpec{Start: s.Start, End: s.End, Speaker: s.Speaker, Text: text}
	}
	return out
}
