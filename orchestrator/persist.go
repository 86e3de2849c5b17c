package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/onevoice/dubsync/render"
	"github.com/onevoice/dubsync/transcript"
)

type Manifest struct {
	TaskID      string            `yaml:"task_id"`
	Source      string            `yaml:"source"`
	GeneratedAt time.Time         `yaml:"generated_at"`
	Mode        string            `yaml:"mode"`
	Sentences   int               `yaml:"sentences"`
	Specs       int               `yaml:"specs"`
	Synthesized int               `yaml:"synthesized"`
	Silent      int               `yaml:"silent"`
	Failed      []int             `yaml:"failed,omitempty"`
	Skipped     []int             `yaml:"skipped_lines,omitempty"`
	Voices      map[string]string `yaml:"voices,omitempty"`
	Duration    float64           `yaml:"duration"`
	Stats       Stats             `yaml:"stats"`
	Error       string            `yaml:"error,omitempty"`
}

func mkTaskDir(outputsRoot, taskID string) (string, error) {
	dir := filepath.Join(outputsRoot, "task_"+taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeTable(path string, specs []transcript.RenderSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return transcript.WriteTable(f, specs)
}

func writeTranscript(path string, sents []transcript.Sentence) error {
	var b strings.Builder
	for _, s := range sents {
		b.WriteString(s.FormatLine())
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeWAV(path string, tl *render.Timeline) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tl.WriteWAV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Result) manifest(mode render.Mode, renderErr error) Manifest {
	m := Manifest{
		TaskID:      r.TaskID,
		Source:      r.Source,
		GeneratedAt: time.Now(),
		Mode:        mode.String(),
		Sentences:   len(r.Sentences),
		Specs:       len(r.Specs),
		Synthesized: r.Report.Synthesized,
		Silent:      r.Report.Silent,
		Failed:      r.Report.Failed,
		Skipped:     r.Skipped,
		Voices:      r.Voices,
		Duration:    r.Duration,
		Stats:       r.Stats,
	}
	if renderErr != nil {
		m.Error = renderErr.Error()
	}
	return m
}
