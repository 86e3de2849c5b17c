package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/onevoice/dubsync/clients"
	cfg "github.com/onevoice/dubsync/config"
	"github.com/onevoice/dubsync/render"
	"github.com/onevoice/dubsync/transcript"
)

type Pipeline struct {
	cfg  *cfg.Root
	http *clients.HTTP
	log  logrus.FieldLogger
}

func NewPipeline(c *cfg.Root, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{cfg: c, http: clients.NewHTTP(c.Timeout()), log: log}
}

// Run dubs the audio at wavPath: transcribe, diarize, merge into sentences,
// translate and render. Everything lands in a fresh task directory.
func (p *Pipeline) Run(ctx context.Context, wavPath string) (*Result, error) {
	res, err := p.newTask(wavPath)
	if err != nil {
		return nil, err
	}
	log := p.log.WithField("task", res.TaskID)

	log.WithField("stage", StageSTT).Info("transcribing")
	asr, err := p.http.ASR(ctx, p.cfg.Services.ASR.URL, wavPath)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageSTT, err)
	}

	turns := p.diarize(ctx, log, wavPath)

	log.WithField("stage", StageMerge).WithField("words", len(asr.Words)).Info("building sentences")
	res.Sentences, err = p.Sentences(ctx, asr.Words, turns)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageMerge, err)
	}
	if err := writeJSON(filepath.Join(res.Dir, "sentences.json"), res.Sentences); err != nil {
		return res, err
	}
	if err := writeTranscript(filepath.Join(res.Dir, "transcript.txt"), res.Sentences); err != nil {
		return res, err
	}

	log.WithField("stage", StageTranslation).WithField("sentences", len(res.Sentences)).Info("translating")
	res.Specs, err = p.translate(ctx, log, res.Sentences)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageTranslation, err)
	}
	return res, p.dub(ctx, log, res)
}

// RenderTable dubs an already translated table, skipping rows that do not
// parse.
func (p *Pipeline) RenderTable(ctx context.Context, tablePath string) (*Result, error) {
	f, err := os.Open(tablePath)
	if err != nil {
		return nil, err
	}
	rows, err := transcript.ReadTable(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	res, err := p.newTask(tablePath)
	if err != nil {
		return nil, err
	}
	log := p.log.WithField("task", res.TaskID)

	specs, rep := transcript.Specs(rows)
	for _, r := range rep.Skipped {
		log.WithError(r.Err).WithField("line", r.Line).Warn("skipping row")
		res.Skipped = append(res.Skipped, r.Line)
	}
	res.Specs = specs
	return res, p.dub(ctx, log, res)
}

// Sentences segments words, labels segments with the dominant diarization
// speaker and merges them into sentences.
func (p *Pipeline) Sentences(ctx context.Context, words []transcript.WordTimestamp, turns []transcript.DiarizationTurn) ([]transcript.Sentence, error) {
	segs := p.cfg.Segmenter().Segment(words)
	aligned, err := transcript.AlignConcurrent(ctx, segs, transcript.NormalizeTurns(turns), p.cfg.Render.Workers)
	if err != nil {
		return nil, err
	}
	return transcript.Merge(aligned), nil
}

// diarize is best effort: without turns every sentence is unknown.
func (p *Pipeline) diarize(ctx context.Context, log logrus.FieldLogger, wavPath string) []transcript.DiarizationTurn {
	url := p.cfg.Services.Diarization.URL
	if url == "" {
		return nil
	}
	log.WithField("stage", StageDiarization).Info("diarizing")
	d, err := p.http.Diarize(ctx, url, wavPath)
	if err != nil {
		log.WithError(err).Warn("diarization failed, speakers unknown")
		return nil
	}
	return d.Diarization
}

func (p *Pipeline) newTask(source string) (*Result, error) {
	id := uuid.NewString()
	dir, err := mkTaskDir(p.cfg.Paths.Outputs, id)
	if err != nil {
		return nil, err
	}
	return &Result{TaskID: id, Dir: dir, Source: source}, nil
}

func (p *Pipeline) dub(ctx context.Context, log logrus.FieldLogger, res *Result) error {
	res.TablePath = filepath.Join(res.Dir, "translated.tsv")
	if err := writeTable(res.TablePath, res.Specs); err != nil {
		return err
	}
	res.Stats = timingStats(res.Specs)

	mode, err := p.cfg.RenderMode()
	if err != nil {
		return err
	}
	r := render.NewRenderer(p.cfg.Format(), log)
	r.Voices = p.cfg.Render.Voices
	r.Workers = p.cfg.Render.Workers
	synth := clients.Synthesizer{HTTP: p.http, URL: p.cfg.Services.TTS.URL, SampleRate: p.cfg.Audio.SampleRate}

	log.WithFields(logrus.Fields{"stage": StageTTS, "mode": mode, "specs": len(res.Specs)}).Info("rendering")
	tl, rep, renderErr := r.Render(ctx, res.Specs, synth, mode)
	res.Report = rep
	if renderErr == nil {
		res.Voices = tl.Voices
		res.Duration = tl.Duration()
		res.AudioPath = filepath.Join(res.Dir, "dubbed.wav")
		if err := writeWAV(res.AudioPath, tl); err != nil {
			return err
		}
	}

	if err := writeYAML(filepath.Join(res.Dir, "manifest.yaml"), res.manifest(mode, renderErr)); err != nil {
		return err
	}
	if renderErr != nil {
		return fmt.Errorf("%s: %w", StageTTS, renderErr)
	}
	log.WithFields(logrus.Fields{
		"duration":    fmt.Sprintf("%.2fs", res.Duration),
		"synthesized": rep.Synthesized,
		"failed":      len(rep.Failed),
		"overlap":     fmt.Sprintf("%.2f", res.Stats.OverlapRate),
	}).Info("dubbed")
	return nil
}
