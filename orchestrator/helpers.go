package orchestrator

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/onevoice/dubsync/clients"
	"github.com/onevoice/dubsync/transcript"
)

func timingStats(specs []transcript.RenderSpec) Stats {
	st := Stats{SpeakingShare: map[string]float64{}}
	type edge struct {
		t     float64
		delta int
	}
	var edges []edge
	total := 0.0
	for _, s := range specs {
		d := math.Max(0, s.End-s.Start)
		if s.Text == "" || d == 0 {
			continue
		}
		total += d
		st.SpeakingShare[s.Speaker] += d
		st.Duration = math.Max(st.Duration, s.End)
		edges = append(edges, edge{t: s.Start, delta: +1}, edge{t: s.End, delta: -1})
	}
	if len(edges) == 0 {
		return st
	}
	// ends before starts at the same instant, so touching turns don't count
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].t == edges[j].t {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].t < edges[j].t
	})
	active := 0
	last := edges[0].t
	overlap := 0.0
	for _, e := range edges {
		if active > 1 {
			overlap += e.t - last
		}
		active += e.delta
		last = e.t
	}
	for k := range st.SpeakingShare {
		st.SpeakingShare[k] /= total
	}
	if st.Duration > 0 {
		st.OverlapRate = overlap / st.Duration
	}
	return st
}

// translate turns sentences into render specs. A sentence whose translation
// fails keeps its source text.
func (p *Pipeline) translate(ctx context.Context, log logrus.FieldLogger, sents []transcript.Sentence) ([]transcript.RenderSpec, error) {
	url := p.cfg.Services.Translation.URL
	if url == "" {
		log.Warn("no translation service configured, dubbing source text")
		return transcript.FromSentences(sents, nil), nil
	}

	out := make([]string, len(sents))
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.Render.Workers > 0 {
		g.SetLimit(p.cfg.Render.Workers)
	}
	for i, s := range sents {
		if s.Text == "" {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			text, err := p.http.Translate(gctx, url, clients.TranslateReq{
				Text:   s.Text,
				Source: p.cfg.Language.Source,
				Target: p.cfg.Language.Target,
			})
			if err != nil {
				if cerr := gctx.Err(); cerr != nil {
					return cerr
				}
				log.WithError(err).WithField("sentence", i).Warn("translation failed, keeping source text")
				return nil
			}
			out[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return transcript.FromSentences(sents, out), nil
}
