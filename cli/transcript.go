package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/onevoice/dubsync/transcript"
)

// readJSON decodes the file at path, or stdin for "-".
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func NewSegmentCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "segment <words.json|->",
		Short: "Split word timestamps into sentence and silence segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var words []transcript.WordTimestamp
			if err := readJSON(cmd, args[0], &words); err != nil {
				return err
			}
			segs := deps.Config.Segmenter().Segment(words)
			deps.Log.WithField("segments", len(segs)).Debug("segmented")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(segs)
		},
	}
}

func NewAlignCmd(deps *Dependencies) *cobra.Command {
	var (
		turnsPath string
		asTable   bool
		copyOut   bool
	)
	cmd := &cobra.Command{
		Use:   "align <words.json|->",
		Short: "Attribute speakers and merge segments into sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var words []transcript.WordTimestamp
			if err := readJSON(cmd, args[0], &words); err != nil {
				return err
			}
			var turns []transcript.DiarizationTurn
			if turnsPath != "" {
				if err := readJSON(cmd, turnsPath, &turns); err != nil {
					return err
				}
			}

			sents, err := deps.pipeline().Sentences(cmd.Context(), words, turns)
			if err != nil {
				return err
			}

			var b strings.Builder
			if asTable {
				if err := transcript.WriteTable(&b, transcript.FromSentences(sents, nil)); err != nil {
					return err
				}
			} else {
				for _, s := range sents {
					b.WriteString(s.FormatLine())
					b.WriteByte('\n')
				}
			}
			out := b.String()
			if copyOut {
				if err := clipboard.WriteAll(out); err != nil {
					deps.Log.WithError(err).Warn("could not copy to clipboard")
				}
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&turnsPath, "turns", "t", "", "diarization turns (json array)")
	cmd.Flags().BoolVar(&asTable, "tsv", false, "print a timing table instead of transcript lines")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "also copy the output to the clipboard")
	return cmd
}
