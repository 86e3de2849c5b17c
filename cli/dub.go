package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onevoice/dubsync/orchestrator"
)

func NewRenderCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "render <table.tsv>",
		Short: "Render a translated timing table into a dubbed track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), deps.Config.Timeout())
			defer cancel()
			res, err := deps.pipeline().RenderTable(ctx, args[0])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func NewRunCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "run <audio.wav>",
		Short: "Transcribe, translate and dub an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), deps.Config.Timeout())
			defer cancel()
			res, err := deps.pipeline().Run(ctx, args[0])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res *orchestrator.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "task     %s\n", res.TaskID)
	fmt.Fprintf(out, "audio    %s (%.2fs)\n", res.AudioPath, res.Duration)
	fmt.Fprintf(out, "table    %s\n", res.TablePath)
	fmt.Fprintf(out, "speech   %d synthesized, %d silent, %d failed\n",
		res.Report.Synthesized, res.Report.Silent, len(res.Report.Failed))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, "skipped  lines %v\n", res.Skipped)
	}
}
