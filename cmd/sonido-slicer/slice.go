package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-slicer/logging"
	"github.com/RyanBlaney/sonido-slicer/slicer"
)

func newSliceCommand(a *app) *cobra.Command {
	var (
		onsets        onsetFlags
		slices        int
		bpm           float64
		beatsPerSlice int
		beatDuration  float64
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "slice <file> <output-dir>",
		Short: "Cut a loop into WAV slices",
		Long: `Cut a loop into WAV slices named <stem>_slice_NNN.wav.

Slice points come from the first of these that is set:
  --threshold   detected onsets
  --bpm         one slice every --beats beats
  --beat-duration
  --slices      equal parts

The other detection flags (--method, --sensitivity, --min-spacing,
--frame-size, --hop-size, --transform, --window) only apply to onset
slicing and are rejected otherwise. Onset slicing is enabled by
--threshold or by use_onsets in the config file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config.SlicerConfig()
			f := cmd.Flags()

			if f.Changed("slices") {
				cfg.Slices = slices
			}
			if f.Changed("bpm") {
				cfg.BPM = bpm
			}
			if f.Changed("beats") {
				cfg.BeatsPerSlice = beatsPerSlice
			}
			if f.Changed("beat-duration") {
				cfg.BeatDuration = beatDuration
			}

			if f.Changed("threshold") {
				oc := a.config.Onset
				if cfg.Onsets != nil {
					oc = *cfg.Onsets
				}
				if err := onsets.apply(f, &oc); err != nil {
					return err
				}
				cfg.Onsets = &oc
			} else if cfg.Onsets != nil {
				if err := onsets.apply(f, cfg.Onsets); err != nil {
					return err
				}
			} else if name, ok := onsets.changed(f, "threshold"); ok {
				return fmt.Errorf("--%s only applies to onset slicing; set --threshold or use_onsets", name)
			}

			a.logger.Debug("Slicing loop", logging.Fields{
				"file": args[0],
				"mode": string(cfg.Mode()),
			})

			written, err := slicer.SliceLoop(args[0], args[1], cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, written)
			}
			for _, s := range written {
				fmt.Fprintf(out, "%s\t%.6f\t%.6f\n", s.Path, s.Start, s.End)
			}
			return nil
		},
	}

	onsets.register(cmd.Flags())
	cmd.Flags().IntVarP(&slices, "slices", "n", slicer.DefaultSlices, "Number of equal slices")
	cmd.Flags().Float64Var(&bpm, "bpm", 0, "Tempo in beats per minute")
	cmd.Flags().IntVar(&beatsPerSlice, "beats", slicer.DefaultBeatsPerSlice, "Beats per slice with --bpm")
	cmd.Flags().Float64Var(&beatDuration, "beat-duration", 0, "Slice length in seconds")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the written slices as JSON")

	return cmd
}
