package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RyanBlaney/sonido-slicer/algorithms/spectral"
	"github.com/RyanBlaney/sonido-slicer/algorithms/windowing"
	"github.com/RyanBlaney/sonido-slicer/logging"
	"github.com/RyanBlaney/sonido-slicer/onset"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

// onsetFlags binds the detection parameters to command flags
type onsetFlags struct {
	threshold   float64
	sensitivity float64
	minSpacing  float64
	method      string
	frameSize   int
	hopSize     int
	transform   string
	window      string
}

func (o *onsetFlags) register(flags *pflag.FlagSet) {
	flags.Float64VarP(&o.threshold, "threshold", "t", onset.DefaultThreshold,
		"Global threshold floor in [0, 1]")
	flags.Float64VarP(&o.sensitivity, "sensitivity", "s", onset.DefaultSensitivity,
		"Multiplier on the adaptive threshold (>= 1, higher is stricter)")
	flags.Float64Var(&o.minSpacing, "min-spacing", onset.DefaultMinSpacing,
		"Minimum seconds between onsets")
	flags.StringVarP(&o.method, "method", "m", onset.DefaultMethod.String(),
		"Detection function: "+strings.Join(onset.MethodNames(), ", "))
	flags.IntVar(&o.frameSize, "frame-size", onset.DefaultFrameSize,
		"Analysis frame length in samples")
	flags.IntVar(&o.hopSize, "hop-size", onset.DefaultHopSize,
		"Frame stride in samples")
	flags.StringVar(&o.transform, "transform", onset.DefaultTransform.String(),
		"Spectral transform: dft, fft, gonum")
	flags.StringVar(&o.window, "window", onset.DefaultWindow.String(),
		"Analysis window: hann, hamming, blackman, rectangular")
}

// changed returns the name of the first detection flag set on the command
// line, ignoring those in skip
func (o *onsetFlags) changed(flags *pflag.FlagSet, skip ...string) (string, bool) {
	names := []string{"threshold", "sensitivity", "min-spacing", "method", "frame-size", "hop-size", "transform", "window"}
	for _, name := range names {
		if flags.Changed(name) && !slices.Contains(skip, name) {
			return name, true
		}
	}
	return "", false
}

// apply overrides cfg with every flag set on the command line
func (o *onsetFlags) apply(flags *pflag.FlagSet, cfg *onset.Config) error {
	if flags.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = o.sensitivity
	}
	if flags.Changed("min-spacing") {
		cfg.MinSpacing = o.minSpacing
	}
	if flags.Changed("method") {
		method, err := onset.ParseMethod(o.method)
		if err != nil {
			return err
		}
		cfg.Method = method
	}
	if flags.Changed("frame-size") {
		cfg.FrameSize = o.frameSize
	}
	if flags.Changed("hop-size") {
		cfg.HopSize = o.hopSize
	}
	if flags.Changed("transform") {
		transform, err := spectral.ParseTransformType(o.transform)
		if err != nil {
			return err
		}
		cfg.Transform = transform
	}
	if flags.Changed("window") {
		window, err := windowing.ParseType(o.window)
		if err != nil {
			return err
		}
		cfg.Window = window
	}
	return cfg.Validate()
}

func newDetectCommand(a *app) *cobra.Command {
	var (
		flags    onsetFlags
		asJSON   bool
		analysis bool
	)

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the onset times of an audio file in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config.Onset
			if err := flags.apply(cmd.Flags(), &cfg); err != nil {
				return err
			}

			data, err := transcode.NewDecoder(&a.config.Decoder).DecodeFile(args[0])
			if err != nil {
				return err
			}

			detector := onset.NewDetector(&cfg).WithLogger(a.logger.WithFields(logging.Fields{
				"component": "onset_detector",
				"file":      args[0],
			}))
			result, err := detector.Analyze(data.Samples, data.SampleRate, data.Channels)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case analysis:
				return writeJSON(out, result)
			case asJSON:
				return writeJSON(out, result.Onsets)
			}

			for _, t := range result.Onsets {
				fmt.Fprintf(out, "%.6f\n", t)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print onsets as a JSON array")
	cmd.Flags().BoolVar(&analysis, "analysis", false,
		"Print the detection function, threshold curve and onsets as JSON")

	return cmd
}
