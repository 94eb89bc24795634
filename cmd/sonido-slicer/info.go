package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

// fileInfo is the info command's report
type fileInfo struct {
	*transcode.AudioInfo
	Seconds float64 `json:"seconds"`
	PeakDB  float64 `json:"peak_dbfs"`
	RMSDB   float64 `json:"rms_dbfs"`
	P95DB   float64 `json:"p95_dbfs"`
	DC      float64 `json:"dc_offset"`
}

func toDBFS(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func newInfoCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the format and levels of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := transcode.NewDecoder(&a.config.Decoder).DecodeFile(path)
			if err != nil {
				return err
			}

			mono := common.MixdownInt32(data.Samples, data.Channels)
			abs := make([]float64, len(mono))
			for i, v := range mono {
				abs[i] = math.Abs(v)
			}

			info := fileInfo{
				AudioInfo: &transcode.AudioInfo{
					Path:       path,
					Format:     data.Format,
					SampleRate: data.SampleRate,
					Channels:   data.Channels,
					BitDepth:   data.BitDepth,
					Frames:     data.Frames(),
					Duration:   data.Duration,
				},
				PeakDB: toDBFS(common.Max(abs)),
				RMSDB:  toDBFS(common.RMS(mono)),
				P95DB:  toDBFS(common.Percentile(abs, 0.95)),
				DC:     common.Mean(mono),
			}
			info.Seconds = info.AudioInfo.Seconds()

			out := cmd.OutOrStdout()
			if asJSON {
				// JSON has no -Inf
				for _, v := range []*float64{&info.PeakDB, &info.RMSDB, &info.P95DB} {
					if math.IsInf(*v, -1) {
						*v = -math.MaxFloat64
					}
				}
				return writeJSON(out, info)
			}

			fmt.Fprintf(out, "File:        %s\n", info.Path)
			fmt.Fprintf(out, "Format:      %s\n", info.Format)
			fmt.Fprintf(out, "Sample rate: %d Hz\n", info.SampleRate)
			fmt.Fprintf(out, "Channels:    %d\n", info.Channels)
			fmt.Fprintf(out, "Bit depth:   %d\n", info.BitDepth)
			fmt.Fprintf(out, "Frames:      %d\n", info.Frames)
			fmt.Fprintf(out, "Duration:    %s (%.3fs)\n", info.Duration.Round(time.Millisecond), info.Seconds)
			fmt.Fprintf(out, "Peak:        %.1f dBFS\n", info.PeakDB)
			fmt.Fprintf(out, "RMS:         %.1f dBFS\n", info.RMSDB)
			fmt.Fprintf(out, "95th pct:    %.1f dBFS\n", info.P95DB)
			fmt.Fprintf(out, "DC offset:   %.6f\n", info.DC)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
