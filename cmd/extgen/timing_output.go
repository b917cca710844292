package main

import (
	"fmt"
	"io"
	"time"

	"extgen/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) error {
	if out == nil {
		return nil
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%-9s %.1f ms\n", stage, toMillis(timings.Duration(stage))); err != nil {
			return err
		}
	}
	total := timings.Sum(buildpipeline.Stages...)
	_, err := fmt.Fprintf(out, "%-9s %.1f ms\n", "total", toMillis(total))
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
