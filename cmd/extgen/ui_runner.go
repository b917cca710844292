package main

import (
	"context"
	"fmt"
	"os"

	"extgen/internal/buildpipeline"
	"extgen/internal/ui"
)

type generateOutcome struct {
	result buildpipeline.GenerateResult
	err    error
}

// runGenerateWithUI runs the pipeline in the background and renders its
// events until the pipeline closes the channel.
func runGenerateWithUI(ctx context.Context, title string, req *buildpipeline.GenerateRequest) (buildpipeline.GenerateResult, error) {
	if req == nil {
		return buildpipeline.GenerateResult{}, fmt.Errorf("missing generate request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Generate(ctx, &reqCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(os.Stdout, title, nil, events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
