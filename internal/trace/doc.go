// Package trace records what the extgen pipeline is doing and for how long.
//
// Tracers receive begin/end/point events tagged with a scope:
//
//   - ScopeDriver: one CLI command
//   - ScopePass: a stage over all files (parse, sema, lint, generate)
//   - ScopeFile: work on a single file
//   - ScopeDecl: work on a single declaration
//
// The level decides which scopes are emitted (phase: driver and pass,
// detail: plus file, debug: everything). Events are written immediately by a
// StreamTracer, kept in memory by a RingTracer, or both.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
//	defer span.End("")
package trace
