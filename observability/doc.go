// Package observability installs OpenTelemetry tracer and meter providers
// and offers small helpers over the global providers.
//
//	providers, err := observability.Setup(ctx, cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer providers.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "cache.warm")
//	defer span.End()
//
// With Enabled=false Setup installs nothing and returns no-op providers, so
// instrumented code needs no conditionals.
package observability
