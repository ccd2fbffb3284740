// Package component defines the lifecycle contract for long-lived
// infrastructure handles (a Redis client, a telemetry exporter, ...) and a
// registry that starts them in order and stops them in reverse.
//
//	reg := component.NewRegistry(log)
//	_ = reg.Register(redis.NewComponent(cfg, log))
//	if err := reg.StartAll(ctx); err != nil {
//	    return err
//	}
//	defer reg.StopAll(context.Background())
package component
