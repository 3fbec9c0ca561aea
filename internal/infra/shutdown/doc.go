// Package shutdown coordinates cleanup when the CLI exits, either on
// SIGINT/SIGTERM or when a long-running command such as the shell
// returns normally.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(metricsServer.Shutdown)
//	defer h.Shutdown()
package shutdown
