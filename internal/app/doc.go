// Package app wires the dashboard service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Bootstrap loads configuration (defaults, YAML file, environment)
//	   and initializes the JSON logger
//	2. New creates telemetry providers, the dataset store and loader, the
//	   dashboard, health and WebSocket services, and the HTTP router
//	3. Run loads the results file, then runs the HTTP server, the WebSocket
//	   hub, the runtime metrics collector and, when enabled, the dataset
//	   file watcher under one errgroup
//
// # Usage
//
//	cfg, logger, err := app.Bootstrap("", nil)
//	if err != nil {
//	    return err
//	}
//	a, err := app.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// # Graceful Shutdown
//
// Cancelling the context passed to Run stops the HTTP server within the
// configured shutdown timeout, closes every WebSocket client and flushes
// telemetry. The package never calls os.Exit.
package app
