// Package services implements the business logic layer of the dashboard.
// It sits between the transports (HTTP handlers, WebSocket clients and the
// CLI) and the dataset and rendering packages.
//
// # Snapshots
//
// Every operation reads the current dataset snapshot exactly once, so one
// request is always answered from a single consistent table even when the
// watcher publishes a reload concurrently. Before the first load every read
// fails with ErrDatasetNotLoaded.
//
// # Constraints
//
// Operations accept a domain.ConstraintsRequest. Fields left unset are
// filled from the dashboard defaults of the current snapshot; an explicit
// empty category list selects nothing. Inverted ranges are legal and
// produce empty views, never errors.
//
// # Available Services
//
//	- DashboardService: options, views, aggregates, rows and exports
//	- HealthService: health, readiness, liveness and version
//
// # Testing
//
// Services are tested against a real dataset.Store loaded from fixtures,
// with metrics recorders mocked through testify:
//
//	store := dataset.NewStore()
//	store.Publish(ds)
//	svc := NewDashboardService(store, dashboard.NewRenderer(settings), recorder, logger)
package services
