// Package http implements the HTTP handlers of the dashboard service.
// Handlers are a thin layer over the services package: they parse the
// request, call the service and render the result.
//
// # Routes
//
//	GET  /api/dashboard             dataset snapshot info
//	GET  /api/dashboard/options     control bounds, steps, defaults, colours
//	GET  /api/dashboard/view        view model for query constraints
//	POST /api/dashboard/view        view model for a JSON constraint set
//	GET  /api/dashboard/stats       per-category statistics
//	GET  /api/dashboard/counts      per-category counts
//	GET  /api/dashboard/extremes    top and bottom decile rows
//	GET  /api/dashboard/rows        filtered rows, paged by limit and offset
//	GET  /api/dashboard/export      filtered rows as csv or xlsx
//	GET  /api/health[/ready|/live]  health probes
//	GET  /api/version               build information
//	GET  /api/metrics/system        runtime and hub statistics
//	GET  /ws                        WebSocket view stream
//
// # Query constraints
//
// GET endpoints accept the same constraint parameters:
//
//	categories=GEN,OBC   repeated or comma separated; empty selects nothing
//	written=900,1200     inclusive "lo,hi" ranges; inverted ranges match nothing
//	interview=100,200
//	year=2010,2015
//	rank=1,500
//
// Omitted parameters take the dashboard defaults.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/dataset/unavailable",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "Dataset is not loaded",
//	    "instance": "/api/dashboard/view",
//	    "error_code": "DATASET_UNAVAILABLE"
//	}
package http
