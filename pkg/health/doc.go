// Package health runs readiness checks for the development server and the
// CLI.
//
// A check is any func(context.Context) error. [Run] executes a set of named
// [Checks] concurrently under one timeout and aggregates the result;
// [ReadinessHandler] exposes the same run over HTTP and [LivenessHandler]
// always answers OK.
//
//	checks := health.Checks{
//	    "components": health.DirCheck("./site"),
//	    "cache":      func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
//	}
//	r.Get("/readyz", health.ReadinessHandler(checks, health.WithTimeout(2*time.Second)))
//
// Handlers answer plain text by default. Clients asking for JSON through the
// Accept header or ?format=json get the full [Response]:
//
//	{"checks":{"cache":{"status":"healthy"}},"status":"healthy"}
//
// A failing readiness run answers 503 and lists the failed check names.
package health
