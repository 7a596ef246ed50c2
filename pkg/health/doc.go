// Package health provides HTTP handlers for liveness and readiness checks.
//
// [LivenessHandler] always answers OK while the process is up.
// [ReadinessHandler] runs a set of named [Checks] concurrently with a shared
// timeout and answers 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"locales_root": health.DirReadable(cfg.LocalesRoot),
//		"watcher":      watcherCheck,
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK", or "Service Unavailable: " followed by the
// failed check names) unless the client asks for JSON with an
// Accept: application/json header or ?format=json. JSON responses carry the
// per-check results and whatever [WithInfo] reports, for example whether
// the locale engine is watching or running scan-only.
package health
