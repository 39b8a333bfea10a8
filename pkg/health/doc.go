// Package health provides HTTP handlers for health probes.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs a set of named [Checks] in parallel under a shared
// deadline and answers 503 when any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "fragments": health.FragmentSource(fetcher, "ru"),
//	    "redis":     redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// asks for JSON with Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "fragments": {"status": "healthy", "duration": "12ms"},
//	    "redis": {"status": "unhealthy", "error": "connection refused", "duration": "1ms"}
//	  }
//	}
package health
