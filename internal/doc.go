// Package internal implements the lingua HTTP application.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/lingua" instead, which re-exports the public API.
//
// # Modules
//
// An App serves a fixed set of modules. Each module owns a loader for its
// scopes and a missing translation handler; all of them share one load state
// and one translation store, so a fragment needed by two modules is fetched
// once:
//
//	app := internal.New(fetcher,
//	    internal.WithLanguages("ru", "en"),
//	    internal.WithModules(
//	        internal.Root(),
//	        internal.Feature("admin", "ADMIN", "HOME.COMMON"),
//	        internal.Feature("home", "HOME", "HOME.COMMON"),
//	    ),
//	)
//
// The root module is preloaded for the default language on start. Feature
// modules load on the first key they cannot resolve.
//
// # Routes
//
//	GET  /{module}/t/{key}      translate one key, parameters from ?p.name=value
//	GET  /{module}/translations translations registered for the request language
//	POST /i18n/reload           drop everything loaded and preload the root again
//	GET  /i18n/*                fragment files (WithStaticFragments)
//	GET  /health/live           liveness probe
//	GET  /health/ready          readiness probe
//
// The request language comes from ?lang, the lang cookie, Accept-Language or
// the default language, in that order.
//
// # Lifecycle
//
// Run preloads the root module, starts the server and blocks until SIGINT or
// SIGTERM, then shuts the server down gracefully and runs the shutdown hooks.
package internal
