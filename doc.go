// Package lingua serves lazily loaded, scoped translations.
//
// Translations are split into fragments, one per language and scope, stored
// as {prefix}/{scope}/{lang}.json next to the root {prefix}/{lang}.json. An
// application is a set of modules. Each module names the scopes it needs and
// loads them only when one of its keys is requested; fragments shared by
// several modules are fetched once.
//
// # Quick Start
//
//	//go:embed i18n
//	var fragments embed.FS
//
//	app := lingua.New(i18n.NewFSFetcher(fragments),
//	    lingua.WithLanguages("ru", "en"),
//	    lingua.WithModules(
//	        lingua.Root(),
//	        lingua.Feature("admin", "ADMIN", "HOME.COMMON"),
//	        lingua.Feature("home", "HOME", "HOME.COMMON"),
//	    ),
//	    lingua.WithStaticFragments(fragments),
//	)
//
//	if err := app.Run(":8080", lingua.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// Then:
//
//	GET /admin/t/ADMIN.TITLE?lang=en          {"key":"ADMIN.TITLE","lang":"en","value":"Admin"}
//	GET /home/t/HOME.COMMON.HELLO?p.name=Ivan {"key":"HOME.COMMON.HELLO","lang":"ru","value":"Привет, Ivan"}
//	GET /home/translations                    the whole tree registered for the language
//	POST /i18n/reload                         drop everything and load again
//
// # Fragment sources
//
// Any i18n.Fetcher can feed an application: i18n.HTTPFetcher for a CDN,
// i18n.FSFetcher for embedded or on-disk files, i18n.ObjectFetcher for S3
// compatible storage (pkg/storage). i18n.CachingFetcher adds a memory or
// Redis fragment cache (pkg/cache); register the cache with
// WithFragmentCache so reloads empty it.
//
// # Packages
//
//   - pkg/i18n: loader, missing translation handler, store and translator
//   - pkg/cache: fragment caches
//   - pkg/catalog: join, split, hash and push of fragment directories
//   - pkg/storage: S3 object storage
//   - pkg/redis: Redis connection helpers
//   - pkg/logger: slog setup with context extractors and Sentry
//   - pkg/config: environment configuration
//   - pkg/health: liveness and readiness probes
package lingua
