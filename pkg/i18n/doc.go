// Package i18n loads translations lazily, one scope at a time, and merges them
// into per-language translation trees.
//
// # Scopes and fragments
//
// Translations are split into fragments. A fragment is the JSON object stored
// for one (language, scope) pair:
//
//	i18n/ru.json              scope ""            (root)
//	i18n/HOME/ru.json         scope "HOME"        -> {"HOME": {...}}
//	i18n/HOME.COMMON/ru.json  scope "HOME.COMMON" -> {"HOME": {"COMMON": {...}}}
//
// A dotted scope addresses a nested insertion point. When a Loader merges its
// fragments it processes the scopes from the shortest to the longest, so
// "HOME.COMMON" refines what "HOME" contributed rather than the other way round.
//
// # Loading
//
// A Loader is created per module with the scopes that module needs. All
// loaders share one LoadState, so a fragment fetched for one module is never
// fetched again for another:
//
//	state := i18n.NewLoadState()
//	fetcher := i18n.NewHTTPFetcher("https://cdn.example.com")
//
//	home := i18n.NewLoader(fetcher, state, []string{"HOME", "HOME.COMMON"})
//	admin := i18n.NewLoader(fetcher, state, []string{"ADMIN", "HOME.COMMON"})
//
//	tree, err := home.GetTranslation(ctx, "ru") // fetches HOME and HOME.COMMON
//	tree, err = admin.GetTranslation(ctx, "ru") // fetches ADMIN only
//
// Fragments can come from HTTP (HTTPFetcher), any fs.FS with JSON or YAML files
// (FSFetcher) or object storage (ObjectFetcher). CachingFetcher puts a
// fragment cache in front of any of them.
//
// # Missing translations
//
// A Translator resolves keys against the shared Store. When a key is absent,
// its MissingTranslationHandler is asked. MissingHandler loads the module's
// translations for the effective language on the first miss, registers them
// in the Store and answers every concurrent and later miss from that single
// load. Keys that still cannot be resolved are returned unchanged:
//
//	store := i18n.NewStore(i18n.WithDefaultLanguage("ru"))
//	tr := i18n.NewTranslator(store, admin,
//		i18n.WithMissingTranslationHandler(i18n.NewMissingHandler(admin)),
//	)
//
//	tr.T(ctx, "ADMIN.TITLE")                          // "Админ"
//	tr.T(ctx, "HOME.COMMON.HELLO", i18n.M{"name": "Ivan"}) // "Привет, Ivan"
//	tr.T(ctx, "NO.SUCH.KEY")                          // "NO.SUCH.KEY"
//
// The effective language is the one attached with WithLanguage, else the
// store's current language, else its default language.
//
// # Teardown
//
// Loader.Close clears the shared LoadState. Combined with Store.Reset and
// MissingHandler.Reset it forces a complete reload on the next lookup.
package i18n
