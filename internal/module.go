package internal

import (
	"slices"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// RootModule is the name of the module holding the root fragment.
const RootModule = "root"

// Module is a named set of translation scopes loaded together.
type Module struct {
	Name   string
	Scopes []string
}

// Root returns the root module. The root fragment is always part of it.
func Root(scopes ...string) Module {
	return Module{
		Name:   RootModule,
		Scopes: append([]string{""}, scopes...),
	}
}

// Feature returns a lazily loaded module.
//
// Example:
//
//	internal.Feature("admin", "ADMIN", "HOME.COMMON")
func Feature(name string, scopes ...string) Module {
	return Module{
		Name:   name,
		Scopes: slices.Clone(scopes),
	}
}

// DefaultModules returns the root module and the admin and home features.
func DefaultModules() []Module {
	return []Module{
		Root(),
		Feature("admin", "ADMIN", "HOME.COMMON"),
		Feature("home", "HOME", "HOME.COMMON"),
	}
}

// module is a Module bound to its loader, missing handler and translator.
type module struct {
	loader     *i18n.Loader
	handler    *i18n.MissingHandler
	translator *i18n.Translator
	Module
}

func (a *App) newModule(m Module) *module {
	opts := []i18n.LoaderOption{i18n.WithLoaderLogger(a.logger)}
	if a.strict {
		opts = append(opts, i18n.WithStrictScopes())
	}

	loader := i18n.NewLoader(a.fetcher, a.state, m.Scopes, opts...)
	handler := i18n.NewMissingHandler(loader, i18n.WithHandlerLogger(a.logger))

	return &module{
		Module:  m,
		loader:  loader,
		handler: handler,
		translator: i18n.NewTranslator(a.store, loader,
			i18n.WithMissingTranslationHandler(handler),
		),
	}
}
