// Package catalog maintains the on-disk translation catalog that the
// fragment loader consumes.
//
// A catalog directory holds one root file per language and one directory per
// scope:
//
//	i18n/ru.json
//	i18n/ADMIN/ru.json        {"ADMIN": {...}}
//	i18n/HOME/ru.json         {"HOME": {...}} without HOME.COMMON
//	i18n/HOME.COMMON/ru.json  {"HOME": {"COMMON": {...}}}
//
// [Join] assembles the complete tree of a language, [Split] cuts a complete
// tree back into fragments, [Hash] fingerprints the catalog so builds can
// detect translation changes and [Push] publishes the fragments to object
// storage. Files are written with sorted keys and two-space indentation.
package catalog
