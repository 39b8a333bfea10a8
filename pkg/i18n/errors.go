package i18n

import "errors"

var (
	ErrEmptyLanguage     = errors.New("i18n: language cannot be empty")
	ErrFetchFailed       = errors.New("i18n: failed to fetch translation fragment")
	ErrInvalidFragment   = errors.New("i18n: invalid translation fragment")
	ErrScopeOverlap      = errors.New("i18n: translation scopes overlap")
	ErrKeyNotFound       = errors.New("i18n: translation key not found")
	ErrNotTemplate       = errors.New("i18n: translation value is not a string")
	ErrMalformedTemplate = errors.New("i18n: malformed translation template")
)
