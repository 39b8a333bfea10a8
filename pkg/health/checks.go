package health

import (
	"context"
	"errors"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// FragmentSource returns a check that fetches the root fragment of lang,
// proving that the translation source is reachable and serves valid data.
func FragmentSource(f i18n.Fetcher, lang string) CheckFunc {
	return func(ctx context.Context) error {
		if _, err := f.Fetch(ctx, lang, ""); err != nil {
			return errors.Join(ErrCheckFailed, err)
		}
		return nil
	}
}
