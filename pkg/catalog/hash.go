package catalog

import (
	"crypto/md5"
	"encoding/hex"
)

// Hash returns a fingerprint of the joined catalogs of langs, in the given
// order. It changes whenever any translation in any fragment changes and is
// independent of file formatting and key order.
func Hash(dir string, langs []string) (string, error) {
	if len(langs) == 0 {
		return "", ErrNoLanguages
	}

	h := md5.New()
	for _, lang := range langs {
		tree, err := Join(dir, lang)
		if err != nil {
			return "", err
		}
		data, err := Encode(tree)
		if err != nil {
			return "", err
		}
		_, _ = h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
