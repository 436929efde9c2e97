// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package classify

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// LoadVocabulary reads a vocabulary override file and merges it over the
// built-in tables. Only the tables present in the file replace their
// defaults; absent tables keep the built-in word lists. A missing file is
// not an error and yields the defaults unchanged.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vocab, nil
		}
		return vocab, fmt.Errorf("classify: read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, fmt.Errorf("classify: parse vocabulary file %s: %w", path, err)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&vocab.Price, override.Price)
	merge(&vocab.Product, override.Product)
	merge(&vocab.PersonInRole, override.PersonInRole)
	merge(&vocab.Law, override.Law)
	merge(&vocab.Recency, override.Recency)
	merge(&vocab.Government, override.Government)
	merge(&vocab.CurrentAffairs, override.CurrentAffairs)
	merge(&vocab.Sports, override.Sports)
	merge(&vocab.TechGlobal, override.TechGlobal)
	merge(&vocab.WebTriggers, override.WebTriggers)
	merge(&vocab.Immediacy, override.Immediacy)
	merge(&vocab.Future, override.Future)
	merge(&vocab.Greetings, override.Greetings)

	return vocab, nil
}
