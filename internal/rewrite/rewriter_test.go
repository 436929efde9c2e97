// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/llm"
	"github.com/esprit-tdah/tdai/internal/locale"
)

const testYear = 2026

type fakeCompleter struct {
	reply string
	err   error
	seen  []llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message, _ llm.Options) (string, error) {
	f.seen = messages
	return f.reply, f.err
}

func newRewriter(completer Completer) *Rewriter {
	return New(classify.NewDefault(), completer, "gpt-4o-mini")
}

func TestVersusTemplateFromAdvisoryEntities(t *testing.T) {
	r := newRewriter(nil)
	entities := advisor.EntityIntent{
		IsVersusPattern: true,
		Entities: []advisor.Entity{
			{Text: "Ciryl Gane", Type: "person"},
			{Text: "Jon Jones", Type: "person"},
		},
	}

	q := r.Rewrite(context.Background(), "qui gagne entre Ciryl Gane et Jon Jones ?", entities, locale.EnglishUS(), testYear)
	assert.Equal(t, "Ciryl Gane vs Jon Jones result 2026", q)
}

func TestVersusTemplateFromRegexCapture(t *testing.T) {
	r := newRewriter(nil)

	q := r.Rewrite(context.Background(), "Gane contre Jones, ton pronostic ?", advisor.EntityIntent{}, locale.French(), testYear)
	assert.Equal(t, "gane vs jones résultat 2026", q)
}

func TestModelRewriteWins(t *testing.T) {
	fake := &fakeCompleter{reply: "prix abonnement Netflix France 2026"}
	r := newRewriter(fake)

	q := r.Rewrite(context.Background(), "combien coûte Netflix par mois ?", advisor.EntityIntent{}, locale.French(), testYear)
	assert.Equal(t, "prix abonnement Netflix France 2026", q)

	require.Len(t, fake.seen, 2)
	assert.Equal(t, "system", fake.seen[0].Role)
	assert.Contains(t, fake.seen[0].Content, "2026")
}

func TestModelOutputSanitized(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"prix Netflix 2026"`, "prix Netflix 2026"},
		{"Requête : président Sénat 2026", "président Sénat 2026"},
		{"prix Spotify.\nExplication inutile.", "prix Spotify"},
		{"Query: Lakers game result", "Lakers game result"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitize(tc.raw), "raw=%q", tc.raw)
	}
}

func TestFallbackWhenModelUnavailable(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("timeout")}
	r := newRewriter(fake)

	q := r.Rewrite(context.Background(), "dernière loi votée à l'Assemblée Nationale ?", advisor.EntityIntent{}, locale.French(), testYear)
	assert.Equal(t, "dernière loi votée à l'Assemblée Nationale 2026", q)
}

func TestFallbackWhenNoCompleter(t *testing.T) {
	r := newRewriter(nil)

	q := r.Rewrite(context.Background(), "prix de l'essence ?", advisor.EntityIntent{}, locale.French(), testYear)
	assert.Equal(t, "prix de l'essence 2026", q)
}

func TestNeverEmpty(t *testing.T) {
	r := newRewriter(&fakeCompleter{reply: "   "})

	q := r.Rewrite(context.Background(), "   ", advisor.EntityIntent{}, locale.French(), testYear)
	assert.NotEmpty(t, q)
}
