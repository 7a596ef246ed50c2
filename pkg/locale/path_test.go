package locale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want locale.Identity
	}{
		{name: "locale directory", path: "en/common.json", want: locale.Identity{Locale: "en", Namespace: "common"}},
		{name: "nested root", path: "/srv/app/locales/fr/errors.json", want: locale.Identity{Locale: "fr", Namespace: "errors"}},
		{name: "relative prefix", path: "./testLocales/de/ui.json", want: locale.Identity{Locale: "de", Namespace: "ui"}},
		{name: "namespace directory convention", path: "common/en-US.json", want: locale.Identity{Locale: "common", Namespace: "en-US"}},
		{name: "single segment", path: "common.json", want: locale.Identity{Namespace: "common"}},
		{name: "dots in namespace", path: "en/app.v2.json", want: locale.Identity{Locale: "en", Namespace: "app.v2"}},
		{name: "only trailing extension is stripped", path: "en/x.json.json", want: locale.Identity{Locale: "en", Namespace: "x.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, locale.ResolvePath(tt.path))
		})
	}

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()
		p := "locales/en/common.json"
		require.Equal(t, locale.ResolvePath(p), locale.ResolvePath(p))
	})
}

func TestIsLocaleFile(t *testing.T) {
	t.Parallel()

	require.True(t, locale.IsLocaleFile("en/common.json"))
	require.False(t, locale.IsLocaleFile("en/common.yaml"))
	require.False(t, locale.IsLocaleFile("en/common.json.swp"))
	require.False(t, locale.IsLocaleFile("en"))
}
