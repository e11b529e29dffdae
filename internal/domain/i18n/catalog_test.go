package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogKeyParity(t *testing.T) {
	fa := Strings("fa")
	ar := Strings("ar")
	require.NotEmpty(t, fa)
	require.Equal(t, len(fa), len(ar), "both locales must cover the same keys")
	for key := range fa {
		require.Contains(t, ar, key, "key %q missing from ar", key)
		require.NotEmpty(t, ar[key])
		require.NotEmpty(t, fa[key])
		require.NotEqual(t, fa[key], ar[key], "key %q has identical text in both locales", key)
	}
}

func TestDirectionIsAlwaysRTL(t *testing.T) {
	require.Equal(t, "rtl", Direction)
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	require.Equal(t, Strings("fa"), Strings("en"))
	require.False(t, Supported("en"))
	require.True(t, Supported("fa"))
	require.True(t, Supported("ar"))
}

func TestTranslateWatering(t *testing.T) {
	require.Equal(t, "متوسط", TranslateWatering("fa", "Average"))
	require.Equal(t, "متوسط", TranslateWatering("ar", "Average"))
	require.Equal(t, "کم", TranslateWatering("fa", "Minimum"))
	// Identity fallback for values absent from the table.
	require.Equal(t, "Torrential", TranslateWatering("fa", "Torrential"))
	require.Equal(t, "Average", TranslateWatering("en", "Average"))
}

func TestTranslateSunlight(t *testing.T) {
	got := TranslateSunlight("fa", []string{"Part shade", "full sun"})
	require.Equal(t, []string{"نیم‌سایه", "آفتاب کامل"}, got)

	got = TranslateSunlight("ar", []string{"full shade"})
	require.Equal(t, []string{"ظل كامل"}, got)

	// Unknown values pass through in place, order preserved.
	got = TranslateSunlight("fa", []string{"moonlight", "full sun"})
	require.Equal(t, []string{"moonlight", "آفتاب کامل"}, got)
}

func TestTMissingKeyReturnsKey(t *testing.T) {
	require.Equal(t, "doesNotExist", T("fa", "doesNotExist"))
	require.NotEqual(t, "identify", T("fa", "identify"))
}
