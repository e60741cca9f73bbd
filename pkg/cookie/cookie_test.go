package cookie_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/cookie"
)

func TestCookie_String(t *testing.T) {
	t.Parallel()

	t.Run("bare name and value", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "theme=dark", cookie.New("theme", "dark").String())
	})

	t.Run("name and value escaping", func(t *testing.T) {
		t.Parallel()
		c := cookie.New("a b=c", "x y;\"z\\")
		require.Equal(t, "a%20b%3Dc=x%20y%3B%22z%5C", c.String())
	})

	t.Run("value keeps characters only names escape", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "k=a/b?c", cookie.New("k", "a/b?c").String())
	})

	t.Run("attribute order", func(t *testing.T) {
		t.Parallel()
		c := cookie.New("id", "1")
		c.Secure = true
		c.SameSite = cookie.SameSiteStrict
		c.Path = "/app"
		c.MaxAge = 60
		c.HTTPOnly = true
		c.Expires = time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
		c.Domain = "example.com"

		require.Equal(t,
			"id=1; Domain=example.com; Expires=Wed, 02 Jan 2030 03:04:05 GMT; HttpOnly; Max-Age=60; Path=/app; SameSite=Strict; Secure",
			c.String())
	})

	t.Run("deletion", func(t *testing.T) {
		t.Parallel()
		c := cookie.Deletion("session")
		require.True(t, c.IsDeletion())
		require.Equal(t, "session=; Max-Age=0", c.String())
	})

	t.Run("same site none", func(t *testing.T) {
		t.Parallel()
		c := cookie.New("x", "y")
		c.SameSite = cookie.SameSiteNone
		require.Equal(t, "x=y; SameSite=None", c.String())
	})
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	got := cookie.ParseHeader("Theme=dark;  lang=en%2DUS ; flag;;empty=")
	require.Equal(t, map[string]string{
		"theme": "dark",
		"lang":  "en-US",
		"flag":  "1",
		"empty": "",
	}, got)
}
