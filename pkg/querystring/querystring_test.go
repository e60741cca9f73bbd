package querystring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/querystring"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"flag without value", "a=1&b", map[string]string{"a": "1", "b": "1"}},
		{"first occurrence wins", "a=1&a=2", map[string]string{"a": "1"}},
		{"plus and percent", "q=hello+world%21", map[string]string{"q": "hello world!"}},
		{"empty string", "", map[string]string{}},
		{"empty segments skipped", "&&a=1&", map[string]string{"a": "1"}},
		{"split on first equals", "a=b=c", map[string]string{"a": "b=c"}},
		{"encoded key", "my%20key=v", map[string]string{"my key": "v"}},
		{"empty value", "a=", map[string]string{"a": ""}},
		{"malformed escape dropped", "q=a%zzb&x=1", map[string]string{"q": "ab", "x": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, querystring.Parse(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("lower and upper hex", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "//", querystring.Decode("%2f%2F"))
	})

	t.Run("skips malformed escape", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "100 off", querystring.Decode("100%zz+off"))
		require.Equal(t, "abcdef", querystring.Decode("abc%zzdef"))
		require.Equal(t, "abcdef", querystring.Decode("abc%4zdef"))
		require.Equal(t, "abc!", querystring.Decode("abc%z4%21"))
	})

	t.Run("stops at truncated escape", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "abc", querystring.Decode("abc%4"))
		require.Equal(t, "abc", querystring.Decode("abc%"))
	})

	t.Run("plain string untouched", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "plain", querystring.Decode("plain"))
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("controls and percent always escaped", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "a%0Ab%25c%7F", querystring.Encode("a\nb%c\x7f", "", false))
	})

	t.Run("plus for space", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "a+b", querystring.Encode("a b", " ", true))
		require.Equal(t, "a%20b", querystring.Encode("a b", " ", false))
	})

	t.Run("round trip through decode", func(t *testing.T) {
		t.Parallel()
		in := "x=1&y=two words/ok?"
		require.Equal(t, in, querystring.Decode(querystring.Encode(in, querystring.QueryDisallowed, true)))
	})
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	m := map[string]string{"b": "2", "a": "x y"}
	require.Equal(t, "a=x+y&b=2", querystring.EncodeQuery(m, []string{"a", "missing", "b"}))
}
