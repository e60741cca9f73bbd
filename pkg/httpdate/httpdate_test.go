package httpdate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/httpdate"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, time.March, 5, 10, 4, 5, 0, loc)
	require.Equal(t, "Tue, 05 Mar 2024 08:04:05 GMT", httpdate.Format(ts))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("imf fixdate", func(t *testing.T) {
		t.Parallel()
		ts, err := httpdate.Parse("Tue, 05 Mar 2024 08:04:05 GMT")
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, time.March, 5, 8, 4, 5, 0, time.UTC), ts)
	})

	t.Run("obsolete rfc850", func(t *testing.T) {
		t.Parallel()
		ts, err := httpdate.Parse("Tuesday, 05-Mar-24 08:04:05 GMT")
		require.NoError(t, err)
		require.Equal(t, 2024, ts.Year())
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := httpdate.Parse("yesterday")
		require.ErrorIs(t, err, httpdate.ErrInvalid)
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 0, 0, 1, 999_000_000, time.UTC)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), httpdate.Truncate(ts))
}
