package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCeilHour(t *testing.T) {
	cases := []struct {
		in     time.Time
		expect time.Time
	}{
		{
			in:     time.Date(2024, time.September, 13, 17, 41, 51, 0, Location),
			expect: time.Date(2024, time.September, 13, 18, 0, 0, 0, Location),
		},
		{
			in:     time.Date(2024, time.September, 13, 18, 0, 0, 0, Location),
			expect: time.Date(2024, time.September, 13, 18, 0, 0, 0, Location),
		},
		{
			in:     time.Date(2024, time.September, 13, 23, 59, 59, 0, Location),
			expect: time.Date(2024, time.September, 14, 0, 0, 0, 0, Location),
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, CeilHour(test.in))
	}
}
