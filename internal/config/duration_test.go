package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want time.Duration
	}{
		{in: 500, want: 500 * time.Millisecond},
		{in: "30s", want: 30 * time.Second},
		{in: "500ms", want: 500 * time.Millisecond},
		{in: "2m", want: 2 * time.Minute},
		{in: "1500", want: 1500 * time.Millisecond},
		{in: nil, want: 0},
	}
	for _, c := range cases {
		got, err := parseDurationValue(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestParseDurationValue_Invalid(t *testing.T) {
	_, err := parseDurationValue("nonsense")
	assert.Error(t, err)

	_, err = parseDurationValue(true)
	assert.Error(t, err)
}
