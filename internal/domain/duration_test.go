package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int64
	}{
		{input: "1:30", want: 90_000},
		{input: "0:59", want: 59_000},
		{input: "90:00", want: 5_400_000},
		{input: "45", want: 45_000},
		{input: "45.5", want: 45_500},
		{input: "10m", want: 600_000},
		{input: "10 m", want: 600_000},
		{input: "2h", want: 7_200_000},
		{input: "1.5h", want: 5_400_000},
		{input: "3 hrs", want: 10_800_000},
		{input: "90 sec", want: 90_000},
		{input: "5 minutes", want: 300_000},
		{input: "2 Hours", want: 7_200_000},
		{input: "  10M  ", want: 600_000},
		{input: "1 second", want: 1_000},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got := ParseFlexible(tc.input)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestParseFlexibleRejects(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "   ", "abc", "10x", "-5m", "1:60", "1:5", "m10", "10mm", "1:30:00", "ten minutes"}

	for _, input := range inputs {
		assert.Nil(t, ParseFlexible(input), "input %q", input)
	}
}
