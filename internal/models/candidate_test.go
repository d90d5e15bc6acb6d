package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  float64
		expect string
	}{
		{score: 100, expect: "100.0"},
		{score: 0, expect: "0.0"},
		{score: 65, expect: "65.0"},
		{score: 56.25, expect: "56.25"},
		{score: 23.33, expect: "23.33"},
		{score: 38.8, expect: "38.8"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expect, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, FormatScore(tt.score))
		})
	}
}
