package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int", 150, 150},
		{"int64", int64(300), 300},
		{"float", 1200.0, 1200},
		{"fraction", 99.9, 99},
		{"string", "768", 768},
		{"padded string", " 42 ", 42},
		{"float string", "640.0", 640},
		{"json number", json.Number("1024"), 1024},
		{"garbage", "wide", 0},
		{"nan", math.NaN(), 0},
		{"true", true, 1},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}
