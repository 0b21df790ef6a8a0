package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`80`, 80},
		{`0`, 0},
		{`-3.25`, -3.25},
		{`"80"`, 80},
		{`" 60.5 "`, 60.5},
		{`"1e2"`, 100},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, float64(n))
		})
	}
}

func TestNumberUnmarshalRejectsNonNumbers(t *testing.T) {
	for _, in := range []string{`"abc"`, `""`, `true`, `{}`, `"NaN"`, `"Inf"`} {
		t.Run(in, func(t *testing.T) {
			var n Number
			assert.Error(t, json.Unmarshal([]byte(in), &n))
		})
	}
}

func TestNumberNullLeavesPointerNil(t *testing.T) {
	var req struct {
		Humidity *Number `json:"humidity"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"humidity": null}`), &req))
	assert.Nil(t, req.Humidity)
}
