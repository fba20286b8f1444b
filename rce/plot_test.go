package rce

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WritePlot(t *testing.T) {
	atm := grayAtmosphere(t)
	res := solve(t, KindRad, NewGrayModel(), atm)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, Series{Label: "gray", Result: res}, Series{Label: "initial", Result: &Result{Atmosphere: atm}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, WritePlot(&buf), ErrInvalidOption)
}
