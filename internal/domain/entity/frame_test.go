package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameSelectionTimeAt(t *testing.T) {
	sel := FrameSelection{SrcFPS: 25}
	require.InDelta(t, 0.0, sel.TimeAt(0), 1e-9)
	require.InDelta(t, 4.0, sel.TimeAt(100), 1e-9)

	broken := FrameSelection{SrcFPS: 0}
	require.InDelta(t, 0.0, broken.TimeAt(100), 1e-9)
}
