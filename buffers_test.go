package fluidsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumPassesMatchesTimestampSlotBudget(t *testing.T) {
	assert.Equal(t, len(passOrder), numPasses)
}

func TestStructToBytesPacksSettingsTo64Bytes(t *testing.T) {
	b := structToBytes(DefaultSettings())
	assert.Len(t, b, 64, "Settings is the 64-byte packed uniform record §4.4 requires")
}

func TestStructToBytesPacksMouseState(t *testing.T) {
	m := NewMouseState(DefaultSettings().WindowSize, true, false)
	b := structToBytes(m)
	assert.Len(t, b, 16)
}

func TestStructToBytesPacksSliceOfUint32(t *testing.T) {
	data := []uint32{1, 2, 3, Sentinel}
	b := structToBytes(data)
	assert.Len(t, b, 16)
}
