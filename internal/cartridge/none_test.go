package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoneMBCFlatMapping(t *testing.T) {
	m := newNoneMBC()
	assert.EqualValues(t, 0x4000, m.romOffset(0x4000))
	assert.False(t, m.ramEnabled())
	assert.Equal(t, -1, m.ramOffset(0xA000))
}
