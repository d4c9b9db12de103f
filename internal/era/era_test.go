package era

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

func TestImmortal(t *testing.T) {
	e := Immortal()
	assert.True(t, e.IsImmortal())
	assert.Equal(t, uint64(0), e.Birth(12345))
	assert.Equal(t, uint64(math.MaxUint64), e.Death(12345))

	b, err := scale.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, b)

	var decoded Era
	require.NoError(t, scale.Unmarshal(b, &decoded))
	assert.Equal(t, e, decoded)
}

func TestMortal(t *testing.T) {
	testCases := []struct {
		period, current uint64
		expected        Era
		encoded         []byte
	}{
		{64, 100, Era{Period: 64, Phase: 36}, []byte{0x45, 0x02}},
		{64, 42, Era{Period: 64, Phase: 42}, []byte{0xa5, 0x02}},
		{32768, 20000, Era{Period: 32768, Phase: 20000}, []byte{0x4e, 0x9c}},
		// phase is quantized to multiples of 16
		{65536, 100001, Era{Period: 65536, Phase: 34464}, []byte{0xaf, 0x86}},
		// periods are rounded up to powers of two and clamped
		{5, 9, Era{Period: 8, Phase: 1}, []byte{0x12, 0x00}},
		{0, 7, Era{Period: 4, Phase: 3}, []byte{0x31, 0x00}},
		{1 << 20, 3, Era{Period: 65536, Phase: 0}, []byte{0x0f, 0x00}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("mortal(%d,%d)", tc.period, tc.current), func(t *testing.T) {
			e := Mortal(tc.period, tc.current)
			assert.Equal(t, tc.expected, e)

			b, err := scale.Marshal(e)
			require.NoError(t, err)
			assert.Equal(t, tc.encoded, b)

			var decoded Era
			require.NoError(t, scale.Unmarshal(b, &decoded))
			assert.Equal(t, e, decoded)
		})
	}
}

func TestBirthDeath(t *testing.T) {
	e := Mortal(64, 100)
	assert.Equal(t, uint64(100), e.Birth(100))
	assert.Equal(t, uint64(164), e.Death(100))

	// later blocks in the same window share the birth block
	assert.Equal(t, uint64(100), e.Birth(163))
	assert.Equal(t, uint64(164), e.Birth(164))
	// before the phase the era is born at the phase itself
	assert.Equal(t, uint64(36), e.Birth(10))
}

func TestQuantizationLaw(t *testing.T) {
	currents := []uint64{0, 1, 3, 63, 64, 100, 4095, 4096, 65535, 65536, 1_000_003, math.MaxUint32}
	for period := uint64(MinPeriod); period <= MaxPeriod; period <<= 1 {
		for _, current := range currents {
			e := Mortal(period, current)

			require.Less(t, e.Phase, e.Period)
			birth := e.Birth(current)
			assert.LessOrEqual(t, birth, current, "period %d current %d", period, current)
			assert.Equal(t, birth+e.Period, e.Death(current))

			b, err := scale.Marshal(e)
			require.NoError(t, err)
			require.Len(t, b, 2)

			var decoded Era
			require.NoError(t, scale.Unmarshal(b, &decoded))
			assert.Equal(t, e, decoded)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	testCases := map[string][]byte{
		"period below minimum": {0x10, 0x00},
		"phase equals period":  {0x41, 0x00},
		"truncated":            {0x05},
		"empty":                {},
	}
	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			var e Era
			err := e.UnmarshalSCALE(bytes.NewReader(input))
			assert.Error(t, err)
		})
	}

	var e Era
	assert.ErrorIs(t, e.UnmarshalSCALE(bytes.NewReader([]byte{0x41, 0x00})), ErrInvalidEra)
}

func TestEraInStruct(t *testing.T) {
	type signed struct {
		Index uint64 `scale:"compact"`
		Era   Era
		Tail  uint8
	}
	in := signed{Index: 1, Era: Mortal(256, 1000), Tail: 9}

	b, err := scale.Marshal(in)
	require.NoError(t, err)

	var out signed
	require.NoError(t, scale.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
