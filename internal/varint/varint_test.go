package varint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   uint16
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"max single byte", 127, []byte{0x7F}},
		{"min double byte", 128, []byte{0x80, 0x80}},
		{"max value", 32767, []byte{0xFF, 0xFF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(nil, tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeOverflow(t *testing.T) {
	_, err := Encode(nil, 0x8000)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestDecodeRoundTrip(t *testing.T) {
	for v := 0; v <= Max; v++ {
		enc, err := Encode(nil, uint16(v))
		require.NoError(t, err)

		wantLen := 1
		if v > 0x7F {
			wantLen = 2
		}
		require.Len(t, enc, wantLen)

		got, rest, err := Decode(enc)
		require.NoError(t, err)
		require.Equal(t, uint16(v), got)
		require.Empty(t, rest)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, _, err := Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)

	_, _, err = Decode([]byte{0x80})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeLeavesRemainder(t *testing.T) {
	buf := []byte{0x7F, 0x80, 0x80, 0x01}
	v, rest, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0x7F), v)

	v, rest, err = Decode(rest)
	require.NoError(t, err)
	require.Equal(t, uint16(0x80), v)

	v, rest, err = Decode(rest)
	require.NoError(t, err)
	require.Equal(t, uint16(0x01), v)
	require.Empty(t, rest)
}
