package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSeededHasAllSingleBytes(t *testing.T) {
	d := NewSeeded()
	require.Equal(t, 256, d.Len())

	for b := 0; b < 256; b++ {
		seq := []byte{byte(b)}
		require.True(t, d.Contains(seq))
		require.Equal(t, Id(b), d.IDOf(seq))
		require.Equal(t, seq, d.SeqOf(Id(b)))
	}
}

func TestInsertGrowsDensely(t *testing.T) {
	d := New()
	id0 := d.Insert([]byte("ab"))
	id1 := d.Insert([]byte("abc"))

	require.Equal(t, Id(0), id0)
	require.Equal(t, Id(1), id1)
	require.Equal(t, 2, d.Len())
	require.Equal(t, []byte("ab"), d.SeqOf(id0))
}

func TestInsertDuplicatePanics(t *testing.T) {
	d := New()
	d.Insert([]byte("x"))
	require.Panics(t, func() { d.Insert([]byte("x")) })
}

func TestIDOfAbsentPanics(t *testing.T) {
	d := New()
	require.Panics(t, func() { d.IDOf([]byte("missing")) })
}

func TestSeqOfOutOfRangePanics(t *testing.T) {
	d := New()
	require.Panics(t, func() { d.SeqOf(0) })
}

func TestEntriesOrderedByID(t *testing.T) {
	d := New()
	d.Insert([]byte("a"))
	d.Insert([]byte("b"))
	d.Insert([]byte("c"))

	entries := d.Entries()
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, entries)
}
