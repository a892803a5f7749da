// Package dict implements the append-only, order-insertion-indexed
// dictionary shared by every stage of the record-archive compressor:
// a byte-sequence-to-id map during encode, and an id-to-bytes array
// once sealed for the writer's offset table.
//
// The encoder-side map is a plain Go map keyed by string(seq); the
// teacher's BER/PER readers (internal/protocol/encoding) get away with
// fixed-shape ASN.1 fields, but a variable-length byte-sequence key
// needs comparable Go values, so strings stand in for []byte here.
package dict

import "fmt"

// Id names a dictionary entry. Dense and non-negative within a sealed
// dictionary.
type Id int

// Dict is an append-only mapping between byte sequences and ids.
// The zero value is not ready for use; call New or NewSeeded.
type Dict struct {
	toID  map[string]Id
	bytes [][]byte // index by Id, populated lazily via Insert order
}

// New returns an empty dictionary.
func New() *Dict {
	return &Dict{toID: make(map[string]Id)}
}

// NewSeeded returns a dictionary preloaded with the 256 single-byte
// seed entries, id == byte value, as required by spec.md §3.
func NewSeeded() *Dict {
	d := &Dict{
		toID:  make(map[string]Id, 256),
		bytes: make([][]byte, 0, 256),
	}
	for b := 0; b < 256; b++ {
		d.Insert([]byte{byte(b)})
	}
	return d
}

// Len reports the number of entries.
func (d *Dict) Len() int { return len(d.bytes) }

// Contains reports whether seq is already present.
func (d *Dict) Contains(seq []byte) bool {
	_, ok := d.toID[string(seq)]
	return ok
}

// IDOf returns the id of seq. Panics if seq is not present: callers
// must check Contains first, per spec.md §4.2.
func (d *Dict) IDOf(seq []byte) Id {
	id, ok := d.toID[string(seq)]
	if !ok {
		panic(fmt.Sprintf("dict: id_of called for absent sequence %q", seq))
	}
	return id
}

// Insert admits seq as a new entry with id = current size, and returns
// that id. Inserting a sequence already present is a programming error.
func (d *Dict) Insert(seq []byte) Id {
	key := string(seq)
	if _, ok := d.toID[key]; ok {
		panic(fmt.Sprintf("dict: duplicate insert of %q", seq))
	}
	id := Id(len(d.bytes))
	d.toID[key] = id
	owned := make([]byte, len(seq))
	copy(owned, seq)
	d.bytes = append(d.bytes, owned)
	return id
}

// SeqOf returns the byte sequence for id. Panics if id is out of range,
// which would indicate a dense-packing invariant violation (spec.md
// §3 invariant 5) rather than caller error.
func (d *Dict) SeqOf(id Id) []byte {
	if int(id) < 0 || int(id) >= len(d.bytes) {
		panic(fmt.Sprintf("dict: id %d out of range [0, %d)", id, len(d.bytes)))
	}
	return d.bytes[id]
}

// Entries returns the dictionary contents ordered by id, for callers
// (the writer) that need to materialize an id-ordered array.
func (d *Dict) Entries() [][]byte {
	return d.bytes
}
