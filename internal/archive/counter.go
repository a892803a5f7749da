package archive

import "github.com/measter/recordarchive/internal/dict"

// countFrequencies runs Stage-2 (spec.md §4.4): a classical LZW
// match-longest-prefix walk against the frozen Stage-1 dictionary,
// tallying how often each id is emitted.
func countFrequencies(d *dict.Dict, records [][]byte) map[dict.Id]uint32 {
	counts := make(map[dict.Id]uint32)

	for _, record := range records {
		var curSeq []byte
		curStart := 0

		for idx := range record {
			newSeq := record[curStart : idx+1]

			if d.Contains(newSeq) {
				curSeq = newSeq
				continue
			}

			counts[d.IDOf(curSeq)]++
			curStart = idx
			curSeq = record[idx : idx+1]
		}

		if len(curSeq) > 0 {
			counts[d.IDOf(curSeq)]++
		}
	}

	return counts
}
