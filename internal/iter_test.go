package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]uint32{"A": 1}
	b := map[string]uint32{"B": 2, "C": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]uint32{"A": 1, "B": 2, "C": 3}, all)

	// Early termination.
	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestSortedByKey(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"zeta": 1, "alpha": 3, "mid": 2}

	var keys []string
	for key := range SortedByKey(m) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"alpha", "mid", "zeta"}, keys)
}

func TestSortedByValue(t *testing.T) {
	assert := assert.New(t)

	m := map[string]uint32{"end": 0x1010, "start": 0x1000, "also_start": 0x1000}

	var keys []string
	for key := range SortedByValue(m) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"also_start", "start", "end"}, keys)
	assert.True(slices.IsSorted([]uint32{m[keys[0]], m[keys[1]], m[keys[2]]}))
}
