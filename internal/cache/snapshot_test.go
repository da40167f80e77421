package cache

import (
	"testing"

	"psgc-api/internal/psgc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotLookup(t *testing.T) {
	rec, _ := psgc.Normalize(psgc.RawRow{Code: "0100000000", Name: "Region I", GeoLevel: "Reg"}, nil)
	s := NewSnapshot([]psgc.Record{rec})
	require.Equal(t, 1, s.Len())
	got, ok := s.Lookup("0100000000")
	require.True(t, ok)
	assert.Equal(t, "Region I", got.Name)
	_, ok = s.Lookup("9999999999")
	assert.False(t, ok)
}

// 未设置快照时未命中；Set 后立即生效
func TestDynamicCacheSwap(t *testing.T) {
	var d DynamicCache
	assert.False(t, d.Ready())
	_, ok := d.Lookup("0100000000")
	assert.False(t, ok)

	rec, _ := psgc.Normalize(psgc.RawRow{Code: "0100000000", Name: "Region I", GeoLevel: "Reg"}, nil)
	d.Set(NewSnapshot([]psgc.Record{rec}))
	require.True(t, d.Ready())
	got, ok := d.Lookup("0100000000")
	require.True(t, ok)
	assert.Equal(t, psgc.LevelRegion, got.Level)
}
