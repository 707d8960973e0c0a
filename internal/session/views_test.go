package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmolin/wowpkg/internal/addon"
)

func TestComputeViewsTriplets(t *testing.T) {
	installed := mkAddon("curse", "1", "AtlasLoot", "1.0")
	refreshed := mkAddon("curse", "1", "AtlasLoot", "2.0")
	searchHit := mkAddon("wowi", "2", "pfQuest", "3.1")

	v := ComputeViews(
		[]addon.Addon{installed},
		map[addon.Token]addon.Addon{installed.Token(): refreshed},
		[]addon.Addon{refreshed, searchHit},
		nil, false, nil, nil,
	)

	require.Len(t, v.Installed, 1)
	assert.Equal(t, "1.0", v.Installed[0].Reference.Version)
	assert.Equal(t, "2.0", v.Installed[0].Resolved.Version)
	assert.True(t, v.Installed[0].Installed)
	assert.True(t, v.Installed[0].HasUpdate())

	require.Len(t, v.Search, 2)
	// An installed search hit keeps the installed snapshot as its
	// reference; an uninstalled one is its own reference.
	assert.True(t, v.Search[0].Installed)
	assert.Equal(t, "1.0", v.Search[0].Reference.Version)
	assert.False(t, v.Search[1].Installed)
	assert.Equal(t, v.Search[1].Reference, v.Search[1].Resolved)
}

func TestComputeViewsFilter(t *testing.T) {
	a := mkAddon("curse", "1", "AtlasLoot", "1.0")
	b := mkAddon("wowi", "2", "pfQuest", "3.1")

	v := ComputeViews(
		[]addon.Addon{a, b},
		nil,
		nil,
		map[addon.Token]struct{}{b.Token(): {}},
		true, nil, nil,
	)

	require.Len(t, v.Installed, 2)
	require.Len(t, v.FilteredInstalled, 1)
	assert.Equal(t, b.Token(), v.FilteredInstalled[0].Reference.Token())
}
