package version

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	require.NotNil(t, info)

	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.MainModule)

	sorted := sort.SliceIsSorted(info.Dependencies, func(i, j int) bool {
		return info.Dependencies[i].Path < info.Dependencies[j].Path
	})
	assert.True(t, sorted, "dependencies should be sorted by path")
}

func TestGetDependency(t *testing.T) {
	// testify is linked into the test binary, so build info must carry it
	dep := GetDependency("github.com/stretchr/testify")
	require.NotNil(t, dep)
	assert.Equal(t, "github.com/stretchr/testify", dep.Path)
	assert.NotEmpty(t, dep.Version)

	assert.Nil(t, GetDependency("example.com/no/such/module"))
}

func TestVersionIsSet(t *testing.T) {
	assert.NotEmpty(t, Version)
}
