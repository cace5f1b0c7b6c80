package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stratum/pkg/sqlite"
	"github.com/mesh-intelligence/stratum/pkg/types"
	"github.com/mesh-intelligence/stratum/pkg/workspace"
)

func attach(t *testing.T, dataDir string) types.ContainerStore {
	t.Helper()

	store := sqlite.NewStore()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}))
	t.Cleanup(func() { store.Detach() })
	return store
}

// TestWorkspaceContainerRoundTrip drives the full path: build a tree, persist
// it, reopen the container, and verify the reloaded registry.
func TestWorkspaceContainerRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	store := attach(t, dataDir)

	w := workspace.New()
	w.SetStore(store)

	g, err := w.CreateGroup(workspace.ContainerGroupType, "survey", nil)
	require.NoError(t, err)
	obj, err := w.CreateObject(workspace.PointsType, "pts", g)
	require.NoError(t, err)
	obj.SetVertices([][3]float64{{0, 0, 0}, {1, 1, 1}})
	d, err := obj.AddData(workspace.DataSpec{
		Name:        "elevation",
		Association: types.AssociationVertex,
		Values:      []float64{10, 20},
	})
	require.NoError(t, err)

	oct, err := w.CreateOctree("mesh", g)
	require.NoError(t, err)
	require.NoError(t, oct.SetUCount(8))
	require.NoError(t, oct.SetVCount(4))
	require.NoError(t, oct.SetWCount(4))
	require.NoError(t, oct.SetUCellSize(1))
	require.NoError(t, oct.SetVCellSize(1))
	require.NoError(t, oct.SetWCellSize(1))
	require.NoError(t, oct.BaseRefine())

	require.NoError(t, w.Finalize())
	require.NoError(t, store.Detach())
	w.Close()

	reopened := attach(t, dataDir)
	loaded, err := workspace.Load(reopened)
	require.NoError(t, err)

	assert.Len(t, loaded.AllGroups(), 2) // root + survey
	assert.Len(t, loaded.AllObjects(), 2)
	assert.Len(t, loaded.AllData(), 1)

	lg := loaded.FindGroup(g.UID())
	require.NotNil(t, lg)
	assert.Equal(t, "survey", lg.Name())

	lo := loaded.FindObject(obj.UID())
	require.NotNil(t, lo)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {1, 1, 1}}, lo.Vertices())

	ld := loaded.FindData(d.UID())
	require.NotNil(t, ld)
	assert.Equal(t, []float64{10, 20}, ld.Values())
	assert.Equal(t, lo.UID(), ld.Parent().UID())

	lm := loaded.FindObject(oct.Object().UID())
	require.NotNil(t, lm)
	loct, ok := lm.Octree()
	require.True(t, ok)

	cells, err := loct.Cells()
	require.NoError(t, err)
	assert.Len(t, cells, 2)
	for _, c := range cells {
		assert.Equal(t, int32(4), c.NCells)
	}

	centroids, err := loct.Centroids()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 2, 2}, centroids[0])
	assert.Equal(t, [3]float64{6, 2, 2}, centroids[1])
}

// TestRemovalSurvivesReopen mirrors the lifecycle of deleting a subtree: the
// rows and the evicted types must be gone after reopening the container.
func TestRemovalSurvivesReopen(t *testing.T) {
	dataDir := t.TempDir()
	store := attach(t, dataDir)

	w := workspace.New()
	w.SetStore(store)

	g, err := w.CreateGroup(workspace.ContainerGroupType, "doomed", nil)
	require.NoError(t, err)
	obj, err := w.CreateObject(workspace.CurveType, "line", g)
	require.NoError(t, err)
	_, err = obj.AddData(workspace.DataSpec{
		Name:        "length",
		Association: types.AssociationCell,
		Values:      []float64{1},
	})
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	w.RemoveEntity(g)
	require.NoError(t, w.Finalize())
	require.NoError(t, store.Detach())
	w.Close()

	reopened := attach(t, dataDir)
	loaded, err := workspace.Load(reopened)
	require.NoError(t, err)

	assert.Len(t, loaded.AllGroups(), 1) // root only
	assert.Empty(t, loaded.AllObjects())
	assert.Empty(t, loaded.AllData())
	assert.Len(t, loaded.AllTypes(), 1) // root type only
}
