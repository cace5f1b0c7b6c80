package workspace

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// memStore is an in-memory ContainerStore for registry round-trip tests.
type memStore struct {
	types     map[uuid.UUID]types.TypeRecord
	entities  map[uuid.UUID]types.EntityRecord
	cells     map[uuid.UUID][]types.OctreeCell
	order     []uuid.UUID // entity insertion order
	finalized int
}

func newMemStore() *memStore {
	return &memStore{
		types:    make(map[uuid.UUID]types.TypeRecord),
		entities: make(map[uuid.UUID]types.EntityRecord),
		cells:    make(map[uuid.UUID][]types.OctreeCell),
	}
}

func (s *memStore) Attach(types.Config) error { return nil }
func (s *memStore) Detach() error             { return nil }

func (s *memStore) SaveType(rec types.TypeRecord) error {
	s.types[rec.UID] = rec
	return nil
}

func (s *memStore) SaveEntity(rec types.EntityRecord) error {
	if _, exists := s.entities[rec.UID]; !exists {
		s.order = append(s.order, rec.UID)
	}
	s.entities[rec.UID] = rec
	return nil
}

func (s *memStore) DeleteEntity(uid uuid.UUID) error {
	delete(s.entities, uid)
	delete(s.cells, uid)
	return nil
}

func (s *memStore) DeleteType(uid uuid.UUID) error {
	delete(s.types, uid)
	return nil
}

func (s *memStore) SaveOctreeCells(uid uuid.UUID, cells []types.OctreeCell) error {
	s.cells[uid] = append([]types.OctreeCell(nil), cells...)
	return nil
}

func (s *memStore) FetchOctreeCells(uid uuid.UUID) ([]types.OctreeCell, error) {
	cells, ok := s.cells[uid]
	if !ok {
		return nil, types.ErrNotFound
	}
	return cells, nil
}

func (s *memStore) LoadTypes() ([]types.TypeRecord, error) {
	out := make([]types.TypeRecord, 0, len(s.types))
	for _, rec := range s.types {
		out = append(out, rec)
	}
	return out, nil
}

func (s *memStore) LoadEntities() ([]types.EntityRecord, error) {
	out := make([]types.EntityRecord, 0, len(s.order))
	for _, uid := range s.order {
		if rec, ok := s.entities[uid]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore) Finalize() error {
	s.finalized++
	return nil
}

func TestSaveWithoutStore(t *testing.T) {
	w := New()
	defer w.Close()

	if err := w.Save(); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newMemStore()

	w := New()
	w.SetStore(store)

	g, err := w.CreateGroup(ContainerGroupType, "survey", nil)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	obj, err := w.CreateObject(PointsType, "pts", g)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	obj.SetVertices([][3]float64{{1, 2, 3}, {4, 5, 6}})
	d, err := obj.AddData(DataSpec{
		Name:          "grade",
		Association:   types.AssociationVertex,
		Values:        []float64{0.5, 0.7},
		PropertyGroup: "assays",
	})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}

	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if store.finalized != 1 {
		t.Fatalf("expected 1 finalize, got %d", store.finalized)
	}
	w.Close()

	loaded, err := Load(store)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Root() == nil || loaded.Root().Name() != RootGroupType.Name {
		t.Fatal("loaded workspace must rebuild the root group")
	}
	lg := loaded.FindGroup(g.UID())
	if lg == nil || lg.Name() != "survey" {
		t.Fatal("loaded workspace must contain the saved group")
	}
	lo := loaded.FindObject(obj.UID())
	if lo == nil {
		t.Fatal("loaded workspace must contain the saved object")
	}
	if len(lo.Vertices()) != 2 || lo.Vertices()[1] != [3]float64{4, 5, 6} {
		t.Fatalf("loaded vertices mismatch: %v", lo.Vertices())
	}
	if lo.Parent() == nil || lo.Parent().UID() != g.UID() {
		t.Fatal("loaded object must hang under the saved group")
	}
	ld := loaded.FindData(d.UID())
	if ld == nil || ld.Association() != types.AssociationVertex {
		t.Fatal("loaded workspace must contain the saved data")
	}
	pg := lo.FindPropertyGroup("assays")
	if pg == nil || !pg.Contains(d.UID()) {
		t.Fatal("loaded object must rebuild its property groups")
	}
	if ld.Modified() || lo.Modified() {
		t.Fatal("freshly loaded entities must not be flagged modified")
	}
}

func TestSaveFlushesRemovals(t *testing.T) {
	store := newMemStore()

	w := New()
	w.SetStore(store)

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := store.entities[obj.UID()]; !ok {
		t.Fatal("saved object missing from store")
	}

	w.RemoveEntity(obj)
	if err := w.Save(); err != nil {
		t.Fatalf("Save after removal failed: %v", err)
	}

	if _, ok := store.entities[obj.UID()]; ok {
		t.Fatal("removed entity must be deleted from the store")
	}
	if _, ok := store.types[PointsType.TypeUID]; ok {
		t.Fatal("evicted type must be deleted from the store")
	}
}

func TestOctreeRoundTripLazyCells(t *testing.T) {
	store := newMemStore()

	w := New()
	w.SetStore(store)

	oct, err := w.CreateOctree("mesh", nil)
	if err != nil {
		t.Fatalf("CreateOctree failed: %v", err)
	}
	for _, set := range []func(int) error{oct.SetUCount, oct.SetVCount, oct.SetWCount} {
		if err := set(4); err != nil {
			t.Fatalf("set count failed: %v", err)
		}
	}
	for _, set := range []func(float64) error{oct.SetUCellSize, oct.SetVCellSize, oct.SetWCellSize} {
		if err := set(1); err != nil {
			t.Fatalf("set size failed: %v", err)
		}
	}
	if err := oct.BaseRefine(); err != nil {
		t.Fatalf("BaseRefine failed: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	uid := oct.Object().UID()
	w.Close()

	loaded, err := Load(store)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	lo := loaded.FindObject(uid)
	if lo == nil {
		t.Fatal("loaded workspace must contain the octree object")
	}
	loct, ok := lo.Octree()
	if !ok {
		t.Fatal("loaded object must expose octree geometry")
	}
	if shape, ok := loct.Shape(); !ok || shape != [3]int{4, 4, 4} {
		t.Fatalf("loaded octree shape mismatch: %v", shape)
	}

	// Cells come back from the store on first access.
	cells, err := loct.Cells()
	if err != nil {
		t.Fatalf("Cells failed: %v", err)
	}
	if len(cells) != 1 || cells[0].NCells != 4 {
		t.Fatalf("loaded cells mismatch: %+v", cells)
	}

	centroids, err := loct.Centroids()
	if err != nil {
		t.Fatalf("Centroids failed: %v", err)
	}
	if centroids[0] != [3]float64{2, 2, 2} {
		t.Fatalf("expected centroid (2, 2, 2), got %v", centroids[0])
	}
}
