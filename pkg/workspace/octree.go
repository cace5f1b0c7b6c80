package workspace

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// Octree is the spatial geometry of an octree mesh object: per-axis base
// cell counts and sizes, an origin and a counterclockwise rotation about
// the vertical axis, and a sparse list of (I, J, K, NCells) cells.
//
// Centroids are computed lazily and cached; any setter on a dependency
// (origin, rotation, counts, sizes, cells) clears the cache. Cells are a
// one-shot state: a newly constructed octree is refined exactly once to its
// coarsest valid level by BaseRefine, after which client code may replace
// the cell list wholesale via SetCells but never re-refine.
type Octree struct {
	object *Object

	origin   [3]float64
	rotation float64 // degrees, counterclockwise about the vertical axis

	uCount, vCount, wCount          int
	uCellSize, vCellSize, wCellSize float64

	cells     []types.OctreeCell // nil until refined, set or fetched
	centroids [][3]float64       // nil when stale

	// fromStore marks an octree loaded from a container; its cells are
	// fetched from the store on first access instead of being refined.
	fromStore bool
}

// Object returns the mesh's owning object entity.
func (o *Octree) Object() *Object { return o.object }

// Origin returns the world coordinates of the mesh origin.
func (o *Octree) Origin() [3]float64 { return o.origin }

// SetOrigin moves the mesh origin and invalidates cached centroids.
func (o *Octree) SetOrigin(origin [3]float64) {
	o.origin = origin
	o.invalidate()
}

// Rotation returns the counterclockwise rotation angle in degrees about
// the vertical axis.
func (o *Octree) Rotation() float64 { return o.rotation }

// SetRotation sets the rotation angle and invalidates cached centroids.
func (o *Octree) SetRotation(degrees float64) {
	o.rotation = degrees
	o.invalidate()
}

// UCount returns the number of base cells along the u axis (0 if unset).
func (o *Octree) UCount() int { return o.uCount }

// VCount returns the number of base cells along the v axis (0 if unset).
func (o *Octree) VCount() int { return o.vCount }

// WCount returns the number of base cells along the w axis (0 if unset).
func (o *Octree) WCount() int { return o.wCount }

// SetUCount sets the u-axis base cell count. Counts must be powers of two.
func (o *Octree) SetUCount(n int) error { return o.setCount(&o.uCount, "u_count", n) }

// SetVCount sets the v-axis base cell count. Counts must be powers of two.
func (o *Octree) SetVCount(n int) error { return o.setCount(&o.vCount, "v_count", n) }

// SetWCount sets the w-axis base cell count. Counts must be powers of two.
func (o *Octree) SetWCount(n int) error { return o.setCount(&o.wCount, "w_count", n) }

func (o *Octree) setCount(field *int, name string, n int) error {
	if n < 1 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %s must be a positive power of two, got %d", ErrInvalidGeometry, name, n)
	}
	*field = n
	o.invalidate()
	return nil
}

// UCellSize returns the base cell size along the u axis (0 if unset).
func (o *Octree) UCellSize() float64 { return o.uCellSize }

// VCellSize returns the base cell size along the v axis (0 if unset).
func (o *Octree) VCellSize() float64 { return o.vCellSize }

// WCellSize returns the base cell size along the w axis (0 if unset).
func (o *Octree) WCellSize() float64 { return o.wCellSize }

// SetUCellSize sets the u-axis base cell size. Sizes must be positive.
func (o *Octree) SetUCellSize(s float64) error { return o.setSize(&o.uCellSize, "u_cell_size", s) }

// SetVCellSize sets the v-axis base cell size. Sizes must be positive.
func (o *Octree) SetVCellSize(s float64) error { return o.setSize(&o.vCellSize, "v_cell_size", s) }

// SetWCellSize sets the w-axis base cell size. Sizes must be positive.
func (o *Octree) SetWCellSize(s float64) error { return o.setSize(&o.wCellSize, "w_cell_size", s) }

func (o *Octree) setSize(field *float64, name string, s float64) error {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidGeometry, name, s)
	}
	*field = s
	o.invalidate()
	return nil
}

// Shape returns the base cell counts along the u, v and w axes. The second
// result is false until all three counts are set.
func (o *Octree) Shape() ([3]int, bool) {
	if o.uCount == 0 || o.vCount == 0 || o.wCount == 0 {
		return [3]int{}, false
	}
	return [3]int{o.uCount, o.vCount, o.wCount}, true
}

// Cells returns the sparse cell list, producing it on first access: an
// octree loaded from a container fetches its stored cells, a newly built
// one refines to the coarsest level consistent with the axis counts.
func (o *Octree) Cells() ([]types.OctreeCell, error) {
	if o.cells != nil {
		return o.cells, nil
	}
	if o.fromStore {
		store := o.object.ws.store
		if store == nil {
			return nil, fmt.Errorf("%w: octree %s was loaded from a container", ErrNoStore, o.object.uid)
		}
		cells, err := store.FetchOctreeCells(o.object.uid)
		if err != nil {
			return nil, fmt.Errorf("fetch octree cells for %s: %w", o.object.uid, err)
		}
		o.cells = cells
		return o.cells, nil
	}
	if err := o.BaseRefine(); err != nil {
		return nil, err
	}
	return o.cells, nil
}

// SetCells replaces the cell list wholesale (used when subdividing further
// or when loading explicit cells) and invalidates cached centroids.
func (o *Octree) SetCells(cells []types.OctreeCell) error {
	if len(cells) == 0 {
		return fmt.Errorf("%w: cell list must not be empty", ErrInvalidGeometry)
	}
	o.cells = cells
	o.invalidate()
	return nil
}

// NumCells returns the total number of cells in the mesh, producing the
// cell list first if needed.
func (o *Octree) NumCells() (int, error) {
	cells, err := o.Cells()
	if err != nil {
		return 0, err
	}
	return len(cells), nil
}

// BaseRefine refines the mesh to its base octree level, producing a single
// cell along the shortest axis. It is the one-way transition from the
// unrefined state: calling it with cells already present fails with
// ErrAlreadyRefined, and all three axis counts must be set first.
//
// The coarsest fitting level is bounded by the shortest axis; axes longer
// than it take additional steps so every axis ends with the same number of
// post-refinement cells along its direction. All produced cells are cubic
// with edge length 2^min_level base cells.
func (o *Octree) BaseRefine() error {
	if o.cells != nil {
		return ErrAlreadyRefined
	}
	if _, ok := o.Shape(); !ok {
		return fmt.Errorf("%w: u_count, v_count and w_count must be set before refining", ErrIncompleteGeometry)
	}

	levelU := log2int(o.uCount)
	levelV := log2int(o.vCount)
	levelW := log2int(o.wCount)

	minLevel := min(levelU, levelV, levelW)

	// Never refine coarser than a single whole-axis cell, never finer
	// than level 0.
	level := min(0, minLevel)

	// Extra steps on axes longer than the shortest one; the base grid step
	// then collapses to 2^min_level on every axis.
	stepU := 1 << (levelU - (levelU - minLevel) - level)
	stepV := 1 << (levelV - (levelV - minLevel) - level)
	stepW := 1 << (levelW - (levelW - minLevel) - level)

	size := int32(1 << (minLevel - level))

	cells := make([]types.OctreeCell, 0, (o.uCount/stepU)*(o.vCount/stepV)*(o.wCount/stepW))
	for k := 0; k < o.wCount; k += stepW {
		for j := 0; j < o.vCount; j += stepV {
			for i := 0; i < o.uCount; i += stepU {
				cells = append(cells, types.OctreeCell{
					I:      int32(i),
					J:      int32(j),
					K:      int32(k),
					NCells: size,
				})
			}
		}
	}

	o.cells = cells
	o.object.modified = true
	return nil
}

// Centroids returns the world coordinates of every cell center, one row per
// cell in cell-list order. The result is cached; repeated reads return the
// identical slice until a dependency setter invalidates it.
//
// Per axis the local coordinate is (index + NCells/2) * cell_size, the
// center of the cubic cell in unrotated axis coordinates. The local (u, v)
// pair is then rotated about the vertical axis and the origin added.
func (o *Octree) Centroids() ([][3]float64, error) {
	if o.centroids != nil {
		return o.centroids, nil
	}

	cells, err := o.Cells()
	if err != nil {
		return nil, err
	}
	if o.uCellSize == 0 || o.vCellSize == 0 || o.wCellSize == 0 {
		return nil, fmt.Errorf("%w: u, v and w cell sizes must be set before computing centroids", ErrIncompleteGeometry)
	}

	angle := o.rotation * math.Pi / 180
	cos, sin := math.Cos(angle), math.Sin(angle)

	centroids := make([][3]float64, len(cells))
	for n, c := range cells {
		half := float64(c.NCells) / 2
		u := (float64(c.I) + half) * o.uCellSize
		v := (float64(c.J) + half) * o.vCellSize
		w := (float64(c.K) + half) * o.wCellSize

		centroids[n] = [3]float64{
			cos*u - sin*v + o.origin[0],
			sin*u + cos*v + o.origin[1],
			w + o.origin[2],
		}
	}

	o.centroids = centroids
	return o.centroids, nil
}

// invalidate clears the centroid cache and marks the owning object modified.
func (o *Octree) invalidate() {
	o.centroids = nil
	if o.object != nil {
		o.object.modified = true
	}
}

// log2int returns log2(n) for a positive power of two.
func log2int(n int) int {
	level := 0
	for n > 1 {
		n >>= 1
		level++
	}
	return level
}
