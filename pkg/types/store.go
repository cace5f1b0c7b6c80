package types

import (
	"errors"

	"github.com/google/uuid"
)

// Entity kind names as persisted by the store.
const (
	KindGroup  = "group"
	KindObject = "object"
	KindData   = "data"
)

// Data association names. A data set is associated either with the vertices
// or with the cells of its parent object.
const (
	AssociationVertex = "vertex"
	AssociationCell   = "cell"
)

// OctreeCell addresses one cubic cell of an octree mesh. I, J and K are the
// cell's base-grid origin indices on the u, v and w axes; NCells is the cell
// edge length in base-cell units.
type OctreeCell struct {
	I      int32 `json:"i"`
	J      int32 `json:"j"`
	K      int32 `json:"k"`
	NCells int32 `json:"n_cells"`
}

// TypeRecord is the persisted form of an entity type.
type TypeRecord struct {
	UID         uuid.UUID
	ClassID     uuid.UUID
	Kind        string
	Name        string
	Description string

	// Content-policy flags; meaningful for group types only.
	AllowMoveContent   bool
	AllowDeleteContent bool
}

// PropertyGroupRecord is the persisted form of a named data cluster on an
// object. Properties holds data uids in display order.
type PropertyGroupRecord struct {
	Name       string      `json:"name"`
	Properties []uuid.UUID `json:"properties"`
}

// OctreeRecord carries the axis parameters of an octree object. Cells are
// stored separately and fetched lazily through FetchOctreeCells.
type OctreeRecord struct {
	Origin    [3]float64 `json:"origin"`
	Rotation  float64    `json:"rotation"`
	UCount    int        `json:"u_count"`
	VCount    int        `json:"v_count"`
	WCount    int        `json:"w_count"`
	UCellSize float64    `json:"u_cell_size"`
	VCellSize float64    `json:"v_cell_size"`
	WCellSize float64    `json:"w_cell_size"`
}

// EntityRecord is the persisted form of a group, object or data entity.
// ParentUID is uuid.Nil for the root group; Position orders an entity within
// its parent's children. Kind-specific payload fields are nil/empty for the
// kinds they do not apply to.
type EntityRecord struct {
	UID       uuid.UUID
	Kind      string
	TypeUID   uuid.UUID
	Name      string
	ParentUID uuid.UUID
	Position  int

	// Object payload.
	Vertices       [][3]float64
	PropertyGroups []PropertyGroupRecord
	Octree         *OctreeRecord

	// Data payload.
	Association string
	Values      []float64
}

// ContainerStore is the persistence collaborator for a workspace. The
// workspace registry owns the in-memory graph; the store owns the file.
// Implementations must tolerate Finalize and Detach in any order and keep
// Detach idempotent.
type ContainerStore interface {
	// Attach opens (or creates) the container described by config.
	// Returns ErrAlreadyAttached while attached.
	Attach(config Config) error

	// Detach releases store resources. Idempotent; after Detach all other
	// operations return ErrStoreDetached.
	Detach() error

	// SaveType inserts or replaces a type record.
	SaveType(rec TypeRecord) error

	// SaveEntity inserts or replaces an entity record.
	SaveEntity(rec EntityRecord) error

	// DeleteEntity removes an entity record and any octree cells stored
	// under its uid. Deleting an absent uid is a no-op.
	DeleteEntity(uid uuid.UUID) error

	// DeleteType removes a type record. Deleting an absent uid is a no-op.
	DeleteType(uid uuid.UUID) error

	// SaveOctreeCells replaces the cell list stored under an object uid.
	SaveOctreeCells(uid uuid.UUID, cells []OctreeCell) error

	// FetchOctreeCells returns the cell list stored under an object uid, in
	// stored order. Returns ErrNotFound when no cells are stored for uid.
	FetchOctreeCells(uid uuid.UUID) ([]OctreeCell, error)

	// LoadTypes returns every persisted type record.
	LoadTypes() ([]TypeRecord, error)

	// LoadEntities returns every persisted entity record, ordered by
	// parent and position so children rebuild in insertion order.
	LoadEntities() ([]EntityRecord, error)

	// Finalize flushes any buffered writes to the container file.
	Finalize() error
}

// Store lifecycle and lookup errors.
var (
	ErrStoreDetached   = errors.New("container store is detached")
	ErrAlreadyAttached = errors.New("container store is already attached")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidRecord   = errors.New("invalid record")
)
