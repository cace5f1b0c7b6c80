package workspace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// Kind discriminates the three entity families of a workspace. The set is
// closed; the store and the registry both key their behavior on it.
type Kind int

const (
	KindUnknown Kind = iota
	KindGroup
	KindObject
	KindData
)

// String returns the store-level name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return types.KindGroup
	case KindObject:
		return types.KindObject
	case KindData:
		return types.KindData
	default:
		return "unknown"
	}
}

// kindFromName maps a store-level kind name back to a Kind.
func kindFromName(name string) Kind {
	switch name {
	case types.KindGroup:
		return KindGroup
	case types.KindObject:
		return KindObject
	case types.KindData:
		return KindData
	default:
		return KindUnknown
	}
}

// EntityType is the identity record shared by all instances of one concrete
// entity kind within one workspace. At most one EntityType exists per
// (workspace, uid); FindOrCreateType enforces the deduplication.
//
// Types are immutable after creation except for the content-policy flags,
// which are meaningful on group types only.
type EntityType struct {
	uid         uuid.UUID
	classID     uuid.UUID // uuid.Nil means "defaults to uid"
	kind        Kind
	name        string
	description string

	allowMoveContent   bool
	allowDeleteContent bool
}

// UID returns the type's unique identifier within its workspace.
func (t *EntityType) UID() uuid.UUID { return t.uid }

// ClassID identifies which concrete entity class this type denotes,
// independent of the per-instance uid. Defaults to UID when unset.
func (t *EntityType) ClassID() uuid.UUID {
	if t.classID == uuid.Nil {
		return t.uid
	}
	return t.classID
}

// Kind returns the entity family this type belongs to.
func (t *EntityType) Kind() Kind { return t.kind }

// Name returns the type's display name.
func (t *EntityType) Name() string { return t.name }

// Description returns the type's display description.
func (t *EntityType) Description() string { return t.description }

// AllowMoveContent reports whether content may be moved out of groups of
// this type.
func (t *EntityType) AllowMoveContent() bool { return t.allowMoveContent }

// SetAllowMoveContent sets the move-content policy flag.
func (t *EntityType) SetAllowMoveContent(allow bool) { t.allowMoveContent = allow }

// AllowDeleteContent reports whether content may be deleted from groups of
// this type.
func (t *EntityType) AllowDeleteContent() bool { return t.allowDeleteContent }

// SetAllowDeleteContent sets the delete-content policy flag.
func (t *EntityType) SetAllowDeleteContent(allow bool) { t.allowDeleteContent = allow }

// TypeDescriptor is the static identity contract a concrete entity class
// provides to the registry: a stable type uid, an optional class id, and
// display metadata. A descriptor with a nil TypeUID cannot be registered.
type TypeDescriptor struct {
	Kind        Kind
	TypeUID     uuid.UUID
	ClassID     uuid.UUID
	Name        string
	Description string
}

// Descriptors for the built-in entity classes.
var (
	RootGroupType = TypeDescriptor{
		Kind:        KindGroup,
		TypeUID:     uuid.MustParse("dd99b610-be92-48c0-873c-5b5946ea2840"),
		Name:        "Root",
		Description: "Distinguished root group owning the workspace tree",
	}
	ContainerGroupType = TypeDescriptor{
		Kind:        KindGroup,
		TypeUID:     uuid.MustParse("61fbb4e8-a480-11e3-8d5a-2776bdf4f982"),
		Name:        "Container",
		Description: "General-purpose container group",
	}
	PointsType = TypeDescriptor{
		Kind:        KindObject,
		TypeUID:     uuid.MustParse("202c5db1-a56d-4004-9cad-baafd8899406"),
		Name:        "Points",
		Description: "Scattered vertex object",
	}
	CurveType = TypeDescriptor{
		Kind:        KindObject,
		TypeUID:     uuid.MustParse("6a057fdc-b355-11e3-95be-fd84a7ffcb88"),
		Name:        "Curve",
		Description: "Polyline object over ordered vertices",
	}
	OctreeType = TypeDescriptor{
		Kind:        KindObject,
		TypeUID:     uuid.MustParse("4ea87376-3ece-438b-bf12-3479733ded46"),
		Name:        "Octree",
		Description: "Octree mesh with cubic cell subdivision",
	}
	FloatDataType = TypeDescriptor{
		Kind:        KindData,
		TypeUID:     uuid.MustParse("48f5054a-1c5c-4ca4-9048-80f36dc60a06"),
		Name:        "Float",
		Description: "Floating point channel",
	}
)

// FindOrCreateType resolves the EntityType for a concrete entity class in
// the given workspace. When a type with the descriptor's uid is already
// registered it is returned unchanged; the call never allocates a second
// instance for the same uid. Returns ErrInvalidType when the descriptor
// carries a nil type uid.
func FindOrCreateType(w *Workspace, desc TypeDescriptor) (*EntityType, error) {
	if desc.TypeUID == uuid.Nil {
		return nil, fmt.Errorf("%w: %s type %q", ErrInvalidType, desc.Kind, desc.Name)
	}

	if existing := w.FindType(desc.TypeUID, desc.Kind); existing != nil {
		return existing, nil
	}

	t := &EntityType{
		uid:         desc.TypeUID,
		classID:     desc.ClassID,
		kind:        desc.Kind,
		name:        desc.Name,
		description: desc.Description,
	}
	if t.kind == KindGroup {
		t.allowMoveContent = true
		t.allowDeleteContent = true
	}
	w.RegisterType(t)
	return t, nil
}

// NewCustomType allocates a brand-new EntityType with a freshly generated
// uid for an ad-hoc entity kind. The generated uid doubles as the class id,
// so the type is self-identifying and the find-or-create dedup path is
// bypassed entirely: no prior instance can exist.
func NewCustomType(w *Workspace, kind Kind, name, description string) *EntityType {
	uid := uuid.New()
	t := &EntityType{
		uid:         uid,
		classID:     uid,
		kind:        kind,
		name:        name,
		description: description,
	}
	if kind == KindGroup {
		t.allowMoveContent = true
		t.allowDeleteContent = true
	}
	w.RegisterType(t)
	return t
}
