package workspace

import "github.com/google/uuid"

// Entity is the common contract of the three workspace node families.
// The interface is closed: only Group, Object and Data implement it, each
// adding kind-specific extensions behind capability accessors rather than
// runtime type inspection.
type Entity interface {
	// UID returns the entity's identifier, unique across the entire
	// workspace regardless of kind.
	UID() uuid.UUID

	// Name returns the entity's display name.
	Name() string

	// SetName renames the entity and marks it modified.
	SetName(name string)

	// EntityType returns the shared identity record for this entity's
	// concrete class.
	EntityType() *EntityType

	// Kind returns the entity family.
	Kind() Kind

	// Workspace returns the owning registry.
	Workspace() *Workspace

	// Parent returns the parent entity, or nil for the root group.
	Parent() Entity

	// Children returns the entity's children in insertion order.
	Children() []Entity

	// Modified reports whether the entity has unsaved changes.
	Modified() bool

	base() *entityBase
}

// entityBase carries the state every entity shares. Parent and children are
// held as uids resolved through the workspace's collections, never as strong
// pointers into the graph; the workspace remains the single owner.
type entityBase struct {
	ws        *Workspace
	uid       uuid.UUID
	name      string
	etype     *EntityType
	parentUID uuid.UUID // uuid.Nil for the root group
	children  []uuid.UUID
	modified  bool
}

func (b *entityBase) UID() uuid.UUID          { return b.uid }
func (b *entityBase) Name() string            { return b.name }
func (b *entityBase) EntityType() *EntityType { return b.etype }
func (b *entityBase) Workspace() *Workspace   { return b.ws }
func (b *entityBase) Modified() bool          { return b.modified }

func (b *entityBase) SetName(name string) {
	b.name = name
	b.modified = true
}

func (b *entityBase) Parent() Entity {
	if b.parentUID == uuid.Nil {
		return nil
	}
	return b.ws.FindEntity(b.parentUID)
}

func (b *entityBase) Children() []Entity {
	children := make([]Entity, 0, len(b.children))
	for _, uid := range b.children {
		if child := b.ws.FindEntity(uid); child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (b *entityBase) base() *entityBase { return b }

// attachChild links child under parent, keeping the child in exactly one
// parent's list: any previous parent is detached first.
func attachChild(parent, child Entity) {
	pb := parent.base()
	cb := child.base()
	if cb.parentUID != uuid.Nil {
		if prev := cb.Parent(); prev != nil {
			detachChild(prev, child)
		}
	}
	pb.children = append(pb.children, cb.uid)
	cb.parentUID = pb.uid
	pb.modified = true
	cb.modified = true
}

// detachChild removes child from parent's list without unregistering it.
func detachChild(parent, child Entity) {
	pb := parent.base()
	uid := child.UID()
	for i, c := range pb.children {
		if c == uid {
			pb.children = append(pb.children[:i], pb.children[i+1:]...)
			break
		}
	}
	child.base().parentUID = uuid.Nil
	pb.modified = true
}

// childPosition returns the index of an entity within its parent's children,
// or 0 when the entity has no parent.
func childPosition(e Entity) int {
	parent := e.Parent()
	if parent == nil {
		return 0
	}
	uid := e.UID()
	for i, c := range parent.base().children {
		if c == uid {
			return i
		}
	}
	return 0
}
