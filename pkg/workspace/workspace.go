package workspace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stratum/pkg/stratum"
	"github.com/mesh-intelligence/stratum/pkg/types"
)

// Workspace is the process-local registry of one container instance. It owns
// four uid-keyed collections (types, groups, objects, data) and the root
// group, and mediates every create/register/remove. Persistence is delegated
// to an attached ContainerStore; the workspace itself never touches bytes.
//
// Collections carry no internal locking; concurrent mutation from multiple
// goroutines must be serialized by the caller.
type Workspace struct {
	// Container metadata.
	Version      string
	DistanceUnit string
	Contributors []string

	types   map[uuid.UUID]*EntityType
	groups  map[uuid.UUID]*Group
	objects map[uuid.UUID]*Object
	data    map[uuid.UUID]*Data

	root  *Group
	store types.ContainerStore

	// uids removed since the last save, flushed to the store by Save.
	deletedEntities []uuid.UUID
	deletedTypes    []uuid.UUID

	closed bool
}

// New creates an empty workspace with a fresh root group.
func New() *Workspace {
	w := newEmpty()

	rootType, err := FindOrCreateType(w, RootGroupType)
	if err != nil {
		// RootGroupType carries a static non-nil uid; this cannot fail.
		panic(err)
	}
	root := &Group{}
	w.initEntity(&root.entityBase, rootType, RootGroupType.Name)
	w.RegisterGroup(root)
	w.root = root
	return w
}

func newEmpty() *Workspace {
	return &Workspace{
		Version:      stratum.Version,
		DistanceUnit: "meter",
		types:        make(map[uuid.UUID]*EntityType),
		groups:       make(map[uuid.UUID]*Group),
		objects:      make(map[uuid.UUID]*Object),
		data:         make(map[uuid.UUID]*Data),
	}
}

// Root returns the workspace's root group.
func (w *Workspace) Root() *Group { return w.root }

// Store returns the attached container store, or nil.
func (w *Workspace) Store() types.ContainerStore { return w.store }

// SetStore attaches a container store for persistence and lazy fetches.
func (w *Workspace) SetStore(store types.ContainerStore) { w.store = store }

// Closed reports whether Close has been called.
func (w *Workspace) Closed() bool { return w.closed }

// Close releases all collections and deactivates the workspace if it was
// the active one. Idempotent. A closed workspace is never observed through
// the active-workspace slot.
func (w *Workspace) Close() {
	if w.closed {
		return
	}
	w.Deactivate()
	w.types = make(map[uuid.UUID]*EntityType)
	w.groups = make(map[uuid.UUID]*Group)
	w.objects = make(map[uuid.UUID]*Object)
	w.data = make(map[uuid.UUID]*Data)
	w.root = nil
	w.closed = true
}

// initEntity fills the shared entity state and generates the uid.
func (w *Workspace) initEntity(b *entityBase, t *EntityType, name string) {
	b.ws = w
	b.uid = uuid.New()
	b.name = name
	b.etype = t
	b.modified = true
}

// RegisterType inserts a type keyed by uid. Registration is last-write-wins;
// callers are expected to have gone through FindOrCreateType to avoid
// accidental overwrites.
func (w *Workspace) RegisterType(t *EntityType) {
	w.types[t.uid] = t
}

// FindType returns the registered type with the given uid only when it is
// present and belongs to the requested kind; otherwise nil. A mistyped uid
// is a lookup miss, never an error.
func (w *Workspace) FindType(uid uuid.UUID, kind Kind) *EntityType {
	t, ok := w.types[uid]
	if !ok || t.kind != kind {
		return nil
	}
	return t
}

// AllTypes returns every registered type.
func (w *Workspace) AllTypes() []*EntityType {
	out := make([]*EntityType, 0, len(w.types))
	for _, t := range w.types {
		out = append(out, t)
	}
	return out
}

// RegisterGroup inserts a group keyed by uid; collisions overwrite.
func (w *Workspace) RegisterGroup(g *Group) { w.groups[g.uid] = g }

// RegisterObject inserts an object keyed by uid; collisions overwrite.
func (w *Workspace) RegisterObject(o *Object) { w.objects[o.uid] = o }

// RegisterData inserts a data entity keyed by uid; collisions overwrite.
func (w *Workspace) RegisterData(d *Data) { w.data[d.uid] = d }

// FindGroup returns the group with the given uid, or nil.
func (w *Workspace) FindGroup(uid uuid.UUID) *Group { return w.groups[uid] }

// FindObject returns the object with the given uid, or nil.
func (w *Workspace) FindObject(uid uuid.UUID) *Object { return w.objects[uid] }

// FindData returns the data entity with the given uid, or nil.
func (w *Workspace) FindData(uid uuid.UUID) *Data { return w.data[uid] }

// FindEntity probes all three entity collections for the given uid.
func (w *Workspace) FindEntity(uid uuid.UUID) Entity {
	if g, ok := w.groups[uid]; ok {
		return g
	}
	if o, ok := w.objects[uid]; ok {
		return o
	}
	if d, ok := w.data[uid]; ok {
		return d
	}
	return nil
}

// AllGroups returns every registered group.
func (w *Workspace) AllGroups() []*Group {
	out := make([]*Group, 0, len(w.groups))
	for _, g := range w.groups {
		out = append(out, g)
	}
	return out
}

// AllObjects returns every registered object.
func (w *Workspace) AllObjects() []*Object {
	out := make([]*Object, 0, len(w.objects))
	for _, o := range w.objects {
		out = append(out, o)
	}
	return out
}

// AllData returns every registered data entity.
func (w *Workspace) AllData() []*Data {
	out := make([]*Data, 0, len(w.data))
	for _, d := range w.data {
		out = append(out, d)
	}
	return out
}

// CreateGroup creates a group of the described class under parent (the root
// group when parent is nil), registering it and its type.
func (w *Workspace) CreateGroup(desc TypeDescriptor, name string, parent Entity) (*Group, error) {
	if w.closed {
		return nil, ErrWorkspaceClosed
	}
	if desc.Kind != KindGroup {
		return nil, fmt.Errorf("%w: %s descriptor used for a group", ErrTypeKindMismatch, desc.Kind)
	}
	p, err := w.resolveParent(parent)
	if err != nil {
		return nil, err
	}
	t, err := FindOrCreateType(w, desc)
	if err != nil {
		return nil, err
	}

	g := &Group{}
	w.initEntity(&g.entityBase, t, name)
	w.RegisterGroup(g)
	attachChild(p, g)
	return g, nil
}

// CreateObject creates an object of the described class under parent (the
// root group when parent is nil). An OctreeType descriptor yields an object
// carrying octree geometry behind its Octree accessor.
func (w *Workspace) CreateObject(desc TypeDescriptor, name string, parent Entity) (*Object, error) {
	if w.closed {
		return nil, ErrWorkspaceClosed
	}
	if desc.Kind != KindObject {
		return nil, fmt.Errorf("%w: %s descriptor used for an object", ErrTypeKindMismatch, desc.Kind)
	}
	p, err := w.resolveParent(parent)
	if err != nil {
		return nil, err
	}
	t, err := FindOrCreateType(w, desc)
	if err != nil {
		return nil, err
	}

	o := &Object{}
	w.initEntity(&o.entityBase, t, name)
	if desc.TypeUID == OctreeType.TypeUID {
		o.octree = &Octree{object: o}
	}
	w.RegisterObject(o)
	attachChild(p, o)
	return o, nil
}

// CreateOctree creates an octree mesh object and returns its geometry.
func (w *Workspace) CreateOctree(name string, parent Entity) (*Octree, error) {
	o, err := w.CreateObject(OctreeType, name, parent)
	if err != nil {
		return nil, err
	}
	octree, _ := o.Octree()
	return octree, nil
}

// resolveParent defaults a nil parent to the root group and rejects parents
// from other workspaces or of data kind.
func (w *Workspace) resolveParent(parent Entity) (Entity, error) {
	if parent == nil {
		return w.root, nil
	}
	if parent.Workspace() != w || w.FindEntity(parent.UID()) == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingParent, parent.UID())
	}
	if parent.Kind() == KindData {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParentKind, parent.UID())
	}
	return parent, nil
}

// RemoveEntity removes an entity and, recursively, all of its children from
// the registry. Removal is idempotent: an entity that is absent (or already
// removed) is a silent no-op. Data entities are purged from every property
// group on their parent object. A type left with no referencing entities is
// immediately dropped from the type collection, so the type count tracks
// live usage. The root group cannot be removed.
func (w *Workspace) RemoveEntity(e Entity) {
	if e == nil || e.Workspace() != w {
		return
	}
	if g, ok := e.(*Group); ok && g == w.root {
		return
	}
	uid := e.UID()
	if w.FindEntity(uid) == nil {
		return // already removed
	}

	// Children first, on a copy: removal mutates the child list.
	for _, child := range e.Children() {
		w.RemoveEntity(child)
	}

	if d, ok := e.(*Data); ok {
		if parent, ok := d.Parent().(*Object); ok && parent != nil {
			for _, pg := range parent.propertyGroups {
				pg.remove(uid)
			}
		}
	}

	if parent := e.Parent(); parent != nil {
		detachChild(parent, e)
	}

	switch e.Kind() {
	case KindGroup:
		delete(w.groups, uid)
	case KindObject:
		delete(w.objects, uid)
	case KindData:
		delete(w.data, uid)
	}
	w.deletedEntities = append(w.deletedEntities, uid)

	// Immediate type eviction: a type with no remaining referencing
	// entities is dropped right away, not deferred to a sweep.
	if t := e.EntityType(); t != nil && !w.typeInUse(t.uid) {
		delete(w.types, t.uid)
		w.deletedTypes = append(w.deletedTypes, t.uid)
	}
}

// typeInUse reports whether any registered entity references the type uid.
func (w *Workspace) typeInUse(uid uuid.UUID) bool {
	for _, g := range w.groups {
		if g.etype.uid == uid {
			return true
		}
	}
	for _, o := range w.objects {
		if o.etype.uid == uid {
			return true
		}
	}
	for _, d := range w.data {
		if d.etype.uid == uid {
			return true
		}
	}
	return false
}
