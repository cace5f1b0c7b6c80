package workspace

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// SaveEntity writes one entity's record and its type record to the attached
// store and clears the entity's modified flag. Octree cell lists that have
// been produced are written alongside the record.
func (w *Workspace) SaveEntity(e Entity) error {
	if w.store == nil {
		return ErrNoStore
	}
	t := e.EntityType()
	if err := w.store.SaveType(typeRecord(t)); err != nil {
		return fmt.Errorf("save type %s: %w", t.uid, err)
	}
	if err := w.store.SaveEntity(entityRecord(e)); err != nil {
		return fmt.Errorf("save entity %s: %w", e.UID(), err)
	}
	if o, ok := e.(*Object); ok {
		if octree, ok := o.Octree(); ok && octree.cells != nil {
			if err := w.store.SaveOctreeCells(o.uid, octree.cells); err != nil {
				return fmt.Errorf("save octree cells %s: %w", o.uid, err)
			}
		}
	}
	e.base().modified = false
	return nil
}

// Save flushes removals recorded since the last save, then writes every
// entity still flagged modified.
func (w *Workspace) Save() error {
	if w.store == nil {
		return ErrNoStore
	}

	for _, uid := range w.deletedEntities {
		if err := w.store.DeleteEntity(uid); err != nil {
			return fmt.Errorf("delete entity %s: %w", uid, err)
		}
	}
	w.deletedEntities = nil
	for _, uid := range w.deletedTypes {
		if err := w.store.DeleteType(uid); err != nil {
			return fmt.Errorf("delete type %s: %w", uid, err)
		}
	}
	w.deletedTypes = nil

	for _, e := range w.modifiedEntities() {
		if err := w.SaveEntity(e); err != nil {
			return err
		}
	}
	return nil
}

// Finalize saves pending changes and flushes the store to its file.
func (w *Workspace) Finalize() error {
	if err := w.Save(); err != nil {
		return err
	}
	return w.store.Finalize()
}

// modifiedEntities returns all entities flagged modified, parents before
// children so the store always sees a parent row before its child rows.
func (w *Workspace) modifiedEntities() []Entity {
	var out []Entity
	var walk func(e Entity)
	walk = func(e Entity) {
		if e.Modified() {
			out = append(out, e)
		}
		for _, child := range e.Children() {
			walk(child)
		}
	}
	if w.root != nil {
		walk(w.root)
	}
	return out
}

func typeRecord(t *EntityType) types.TypeRecord {
	return types.TypeRecord{
		UID:                t.uid,
		ClassID:            t.ClassID(),
		Kind:               t.kind.String(),
		Name:               t.name,
		Description:        t.description,
		AllowMoveContent:   t.allowMoveContent,
		AllowDeleteContent: t.allowDeleteContent,
	}
}

func entityRecord(e Entity) types.EntityRecord {
	rec := types.EntityRecord{
		UID:      e.UID(),
		Kind:     e.Kind().String(),
		TypeUID:  e.EntityType().uid,
		Name:     e.Name(),
		Position: childPosition(e),
	}
	if parent := e.Parent(); parent != nil {
		rec.ParentUID = parent.UID()
	}

	switch v := e.(type) {
	case *Object:
		rec.Vertices = v.vertices
		for _, pg := range v.propertyGroups {
			rec.PropertyGroups = append(rec.PropertyGroups, types.PropertyGroupRecord{
				Name:       pg.name,
				Properties: pg.Properties(),
			})
		}
		if octree, ok := v.Octree(); ok {
			rec.Octree = &types.OctreeRecord{
				Origin:    octree.origin,
				Rotation:  octree.rotation,
				UCount:    octree.uCount,
				VCount:    octree.vCount,
				WCount:    octree.wCount,
				UCellSize: octree.uCellSize,
				VCellSize: octree.vCellSize,
				WCellSize: octree.wCellSize,
			}
		}
	case *Data:
		rec.Association = v.association
		rec.Values = v.values
	}
	return rec
}

// Load rebuilds a workspace from an attached container store. Octree cell
// lists are not loaded eagerly; each loaded octree fetches its cells from
// the store on first access.
func Load(store types.ContainerStore) (*Workspace, error) {
	w := newEmpty()
	w.store = store

	typeRecs, err := store.LoadTypes()
	if err != nil {
		return nil, fmt.Errorf("load types: %w", err)
	}
	for _, rec := range typeRecs {
		kind := kindFromName(rec.Kind)
		if kind == KindUnknown {
			return nil, fmt.Errorf("%w: type %s has kind %q", types.ErrInvalidRecord, rec.UID, rec.Kind)
		}
		classID := rec.ClassID
		if classID == rec.UID {
			classID = uuid.Nil // normalized back to "defaults to uid"
		}
		w.RegisterType(&EntityType{
			uid:                rec.UID,
			classID:            classID,
			kind:               kind,
			name:               rec.Name,
			description:        rec.Description,
			allowMoveContent:   rec.AllowMoveContent,
			allowDeleteContent: rec.AllowDeleteContent,
		})
	}

	entityRecs, err := store.LoadEntities()
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}

	// First pass: construct and register every entity.
	for _, rec := range entityRecs {
		kind := kindFromName(rec.Kind)
		t := w.FindType(rec.TypeUID, kind)
		if t == nil {
			return nil, fmt.Errorf("%w: entity %s references unknown type %s", types.ErrInvalidRecord, rec.UID, rec.TypeUID)
		}
		switch kind {
		case KindGroup:
			g := &Group{}
			loadBase(&g.entityBase, w, rec, t)
			w.RegisterGroup(g)
			if rec.ParentUID == uuid.Nil {
				w.root = g
			}
		case KindObject:
			o := &Object{vertices: rec.Vertices}
			loadBase(&o.entityBase, w, rec, t)
			for _, pgRec := range rec.PropertyGroups {
				o.propertyGroups = append(o.propertyGroups, &PropertyGroup{
					name:       pgRec.Name,
					properties: pgRec.Properties,
				})
			}
			if rec.Octree != nil {
				o.octree = &Octree{
					object:    o,
					origin:    rec.Octree.Origin,
					rotation:  rec.Octree.Rotation,
					uCount:    rec.Octree.UCount,
					vCount:    rec.Octree.VCount,
					wCount:    rec.Octree.WCount,
					uCellSize: rec.Octree.UCellSize,
					vCellSize: rec.Octree.VCellSize,
					wCellSize: rec.Octree.WCellSize,
					fromStore: true,
				}
			}
			w.RegisterObject(o)
		case KindData:
			d := &Data{association: rec.Association, values: rec.Values}
			loadBase(&d.entityBase, w, rec, t)
			w.RegisterData(d)
		default:
			return nil, fmt.Errorf("%w: entity %s has kind %q", types.ErrInvalidRecord, rec.UID, rec.Kind)
		}
	}

	if w.root == nil {
		return nil, fmt.Errorf("%w: container has no root group", types.ErrInvalidRecord)
	}

	// Second pass: rebuild child lists in position order.
	sort.SliceStable(entityRecs, func(i, j int) bool {
		return entityRecs[i].Position < entityRecs[j].Position
	})
	for _, rec := range entityRecs {
		if rec.ParentUID == uuid.Nil {
			continue
		}
		parent := w.FindEntity(rec.ParentUID)
		if parent == nil {
			return nil, fmt.Errorf("%w: entity %s references unknown parent %s", types.ErrInvalidRecord, rec.UID, rec.ParentUID)
		}
		child := w.FindEntity(rec.UID)
		parent.base().children = append(parent.base().children, rec.UID)
		child.base().parentUID = rec.ParentUID
	}

	return w, nil
}

// loadBase fills shared entity state from a record, leaving the entity
// unmodified: loaded entities have nothing to save.
func loadBase(b *entityBase, w *Workspace, rec types.EntityRecord, t *EntityType) {
	b.ws = w
	b.uid = rec.UID
	b.name = rec.Name
	b.etype = t
}
