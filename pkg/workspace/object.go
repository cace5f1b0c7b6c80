package workspace

import (
	"fmt"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// Object is a spatial node in the workspace tree: a vertex-bearing object
// (points, curves) or a mesh. Kind-specific extensions such as octree
// geometry sit behind capability accessors.
type Object struct {
	entityBase

	vertices       [][3]float64
	propertyGroups []*PropertyGroup
	octree         *Octree
}

// Kind returns KindObject.
func (o *Object) Kind() Kind { return KindObject }

// Vertices returns the object's vertex coordinates.
func (o *Object) Vertices() [][3]float64 { return o.vertices }

// SetVertices replaces the object's vertices and marks it modified.
func (o *Object) SetVertices(vertices [][3]float64) {
	o.vertices = vertices
	o.modified = true
}

// Octree returns the object's octree geometry when this object is an octree
// mesh. The second result is false for all other object kinds.
func (o *Object) Octree() (*Octree, bool) {
	return o.octree, o.octree != nil
}

// PropertyGroups returns the object's property groups in creation order.
func (o *Object) PropertyGroups() []*PropertyGroup {
	out := make([]*PropertyGroup, len(o.propertyGroups))
	copy(out, o.propertyGroups)
	return out
}

// FindPropertyGroup returns the named property group, or nil when the object
// has none by that name.
func (o *Object) FindPropertyGroup(name string) *PropertyGroup {
	for _, pg := range o.propertyGroups {
		if pg.name == name {
			return pg
		}
	}
	return nil
}

// FindOrCreatePropertyGroup returns the named property group, creating an
// empty one when absent. Names are unique per object.
func (o *Object) FindOrCreatePropertyGroup(name string) *PropertyGroup {
	if pg := o.FindPropertyGroup(name); pg != nil {
		return pg
	}
	pg := &PropertyGroup{name: name}
	o.propertyGroups = append(o.propertyGroups, pg)
	o.modified = true
	return pg
}

// DataSpec describes one data channel to attach to an object.
type DataSpec struct {
	Name        string
	Association string  // types.AssociationVertex or types.AssociationCell
	Values      []float64

	// EntityType optionally shares an existing data type between channels.
	// When nil a fresh self-identifying type is allocated for the channel.
	EntityType *EntityType

	// PropertyGroup optionally names a property group on the object to list
	// the new channel in; the group is created when absent.
	PropertyGroup string
}

// AddData creates a data entity under this object: the data type is resolved
// (shared or freshly allocated), the entity registered with the workspace,
// attached as a child, and listed in the requested property group. The new
// data and this object are both marked modified.
func (o *Object) AddData(spec DataSpec) (*Data, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: data name must not be empty", ErrInvalidName)
	}
	if spec.Association != types.AssociationVertex && spec.Association != types.AssociationCell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAssociation, spec.Association)
	}

	dataType := spec.EntityType
	if dataType != nil {
		if dataType.kind != KindData {
			return nil, fmt.Errorf("%w: %s type used for data", ErrTypeKindMismatch, dataType.kind)
		}
		if o.ws.FindType(dataType.uid, KindData) != dataType {
			return nil, fmt.Errorf("%w: data type %s is not registered in this workspace", ErrInvalidType, dataType.uid)
		}
	} else {
		dataType = NewCustomType(o.ws, KindData, spec.Name, "")
	}

	d := &Data{
		association: spec.Association,
		values:      spec.Values,
	}
	o.ws.initEntity(&d.entityBase, dataType, spec.Name)
	o.ws.RegisterData(d)
	attachChild(o, d)

	if spec.PropertyGroup != "" {
		pg := o.FindOrCreatePropertyGroup(spec.PropertyGroup)
		pg.add(d.uid)
		o.modified = true
	}

	return d, nil
}
