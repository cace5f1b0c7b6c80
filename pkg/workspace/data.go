package workspace

// Data is a value channel attached to an object. Values are associated with
// either the vertices or the cells of the parent object.
type Data struct {
	entityBase

	association string
	values      []float64
}

// Kind returns KindData.
func (d *Data) Kind() Kind { return KindData }

// Association returns the data association (types.AssociationVertex or
// types.AssociationCell).
func (d *Data) Association() string { return d.association }

// Values returns the channel values. The slice is the data's own storage;
// callers must not grow it.
func (d *Data) Values() []float64 { return d.values }

// SetValues replaces the channel values and marks the data modified.
func (d *Data) SetValues(values []float64) {
	d.values = values
	d.modified = true
}
