package workspace

import "github.com/google/uuid"

// PropertyGroup clusters related data channels on an object under a name
// (for example "Observed" or "Uncertainties"). Names are unique per object;
// Properties lists data uids in insertion order. Every listed uid must
// reference a live data child of the owning object; RemoveEntity purges
// removed data from all groups that reference it.
type PropertyGroup struct {
	name       string
	properties []uuid.UUID
}

// Name returns the group's name.
func (pg *PropertyGroup) Name() string { return pg.name }

// Properties returns the listed data uids in order. The returned slice is a
// copy; mutating it does not affect the group.
func (pg *PropertyGroup) Properties() []uuid.UUID {
	out := make([]uuid.UUID, len(pg.properties))
	copy(out, pg.properties)
	return out
}

// Contains reports whether the group lists the given data uid.
func (pg *PropertyGroup) Contains(uid uuid.UUID) bool {
	for _, p := range pg.properties {
		if p == uid {
			return true
		}
	}
	return false
}

// add appends a data uid unless already listed.
func (pg *PropertyGroup) add(uid uuid.UUID) {
	if pg.Contains(uid) {
		return
	}
	pg.properties = append(pg.properties, uid)
}

// remove drops a data uid if listed. Removing an absent uid is a no-op.
func (pg *PropertyGroup) remove(uid uuid.UUID) {
	for i, p := range pg.properties {
		if p == uid {
			pg.properties = append(pg.properties[:i], pg.properties[i+1:]...)
			return
		}
	}
}
