package workspace

// Group is a container node in the workspace tree. The distinguished root
// group has no parent; every other entity hangs off a group or an object.
type Group struct {
	entityBase
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// IsRoot reports whether this group is the workspace's root group.
func (g *Group) IsRoot() bool { return g.ws != nil && g.ws.root == g }
