package workspace

import "errors"

// Identity and lifecycle errors.
var (
	ErrInvalidType       = errors.New("entity type has no valid uid")
	ErrTypeKindMismatch  = errors.New("entity type belongs to a different kind")
	ErrMissingParent     = errors.New("parent does not belong to this workspace")
	ErrInvalidParentKind = errors.New("parent must be a group or an object")
	ErrWorkspaceClosed   = errors.New("workspace is closed")
	ErrNoActiveWorkspace = errors.New("no active workspace")
	ErrNoStore           = errors.New("workspace has no container store")
)

// Geometry consistency errors. These indicate programming errors, not
// recoverable conditions; callers should treat them as fatal to the call.
var (
	ErrAlreadyRefined     = errors.New("octree cells are already set")
	ErrIncompleteGeometry = errors.New("octree geometry is not fully parameterized")
	ErrInvalidGeometry    = errors.New("invalid octree geometry value")
	ErrInvalidAssociation = errors.New("invalid data association")
	ErrInvalidName        = errors.New("invalid name")
)
