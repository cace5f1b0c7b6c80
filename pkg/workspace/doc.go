// Package workspace implements the in-memory entity model of a Stratum
// container: the uid-keyed registry of types, groups, objects and data, the
// entity lifecycle (create, register, remove, cascade), entity-type
// deduplication, property groups, and the octree spatial mesh.
//
// A Workspace is the sole owner of its entity graph. Entities hold only
// non-owning uid references to their parent and children; dropping the
// workspace's collections releases the whole graph. The registry is designed
// for single-threaded use; callers needing concurrency must serialize access
// themselves.
package workspace
