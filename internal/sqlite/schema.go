// Package sqlite implements the SQLite container store for Stratum. The
// store file is the persisted authority for a workspace: entity and type
// rows plus a side table of octree cell lists fetched lazily by the model.
package sqlite

// Schema DDL. The schema is idempotent so an existing container reopens
// with its rows intact.
const (
	createEntityTypes = `CREATE TABLE IF NOT EXISTS entity_types (
    uid TEXT PRIMARY KEY,
    class_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    allow_move_content INTEGER NOT NULL DEFAULT 0,
    allow_delete_content INTEGER NOT NULL DEFAULT 0
);`

	createEntities = `CREATE TABLE IF NOT EXISTS entities (
    uid TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    type_uid TEXT NOT NULL,
    name TEXT NOT NULL,
    parent_uid TEXT,
    position INTEGER NOT NULL DEFAULT 0,
    payload TEXT NOT NULL DEFAULT '{}',
    FOREIGN KEY (type_uid) REFERENCES entity_types(uid)
);`

	createOctreeCells = `CREATE TABLE IF NOT EXISTS octree_cells (
    entity_uid TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    i INTEGER NOT NULL,
    j INTEGER NOT NULL,
    k INTEGER NOT NULL,
    n_cells INTEGER NOT NULL,
    PRIMARY KEY (entity_uid, ordinal)
);`
)

// allSchemas lists the DDL statements executed on Attach.
var allSchemas = []string{
	createEntityTypes,
	createEntities,
	createOctreeCells,
}
