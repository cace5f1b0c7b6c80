// Record persistence for the SQLite container store. Kind-specific entity
// payloads (vertices, property groups, octree parameters, data values) are
// carried in a JSON column; identity and tree columns stay relational so
// loads can order children by parent and position.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// entityPayload is the JSON shape of the entities.payload column.
type entityPayload struct {
	Vertices       [][3]float64                `json:"vertices,omitempty"`
	PropertyGroups []types.PropertyGroupRecord `json:"property_groups,omitempty"`
	Octree         *types.OctreeRecord         `json:"octree,omitempty"`
	Association    string                      `json:"association,omitempty"`
	Values         []float64                   `json:"values,omitempty"`
}

// SaveType inserts or replaces a type record.
func (s *Store) SaveType(rec types.TypeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if rec.UID == uuid.Nil {
		return fmt.Errorf("%w: type record has nil uid", types.ErrInvalidRecord)
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO entity_types
         (uid, class_id, kind, name, description, allow_move_content, allow_delete_content)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.UID.String(), rec.ClassID.String(), rec.Kind, rec.Name, rec.Description,
		boolToInt(rec.AllowMoveContent), boolToInt(rec.AllowDeleteContent),
	)
	if err != nil {
		return fmt.Errorf("persisting type %s: %w", rec.UID, err)
	}
	return nil
}

// SaveEntity inserts or replaces an entity record.
func (s *Store) SaveEntity(rec types.EntityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if rec.UID == uuid.Nil {
		return fmt.Errorf("%w: entity record has nil uid", types.ErrInvalidRecord)
	}

	payload, err := json.Marshal(entityPayload{
		Vertices:       rec.Vertices,
		PropertyGroups: rec.PropertyGroups,
		Octree:         rec.Octree,
		Association:    rec.Association,
		Values:         rec.Values,
	})
	if err != nil {
		return fmt.Errorf("marshaling entity payload: %w", err)
	}

	var parent any
	if rec.ParentUID != uuid.Nil {
		parent = rec.ParentUID.String()
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO entities
         (uid, kind, type_uid, name, parent_uid, position, payload)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.UID.String(), rec.Kind, rec.TypeUID.String(), rec.Name, parent, rec.Position, string(payload),
	)
	if err != nil {
		return fmt.Errorf("persisting entity %s: %w", rec.UID, err)
	}
	return nil
}

// DeleteEntity removes an entity row and any octree cells stored under its
// uid. Deleting an absent uid is a no-op.
func (s *Store) DeleteEntity(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM octree_cells WHERE entity_uid = ?", uid.String()); err != nil {
		return fmt.Errorf("deleting octree cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entities WHERE uid = ?", uid.String()); err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity deletion: %w", err)
	}
	return nil
}

// DeleteType removes a type row. Deleting an absent uid is a no-op.
func (s *Store) DeleteType(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if _, err := s.db.Exec("DELETE FROM entity_types WHERE uid = ?", uid.String()); err != nil {
		return fmt.Errorf("deleting type: %w", err)
	}
	return nil
}

// SaveOctreeCells replaces the cell list stored under an object uid.
func (s *Store) SaveOctreeCells(uid uuid.UUID, cells []types.OctreeCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM octree_cells WHERE entity_uid = ?", uid.String()); err != nil {
		return fmt.Errorf("clearing octree cells: %w", err)
	}
	for ordinal, c := range cells {
		_, err := tx.Exec(
			"INSERT INTO octree_cells (entity_uid, ordinal, i, j, k, n_cells) VALUES (?, ?, ?, ?, ?, ?)",
			uid.String(), ordinal, c.I, c.J, c.K, c.NCells,
		)
		if err != nil {
			return fmt.Errorf("inserting octree cell %d: %w", ordinal, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing octree cells: %w", err)
	}
	return nil
}

// FetchOctreeCells returns the cell list stored under an object uid in
// stored order. Returns ErrNotFound when no cells are stored for uid.
func (s *Store) FetchOctreeCells(uid uuid.UUID) ([]types.OctreeCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(
		"SELECT i, j, k, n_cells FROM octree_cells WHERE entity_uid = ? ORDER BY ordinal ASC",
		uid.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying octree cells: %w", err)
	}
	defer rows.Close()

	var cells []types.OctreeCell
	for rows.Next() {
		var c types.OctreeCell
		if err := rows.Scan(&c.I, &c.J, &c.K, &c.NCells); err != nil {
			return nil, fmt.Errorf("scanning octree cell: %w", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating octree cells: %w", err)
	}
	if cells == nil {
		return nil, types.ErrNotFound
	}
	return cells, nil
}

// LoadTypes returns every persisted type record.
func (s *Store) LoadTypes() ([]types.TypeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(
		`SELECT uid, class_id, kind, name, description, allow_move_content, allow_delete_content
         FROM entity_types`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying types: %w", err)
	}
	defer rows.Close()

	var recs []types.TypeRecord
	for rows.Next() {
		rec, err := hydrateType(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating type: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating types: %w", err)
	}
	return recs, nil
}

// LoadEntities returns every persisted entity record, ordered by parent and
// position so children rebuild in insertion order.
func (s *Store) LoadEntities() ([]types.EntityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(
		`SELECT uid, kind, type_uid, name, parent_uid, position, payload
         FROM entities ORDER BY parent_uid, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var recs []types.EntityRecord
	for rows.Next() {
		rec, err := hydrateEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating entity: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return recs, nil
}

// hydrateType converts an entity_types row into a TypeRecord.
func hydrateType(rows *sql.Rows) (types.TypeRecord, error) {
	var rec types.TypeRecord
	var uid, classID string
	var allowMove, allowDelete int
	if err := rows.Scan(&uid, &classID, &rec.Kind, &rec.Name, &rec.Description, &allowMove, &allowDelete); err != nil {
		return rec, err
	}
	var err error
	if rec.UID, err = uuid.Parse(uid); err != nil {
		return rec, fmt.Errorf("parsing type uid: %w", err)
	}
	if rec.ClassID, err = uuid.Parse(classID); err != nil {
		return rec, fmt.Errorf("parsing class id: %w", err)
	}
	rec.AllowMoveContent = allowMove != 0
	rec.AllowDeleteContent = allowDelete != 0
	return rec, nil
}

// hydrateEntity converts an entities row into an EntityRecord.
func hydrateEntity(rows *sql.Rows) (types.EntityRecord, error) {
	var rec types.EntityRecord
	var uid, typeUID, payload string
	var parent sql.NullString
	if err := rows.Scan(&uid, &rec.Kind, &typeUID, &rec.Name, &parent, &rec.Position, &payload); err != nil {
		return rec, err
	}
	var err error
	if rec.UID, err = uuid.Parse(uid); err != nil {
		return rec, fmt.Errorf("parsing entity uid: %w", err)
	}
	if rec.TypeUID, err = uuid.Parse(typeUID); err != nil {
		return rec, fmt.Errorf("parsing type uid: %w", err)
	}
	if parent.Valid {
		if rec.ParentUID, err = uuid.Parse(parent.String); err != nil {
			return rec, fmt.Errorf("parsing parent uid: %w", err)
		}
	}

	var p entityPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return rec, fmt.Errorf("parsing entity payload: %w", err)
	}
	rec.Vertices = p.Vertices
	rec.PropertyGroups = p.PropertyGroups
	rec.Octree = p.Octree
	rec.Association = p.Association
	rec.Values = p.Values
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
