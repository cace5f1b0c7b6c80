package workspace

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

func TestAddDataValidation(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	tests := []struct {
		name    string
		spec    DataSpec
		wantErr error
	}{
		{
			name:    "empty name",
			spec:    DataSpec{Association: types.AssociationVertex},
			wantErr: ErrInvalidName,
		},
		{
			name:    "empty association",
			spec:    DataSpec{Name: "grade"},
			wantErr: ErrInvalidAssociation,
		},
		{
			name:    "unknown association",
			spec:    DataSpec{Name: "grade", Association: "face"},
			wantErr: ErrInvalidAssociation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := obj.AddData(tt.spec)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAddDataAllocatesCustomType(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	a, err := obj.AddData(DataSpec{Name: "grade", Association: types.AssociationVertex, Values: []float64{1}})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}
	b, err := obj.AddData(DataSpec{Name: "grade", Association: types.AssociationVertex, Values: []float64{2}})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}

	if a.EntityType() == b.EntityType() {
		t.Fatal("each channel without a shared type must get its own type")
	}
	if a.Parent() != Entity(obj) || b.Parent() != Entity(obj) {
		t.Fatal("data entities must hang under their object")
	}
}

func TestAddDataSharedType(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	shared, err := FindOrCreateType(w, FloatDataType)
	if err != nil {
		t.Fatalf("FindOrCreateType failed: %v", err)
	}

	a, err := obj.AddData(DataSpec{Name: "au", Association: types.AssociationVertex, EntityType: shared})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}
	b, err := obj.AddData(DataSpec{Name: "cu", Association: types.AssociationVertex, EntityType: shared})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}
	if a.EntityType() != shared || b.EntityType() != shared {
		t.Fatal("channels sharing a type must reference the same instance")
	}
}

func TestAddDataRejectsBadSharedType(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	notData, err := FindOrCreateType(w, CurveType)
	if err != nil {
		t.Fatalf("FindOrCreateType failed: %v", err)
	}
	_, err = obj.AddData(DataSpec{Name: "x", Association: types.AssociationVertex, EntityType: notData})
	if !errors.Is(err, ErrTypeKindMismatch) {
		t.Fatalf("expected ErrTypeKindMismatch, got %v", err)
	}

	other := New()
	defer other.Close()
	foreign, err := FindOrCreateType(other, FloatDataType)
	if err != nil {
		t.Fatalf("FindOrCreateType failed: %v", err)
	}
	_, err = obj.AddData(DataSpec{Name: "x", Association: types.AssociationVertex, EntityType: foreign})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestAddDataPropertyGroupListing(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	a, err := obj.AddData(DataSpec{Name: "au", Association: types.AssociationVertex, PropertyGroup: "assays"})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}
	b, err := obj.AddData(DataSpec{Name: "cu", Association: types.AssociationVertex, PropertyGroup: "assays"})
	if err != nil {
		t.Fatalf("AddData failed: %v", err)
	}

	groups := obj.PropertyGroups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 property group, got %d", len(groups))
	}
	props := groups[0].Properties()
	if len(props) != 2 || props[0] != a.UID() || props[1] != b.UID() {
		t.Fatalf("property group must list both channels in order, got %v", props)
	}
}

func TestFindOrCreatePropertyGroup(t *testing.T) {
	w := New()
	defer w.Close()

	obj, err := w.CreateObject(PointsType, "pts", nil)
	if err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}

	first := obj.FindOrCreatePropertyGroup("assays")
	second := obj.FindOrCreatePropertyGroup("assays")
	if first != second {
		t.Fatal("property group names are unique per object")
	}
	if obj.FindPropertyGroup("missing") != nil {
		t.Fatal("expected nil for an unknown property group name")
	}
}
