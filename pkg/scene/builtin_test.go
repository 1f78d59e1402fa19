package scene

import "testing"

func TestNewEmptySceneHasNoGeometryOrLights(t *testing.T) {
	sc, _ := NewEmptyScene()
	if sc.BVH != nil {
		t.Fatal("expected a nil BVH for an empty scene")
	}
	if len(sc.Lights().Lights) != 0 {
		t.Fatal("expected no lights in an empty scene")
	}
}

func TestNewSingleEmissiveQuadSceneHasOneLight(t *testing.T) {
	sc, _ := NewSingleEmissiveQuadScene()
	if len(sc.Lights().Lights) != 1 {
		t.Fatalf("expected exactly 1 light, got %d", len(sc.Lights().Lights))
	}
	if len(sc.Materials) != 1 {
		t.Fatalf("expected exactly 1 material, got %d", len(sc.Materials))
	}
}

func TestNewDiffuseFloorSceneHasFloorAndLight(t *testing.T) {
	sc, _ := NewDiffuseFloorScene()
	if len(sc.Materials) != 2 {
		t.Fatalf("expected 2 materials (floor + light emissive), got %d", len(sc.Materials))
	}
	if len(sc.Lights().Lights) != 1 {
		t.Fatalf("expected 1 light above the floor, got %d", len(sc.Lights().Lights))
	}
}

func TestNewSpecularMetalSceneTessellatesANonEmptyMesh(t *testing.T) {
	sc, _ := NewSpecularMetalScene()
	if sc.BVH == nil {
		t.Fatal("expected a non-nil BVH for the tessellated sphere")
	}
}

func TestNewRefractiveSlabSceneHasTwoParallelSurfaces(t *testing.T) {
	sc, _ := NewRefractiveSlabScene()
	if len(sc.Materials) != 1 {
		t.Fatalf("expected a single glass material shared by both faces, got %d", len(sc.Materials))
	}
	if sc.BVH == nil {
		t.Fatal("expected a non-nil BVH for the glass slab")
	}
}
