package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rayspectral/raydar/pkg/spectral"
)

const sceneYAML = `
camera:
  fov_deg: 60
  center: [0, 2, 5]
  look_at: [0, 0, 0]
  up: [0, 1, 0]
materials:
  floor:
    base_weight: 1
    base_color: [0.6, 0.6, 0.6]
meshes:
  - material: floor
    vertices:
      - [-5, 0, -5]
      - [5, 0, -5]
      - [5, 0, 5]
      - [-5, 0, 5]
    faces:
      - [0, 1, 2]
      - [0, 2, 3]
lights:
  - corner: [-1, 5, -1]
    edge_u: [2, 0, 0]
    edge_v: [0, 0, 2]
    intensity: 4
`

func writeTempScene(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp scene: %v", err)
	}
	return path
}

func TestYAMLLoaderFindFirstCamera(t *testing.T) {
	path := writeTempScene(t, sceneYAML)
	loader, err := NewYAMLLoader(path)
	if err != nil {
		t.Fatalf("NewYAMLLoader: %v", err)
	}

	cam, err := loader.FindFirstCamera()
	if err != nil {
		t.Fatalf("FindFirstCamera: %v", err)
	}
	if cam.FOVDeg != 60 {
		t.Fatalf("expected fov_deg 60, got %v", cam.FOVDeg)
	}
}

func TestYAMLLoaderLoadMaterialsIncludesErrorFallback(t *testing.T) {
	path := writeTempScene(t, sceneYAML)
	loader, _ := NewYAMLLoader(path)
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)

	materials, err := loader.LoadMaterials(table)
	if err != nil {
		t.Fatalf("LoadMaterials: %v", err)
	}
	if _, ok := materials["floor"]; !ok {
		t.Fatal("expected the named \"floor\" material to be present")
	}
	if _, ok := materials["error"]; !ok {
		t.Fatal("expected a synthetic \"error\" material fallback")
	}
}

func TestYAMLLoaderLoadMeshesBuildsTwoTriangles(t *testing.T) {
	path := writeTempScene(t, sceneYAML)
	loader, _ := NewYAMLLoader(path)
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)
	materials, _ := loader.LoadMaterials(table)

	meshes, err := loader.LoadMeshes(materials)
	if err != nil {
		t.Fatalf("LoadMeshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh instance, got %d", len(meshes))
	}
	if len(meshes[0].Mesh.Triangles) != 2 {
		t.Fatalf("expected 2 triangles from the quad face list, got %d", len(meshes[0].Mesh.Triangles))
	}
}

func TestYAMLLoaderLoadAreaLights(t *testing.T) {
	path := writeTempScene(t, sceneYAML)
	loader, _ := NewYAMLLoader(path)
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)

	lightInstances, err := loader.LoadAreaLights(table)
	if err != nil {
		t.Fatalf("LoadAreaLights: %v", err)
	}
	if len(lightInstances) != 1 {
		t.Fatalf("expected 1 light instance, got %d", len(lightInstances))
	}
	if lightInstances[0].Material.FastPreviewColor().IsBlack() {
		t.Fatal("expected a non-black emissive material for the configured light")
	}
}

func TestBuildAssemblesSceneEndToEnd(t *testing.T) {
	path := writeTempScene(t, sceneYAML)
	loader, err := NewYAMLLoader(path)
	if err != nil {
		t.Fatalf("NewYAMLLoader: %v", err)
	}
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)

	sc, cam, err := Build(loader, table, spectral.NewSpectrum())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cam.FOVDeg != 60 {
		t.Fatalf("expected fov_deg 60, got %v", cam.FOVDeg)
	}
	if len(sc.Materials) != 2 {
		t.Fatalf("expected 2 resolved materials (floor + light emissive), got %d", len(sc.Materials))
	}
	if sc.BVH == nil {
		t.Fatal("expected Build to construct a non-nil BVH")
	}
	if len(sc.Lights().Lights) != 1 {
		t.Fatalf("expected 1 light in the sampler, got %d", len(sc.Lights().Lights))
	}
}
