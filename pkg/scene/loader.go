package scene

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/lights"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// CameraSpec is the scene-description form of a camera: a field of view in
// degrees plus the three vectors geometry.NewCamera needs.
type CameraSpec struct {
	FOVDeg             float64
	Center, LookAt, Up core.Vec3
}

// MeshInstance pairs geometry with the material it was authored to use,
// before the material is resolved to an index into the scene's flat table.
type MeshInstance struct {
	Mesh     geometry.Mesh
	Material material.Material
}

// LightInstance pairs an area light with the emissive material backing it,
// mirroring MeshInstance's pre-index-resolution shape.
type LightInstance struct {
	Q, U, V  core.Vec3
	Material material.Material
}

// Loader is the scene-description adapter interface of SPEC_FULL.md §6: a
// concrete format (YAML today) implements it to hand the renderer a camera,
// a resolved material table, and pre-material mesh/light instances. Loaders
// never build index tables or the BVH themselves — Build (below) does that
// uniformly regardless of source format, so a second Loader implementation
// (e.g. a future PBRT adapter) only has to parse, never wire.
type Loader interface {
	FindFirstCamera() (CameraSpec, error)
	LoadMaterials(table *spectral.RGBToSpectrumTable) (map[string]material.Material, error)
	LoadMeshes(materials map[string]material.Material) ([]MeshInstance, error)
	LoadAreaLights(table *spectral.RGBToSpectrumTable) ([]LightInstance, error)
}

// Build runs a Loader end to end and assembles the resulting Scene: it
// resolves every mesh's and light's material to an index into one flat
// table (spec §9's cyclic-reference design — a HitRecord only ever carries
// an int, never a pointer back into the table that contains it). The
// "error" material a Loader.LoadMaterials substitutes for an unresolved
// name (material.ErrorMaterial) is just another entry in that table by the
// time Build sees it.
func Build(loader Loader, table *spectral.RGBToSpectrumTable, background spectral.Spectrum) (*Scene, CameraSpec, error) {
	cameraSpec, err := loader.FindFirstCamera()
	if err != nil {
		return nil, CameraSpec{}, err
	}

	namedMaterials, err := loader.LoadMaterials(table)
	if err != nil {
		return nil, CameraSpec{}, err
	}

	meshInstances, err := loader.LoadMeshes(namedMaterials)
	if err != nil {
		return nil, CameraSpec{}, err
	}

	lightInstances, err := loader.LoadAreaLights(table)
	if err != nil {
		return nil, CameraSpec{}, err
	}

	materials := make([]material.Material, 0, len(meshInstances)+len(lightInstances)+1)
	indexOf := make(map[material.Material]int)

	resolve := func(m material.Material) int {
		if idx, ok := indexOf[m]; ok {
			return idx
		}
		idx := len(materials)
		materials = append(materials, m)
		indexOf[m] = idx
		return idx
	}

	meshes := make([]geometry.Mesh, 0, len(meshInstances))
	for _, inst := range meshInstances {
		idx := resolve(inst.Material)
		meshes = append(meshes, rebindMesh(inst.Mesh, idx))
	}

	areaLights := make([]*lights.AreaLight, 0, len(lightInstances))
	for _, inst := range lightInstances {
		idx := resolve(inst.Material)
		areaLights = append(areaLights, lights.NewAreaLight(inst.Q, inst.U, inst.V, idx))
	}

	sc := NewScene(materials, meshes, areaLights, background)
	return sc, cameraSpec, nil
}

// rebindMesh rewrites every triangle in m to reference materialIndex,
// since a Loader hands Build a Mesh whose triangles still carry whatever
// placeholder index LoadMeshes used internally.
func rebindMesh(m geometry.Mesh, materialIndex int) geometry.Mesh {
	triangles := make([]geometry.Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		triangles[i] = t.WithMaterial(materialIndex)
	}
	return geometry.NewMesh(triangles)
}
