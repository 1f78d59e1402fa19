package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// YAMLLoader is the concrete Loader of SPEC_FULL.md §6: a compact scene
// description with a camera block, a named-materials map, mesh entries
// (inline vertices or an external .obj path), and area-light entries. It
// parses the whole document once in New, then answers the Loader
// interface's four queries from the parsed form.
type YAMLLoader struct {
	doc yamlDocument
}

type yamlDocument struct {
	Camera    yamlCamera              `yaml:"camera"`
	Materials map[string]yamlMaterial `yaml:"materials"`
	Meshes    []yamlMesh              `yaml:"meshes"`
	Lights    []yamlAreaLight         `yaml:"lights"`
}

type yamlCamera struct {
	FOVDeg float64    `yaml:"fov_deg"`
	Center [3]float64 `yaml:"center"`
	LookAt [3]float64 `yaml:"look_at"`
	Up     [3]float64 `yaml:"up"`
}

type yamlMaterial struct {
	BaseWeight    float64    `yaml:"base_weight"`
	BaseColor     [3]float64 `yaml:"base_color"`
	BaseTexture   string     `yaml:"base_texture"`
	BaseMetalness float64    `yaml:"base_metalness"`

	SpecularWeight    float64    `yaml:"specular_weight"`
	SpecularColor     [3]float64 `yaml:"specular_color"`
	SpecularRoughness float64    `yaml:"specular_roughness"`
	SpecularIOR       float64    `yaml:"specular_ior"`

	TransmissionWeight float64    `yaml:"transmission_weight"`
	TransmissionColor  [3]float64 `yaml:"transmission_color"`

	DispersionCoeff float64 `yaml:"dispersion_coeff"`

	// Procedural (Perlin) base_color input, an alternative to base_texture.
	ProceduralScale   float64    `yaml:"procedural_scale"`
	ProceduralOctaves int32      `yaml:"procedural_octaves"`
	ProceduralSeed    int64      `yaml:"procedural_seed"`
	ProceduralLow     [3]float64 `yaml:"procedural_low"`
	ProceduralHigh    [3]float64 `yaml:"procedural_high"`

	Invisible    bool `yaml:"invisible"`
	NoShadowCast bool `yaml:"no_shadow_cast"`
}

type yamlMesh struct {
	Material string        `yaml:"material"`
	OBJPath  string        `yaml:"obj"`
	Vertices [][3]float64  `yaml:"vertices"`
	Normals  [][3]float64  `yaml:"normals"`
	Faces    [][]int       `yaml:"faces"`
}

type yamlAreaLight struct {
	Q          [3]float64 `yaml:"corner"`
	U          [3]float64 `yaml:"edge_u"`
	V          [3]float64 `yaml:"edge_v"`
	Illuminant string     `yaml:"illuminant"`
	Color      [3]float64 `yaml:"color"`
	Intensity  float64    `yaml:"intensity"`
}

// NewYAMLLoader parses a scene description from path.
func NewYAMLLoader(path string) (*YAMLLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %q: %w", path, err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene %q: yaml %w", path, err)
	}
	return &YAMLLoader{doc: doc}, nil
}

func vec3Of(v [3]float64) core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

func (l *YAMLLoader) FindFirstCamera() (CameraSpec, error) {
	c := l.doc.Camera
	if c.FOVDeg <= 0 {
		return CameraSpec{}, fmt.Errorf("scene: camera.fov_deg must be positive, got %v", c.FOVDeg)
	}
	return CameraSpec{
		FOVDeg: c.FOVDeg,
		Center: vec3Of(c.Center),
		LookAt: vec3Of(c.LookAt),
		Up:     vec3Of(c.Up),
	}, nil
}

// LoadMaterials translates every named material block into a
// material.Material, always adding a synthetic "error" entry (spec §6/§7)
// so an unresolvable mesh material name can fall back to it instead of
// failing the whole load. Light entries carry no material name.
func (l *YAMLLoader) LoadMaterials(table *spectral.RGBToSpectrumTable) (map[string]material.Material, error) {
	out := make(map[string]material.Material, len(l.doc.Materials)+1)
	out["error"] = material.ErrorMaterial(table)

	for name, m := range l.doc.Materials {
		built, err := buildMaterial(m, table)
		if err != nil {
			return nil, fmt.Errorf("scene: material %q: %w", name, err)
		}
		out[name] = built
	}
	return out, nil
}

func buildMaterial(m yamlMaterial, table *spectral.RGBToSpectrumTable) (material.Material, error) {
	pbr := material.NewPBRMaterial()
	pbr.BaseWeight = m.BaseWeight
	pbr.BaseMetalness = m.BaseMetalness
	pbr.SpecularWeight = m.SpecularWeight
	pbr.SpecularColor = table.FromRGB(m.SpecularColor[0], m.SpecularColor[1], m.SpecularColor[2])
	pbr.SpecularRoughness = m.SpecularRoughness
	pbr.SpecularIOR = m.SpecularIOR
	pbr.TransmissionWeight = m.TransmissionWeight
	pbr.TransmissionColor = table.FromRGB(m.TransmissionColor[0], m.TransmissionColor[1], m.TransmissionColor[2])
	pbr.DispersionCoeff = m.DispersionCoeff
	pbr.Visible = !m.Invisible
	pbr.ShadowCast = !m.NoShadowCast

	switch {
	case m.BaseTexture != "":
		tex, err := material.LoadImageTexture(m.BaseTexture, table)
		if err != nil {
			return nil, err
		}
		pbr.BaseColor = tex
	case m.ProceduralScale > 0:
		low := table.FromRGB(m.ProceduralLow[0], m.ProceduralLow[1], m.ProceduralLow[2])
		high := table.FromRGB(m.ProceduralHigh[0], m.ProceduralHigh[1], m.ProceduralHigh[2])
		octaves := m.ProceduralOctaves
		if octaves <= 0 {
			octaves = 3
		}
		pbr.BaseColor = material.NewProceduralTexture(m.ProceduralScale, octaves, m.ProceduralSeed, low, high)
	default:
		pbr.BaseColor = material.NewConstantTexture(table.FromRGB(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]))
	}

	return pbr, nil
}

// LoadMeshes resolves each mesh entry's material name (falling back to
// "error" when unresolved) and builds its geometry either from an inline
// vertex/face list or from an external .obj file.
func (l *YAMLLoader) LoadMeshes(materials map[string]material.Material) ([]MeshInstance, error) {
	out := make([]MeshInstance, 0, len(l.doc.Meshes))

	for i, m := range l.doc.Meshes {
		mat, ok := materials[m.Material]
		if !ok {
			mat = materials["error"]
		}

		var mesh geometry.Mesh
		var err error
		switch {
		case m.OBJPath != "":
			mesh, err = loadOBJ(m.OBJPath, 0)
		default:
			mesh, err = buildInlineMesh(m)
		}
		if err != nil {
			return nil, fmt.Errorf("scene: mesh #%d: %w", i, err)
		}

		out = append(out, MeshInstance{Mesh: mesh, Material: mat})
	}
	return out, nil
}

func buildInlineMesh(m yamlMesh) (geometry.Mesh, error) {
	positions := make([]core.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = vec3Of(v)
	}
	normals := make([]core.Vec3, len(m.Normals))
	for i, v := range m.Normals {
		normals[i] = vec3Of(v)
	}
	useVertexNormals := len(normals) > 0

	triangles := make([]geometry.Triangle, 0, len(m.Faces))
	for _, face := range m.Faces {
		if len(face) != 3 {
			return geometry.Mesh{}, fmt.Errorf("inline face must have exactly 3 indices, got %d", len(face))
		}
		var n0, n1, n2 core.Vec3
		if useVertexNormals {
			n0, n1, n2 = normals[face[0]], normals[face[1]], normals[face[2]]
		}
		triangles = append(triangles, geometry.NewTriangle(
			positions[face[0]], positions[face[1]], positions[face[2]],
			n0, n1, n2, useVertexNormals, 0,
		))
	}
	return geometry.NewMesh(triangles), nil
}

// LoadAreaLights builds one emissive material and AreaLight-shaped instance
// per light entry, converting a named illuminant or RGB color into a
// spectrum via the RGB-to-spectrum table.
func (l *YAMLLoader) LoadAreaLights(table *spectral.RGBToSpectrumTable) ([]LightInstance, error) {
	out := make([]LightInstance, 0, len(l.doc.Lights))

	for i, lt := range l.doc.Lights {
		emission, err := illuminantSpectrum(lt, table)
		if err != nil {
			return nil, fmt.Errorf("scene: light #%d: %w", i, err)
		}
		out = append(out, LightInstance{
			Q:        vec3Of(lt.Q),
			U:        vec3Of(lt.U),
			V:        vec3Of(lt.V),
			Material: material.NewEmissive(emission),
		})
	}
	return out, nil
}

func illuminantSpectrum(lt yamlAreaLight, table *spectral.RGBToSpectrumTable) (spectral.Spectrum, error) {
	var base spectral.Spectrum
	switch lt.Illuminant {
	case "", "rgb":
		base = table.FromRGB(lt.Color[0], lt.Color[1], lt.Color[2])
	case "D50":
		base = spectral.D50()
	case "D65":
		base = spectral.D65()
	default:
		return spectral.Spectrum{}, fmt.Errorf("unsupported illuminant %q", lt.Illuminant)
	}

	intensity := lt.Intensity
	if intensity <= 0 {
		intensity = 1
	}
	return base.Scale(intensity), nil
}
