package scene

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
)

// loadOBJ reads a minimal Wavefront OBJ subset: "v x y z" vertex positions,
// "vn x y z" vertex normals, and "f" faces referencing them either as bare
// vertex indices or "v/vt/vn" triples (texture-coordinate indices, if
// present, are ignored — this repo's textures are driven by a hit's
// geometric (u,v), not baked UVs). Faces with more than three vertices are
// fan-triangulated around the first vertex. materialIndex is a placeholder;
// Build rebinds it once the mesh's real material is resolved.
func loadOBJ(path string, materialIndex int) (geometry.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("loading obj %q: %w", path, err)
	}
	defer f.Close()

	var positions, normals []core.Vec3
	var triangles []geometry.Triangle

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return geometry.Mesh{}, fmt.Errorf("obj %q: bad vertex: %w", path, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return geometry.Mesh{}, fmt.Errorf("obj %q: bad normal: %w", path, err)
			}
			normals = append(normals, n)
		case "f":
			indices, normalIndices, err := parseFace(fields[1:], len(positions), len(normals))
			if err != nil {
				return geometry.Mesh{}, fmt.Errorf("obj %q: bad face: %w", path, err)
			}
			for i := 1; i+1 < len(indices); i++ {
				tri := faceTriangle(positions, normals, indices, normalIndices, 0, i, i+1, materialIndex)
				triangles = append(triangles, tri)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return geometry.Mesh{}, fmt.Errorf("reading obj %q: %w", path, err)
	}

	return geometry.NewMesh(triangles), nil
}

func faceTriangle(positions, normals []core.Vec3, vIdx, nIdx []int, a, b, c, material int) geometry.Triangle {
	v0, v1, v2 := positions[vIdx[a]], positions[vIdx[b]], positions[vIdx[c]]
	useVertexNormals := nIdx != nil
	var n0, n1, n2 core.Vec3
	if useVertexNormals {
		n0, n1, n2 = normals[nIdx[a]], normals[nIdx[b]], normals[nIdx[c]]
	}
	return geometry.NewTriangle(v0, v1, v2, n0, n1, n2, useVertexNormals, material)
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(x, y, z), nil
}

// parseFace parses an OBJ face's vertex/texcoord/normal index groups, each
// formatted "v", "v/vt" or "v/vt/vn", converting OBJ's 1-based (or
// negative, relative-to-end) indices to 0-based. normalIndices is nil if no
// group in the face carries a normal reference.
func parseFace(fields []string, numPositions, numNormals int) (vertexIndices, normalIndices []int, err error) {
	vertexIndices = make([]int, len(fields))
	haveNormals := false
	normalIndices = make([]int, len(fields))

	for i, group := range fields {
		parts := strings.Split(group, "/")
		v, err := parseOBJIndex(parts[0], numPositions)
		if err != nil {
			return nil, nil, err
		}
		vertexIndices[i] = v

		if len(parts) == 3 && parts[2] != "" {
			n, err := parseOBJIndex(parts[2], numNormals)
			if err != nil {
				return nil, nil, err
			}
			normalIndices[i] = n
			haveNormals = true
		}
	}
	if !haveNormals {
		return vertexIndices, nil, nil
	}
	return vertexIndices, normalIndices, nil
}

func parseOBJIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return count + n, nil
	}
	return n - 1, nil
}
