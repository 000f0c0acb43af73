package texseam

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadOBJ reads a Wavefront OBJ file from path into a new Mesh. It
// recognizes v, vt, f, vn (ignored), mtllib (ignored) and usemtl lines;
// every other line is skipped. Faces must carry a UV index for every
// vertex.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Code: ErrIO, Msg: "texseam: opening mesh: " + err.Error()}
	}
	defer f.Close()

	m := NewMesh()
	currentMaterial := -1

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "v":
			if len(tokens) < 4 {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: malformed v line", lineNo)}
			}
			x, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad x coordinate %q", lineNo, tokens[1])}
			}
			y, err := strconv.ParseFloat(tokens[2], 64)
			if err != nil {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad y coordinate %q", lineNo, tokens[2])}
			}
			z, err := strconv.ParseFloat(tokens[3], 64)
			if err != nil {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad z coordinate %q", lineNo, tokens[3])}
			}
			m.V = append(m.V, Vec3{x, y, z})
		case "vt":
			if len(tokens) < 3 {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: malformed vt line", lineNo)}
			}
			u, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad u coordinate %q", lineNo, tokens[1])}
			}
			v, err := strconv.ParseFloat(tokens[2], 64)
			if err != nil {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad v coordinate %q", lineNo, tokens[2])}
			}
			m.VT = append(m.VT, Vec2{u, v})
		case "f":
			if len(tokens) < 4 {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: malformed f line", lineNo)}
			}
			face, err := parseFace(tokens[1:], lineNo)
			if err != nil {
				return nil, err
			}
			m.Face = append(m.Face, face)
			m.Mat = append(m.Mat, currentMaterial)
		case "vn":
			// normals are not used by seam fixing.
		case "mtllib":
			// the companion .mtl is regenerated on save; not parsed here.
		case "usemtl":
			if len(tokens) < 2 {
				return nil, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: usemtl with no name", lineNo)}
			}
			name := tokens[1]
			if idx, ok := m.MaterialMap[name]; ok {
				currentMaterial = idx
			} else {
				currentMaterial = len(m.Material)
				m.MaterialMap[name] = currentMaterial
				m.Material = append(m.Material, Material{Name: name})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Code: ErrIO, Msg: "texseam: reading mesh: " + err.Error()}
	}

	return m, nil
}

// parseFace parses the vertex tokens of an "f" line in pos/uv[/normal] form.
func parseFace(tokens []string, lineNo int) (Face, error) {
	var f Face
	for _, tok := range tokens {
		parts := strings.Split(tok, "/")
		if len(parts) == 0 || parts[0] == "" {
			return Face{}, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: malformed face vertex %q", lineNo, tok)}
		}
		pi, err := strconv.Atoi(parts[0])
		if err != nil {
			return Face{}, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad position index %q", lineNo, tok)}
		}
		f.PI = append(f.PI, pi-1)

		if len(parts) < 2 || parts[1] == "" {
			return Face{}, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: no texture coordinate for vertex %q", lineNo, tok)}
		}
		ti, err := strconv.Atoi(parts[1])
		if err != nil {
			return Face{}, &Error{Code: ErrMeshParse, Msg: fmt.Sprintf("texseam: mesh:%d: bad UV index %q", lineNo, tok)}
		}
		f.TI = append(f.TI, ti-1)
	}
	return f, nil
}

// SaveOBJ writes meshName+".obj" and meshName+".mtl", the latter pointing
// at textureName as its single diffuse map. When mirrorV is true, V
// coordinates are flipped on write (internal top-left origin -> OBJ's
// bottom-left origin) without mutating m.
func (m *Mesh) SaveOBJ(meshName, textureName string, mirrorV bool) error {
	mtlFilename := meshName + ".mtl"
	objFilename := meshName + ".obj"

	mtl, err := os.Create(mtlFilename)
	if err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing material file: " + err.Error()}
	}
	fmt.Fprintln(mtl, "newmtl Material_0")
	fmt.Fprintln(mtl, "Ka 1.0000 1.0000 1.0000")
	fmt.Fprintln(mtl, "Kd 1.0000 1.0000 1.0000")
	fmt.Fprintln(mtl, "Ks 0.0000 0.0000 0.0000")
	fmt.Fprintln(mtl, "d 1")
	fmt.Fprintln(mtl, "Ns 0.0000")
	fmt.Fprintln(mtl, "illum 1")
	fmt.Fprintln(mtl, "map_Kd", textureName)
	if err := mtl.Close(); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing material file: " + err.Error()}
	}

	obj, err := os.Create(objFilename)
	if err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing obj file: " + err.Error()}
	}
	w := bufio.NewWriter(obj)
	fmt.Fprintln(w, "mtllib ./"+mtlFilename)
	for _, v := range m.V {
		fmt.Fprintf(w, "v %v %v %v\n", v.X, v.Y, v.Z)
	}
	for _, vt := range m.VT {
		y := vt.Y
		if mirrorV {
			y = 1 - y
		}
		fmt.Fprintf(w, "vt %v %v\n", vt.X, y)
	}
	fmt.Fprintln(w, "usemtl  Material_0")
	for _, f := range m.Face {
		fmt.Fprint(w, "f")
		for i := range f.PI {
			fmt.Fprintf(w, " %d/%d", f.PI[i]+1, f.TI[i]+1)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing obj file: " + err.Error()}
	}
	return obj.Close()
}
