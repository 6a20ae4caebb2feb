package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"os"
	"strconv"

	"soft-render/scene"
)

// ExportOBJ writes mesh as Wavefront OBJ text. Pools are written in order,
// so indices round-trip through scene.ParseOBJ unchanged.
func ExportOBJ(w stdio.Writer, mesh *scene.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# soft-render export\no %s\n", objName(mesh.Name))
	for _, p := range mesh.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(p.X), ftoa(p.Y), ftoa(p.Z))
	}
	for _, t := range mesh.UVs {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(t.X), ftoa(t.Y))
	}
	for _, n := range mesh.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
	}
	for _, face := range mesh.Faces {
		bw.WriteString("f")
		for _, c := range face {
			fmt.Fprintf(bw, " %d/%d/%d", c.V+1, c.VT+1, c.VN+1)
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

// SaveOBJ validates mesh and writes it to path.
func SaveOBJ(path string, mesh *scene.Mesh) error {
	if err := mesh.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	if err := ExportOBJ(f, mesh); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func objName(name string) string {
	if name == "" {
		return "mesh"
	}
	return name
}
