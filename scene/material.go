package scene

import (
	"soft-render/core"
	"soft-render/textures"
)

// Material describes the surface appearance the software shaders support:
// a diffuse color, optionally modulated by a diffuse texture.
type Material struct {
	Name    string
	Diffuse core.Color // base diffuse color (multiplied with the texture if set)

	// DiffuseTexture is optional. TexturePath records where it came from.
	DiffuseTexture *textures.Texture
	TexturePath    string
}

// DefaultMaterial returns a plain white material.
func DefaultMaterial() *Material {
	return &Material{
		Name:    "Default",
		Diffuse: core.ColorWhite,
	}
}

// NewMaterial creates a material with the given diffuse color.
func NewMaterial(name string, diffuse core.Color) *Material {
	return &Material{
		Name:    name,
		Diffuse: diffuse,
	}
}
