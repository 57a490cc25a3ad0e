package texture

import "github.com/avitk/texweld/internal/pixel"

// Role names one optional input image, resolved by file stem.
type Role string

const (
	RoleDiffuse      Role = "diffuse"
	RoleNormal       Role = "normal"
	RoleSpecular     Role = "specular"
	RoleGlow         Role = "glow"
	RoleSkinTint     Role = "skin_tint"
	RoleHeight       Role = "height"
	RoleCubemap      Role = "cubemap"
	RoleEnvMask      Role = "env_mask"
	RoleInnerDiffuse Role = "inner_diffuse"
	RoleInnerDepth   Role = "inner_depth"
	RoleSubsurface   Role = "subsurface"
	RoleBacklight    Role = "backlight"
	RoleMetallic     Role = "metallic"
	RoleGlossiness   Role = "glossiness"
)

// Roles lists every recognized input role.
var Roles = []Role{
	RoleDiffuse, RoleNormal, RoleSpecular, RoleGlow, RoleSkinTint,
	RoleHeight, RoleCubemap, RoleEnvMask, RoleInnerDiffuse, RoleInnerDepth,
	RoleSubsurface, RoleBacklight, RoleMetallic, RoleGlossiness,
}

// Options holds the policy flags for one composition run. The value is
// threaded explicitly through the engine; nothing in this package keeps
// flag state between calls.
type Options struct {
	// Legacy restricts format selection to what pre-BC4 renderers decode.
	Legacy bool

	// HighQuality upgrades color composites from BC1 to BC7.
	HighQuality bool

	// TerrainParallax packs the height channel into the diffuse alpha.
	TerrainParallax bool

	// ComplexParallax packs env_mask, glossiness, metallic and height
	// into a four-channel environment mask composite.
	ComplexParallax bool
}

// channel indexes one byte of an RGBA pixel.
type channel int

const (
	chR channel = iota
	chG
	chB
	chA
)

// assign routes the first channel of a source role into one channel of
// the composite. Assignments whose role is absent are skipped silently;
// the slot keeps whatever the seed or fill put there.
type assign struct {
	src Role
	dst channel
}

// categoryRule resolves the semantic category of a finished composite
// from the available sources and the slot's primary image.
type categoryRule func(src Sources, primary *pixel.Image) (Category, error)

// slotSpec declares one output texture slot. The composition driver in
// compose.go interprets these; adding a slot means adding a row, not a
// function.
type slotSpec struct {
	name     string // operator-facing slot name, used in diagnostics
	suffix   string // appended to the output stem before the extension
	primary  []Role // first present role seeds the dimensions
	required bool   // no primary present is an error rather than silence
	seed     bool   // copy the primary into the composite before assignments
	fill     [4]uint8
	assigns  []assign
	category categoryRule
	forceHQ  bool // content where block artifacts are unacceptable
}

// slotTable builds the output slot catalog for one run. TerrainParallax
// and ComplexParallax swap in the packing variants of the diffuse and
// environment mask slots; everything else is fixed.
func slotTable(opts Options) []slotSpec {
	diffuse := slotSpec{
		name:     "diffuse",
		primary:  []Role{RoleDiffuse},
		seed:     true,
		category: classifyPrimary,
	}
	if opts.TerrainParallax {
		diffuse.assigns = []assign{{RoleHeight, chA}}
		diffuse.category = terrainDiffuseCategory
	}

	envMask := slotSpec{
		name:     "environment mask",
		suffix:   "_m",
		primary:  []Role{RoleEnvMask},
		seed:     true,
		category: fixedCategory(CategoryGrayscale),
	}
	if opts.ComplexParallax {
		envMask = slotSpec{
			name:     "complex parallax",
			suffix:   "_m",
			primary:  []Role{RoleEnvMask, RoleGlossiness, RoleMetallic, RoleHeight},
			required: true,
			fill:     [4]uint8{0, 5, 0, 255},
			assigns: []assign{
				{RoleEnvMask, chR},
				{RoleGlossiness, chG},
				{RoleMetallic, chB},
				{RoleHeight, chA},
			},
			category: fixedCategory(CategoryRGBFullAlpha),
		}
	}

	return []slotSpec{
		diffuse,
		{
			name:     "normal",
			suffix:   "_n",
			primary:  []Role{RoleNormal},
			seed:     true,
			assigns:  []assign{{RoleSpecular, chA}},
			category: alphaCarrierCategory(RoleSpecular),
			forceHQ:  true,
		},
		{name: "glow", suffix: "_g", primary: []Role{RoleGlow}, seed: true, category: fixedCategory(CategoryRGB)},
		{name: "skin tint", suffix: "_sk", primary: []Role{RoleSkinTint}, seed: true, category: fixedCategory(CategoryRGB)},
		{name: "height", suffix: "_p", primary: []Role{RoleHeight}, seed: true, category: fixedCategory(CategoryGrayscale)},
		{name: "cubemap", suffix: "_e", primary: []Role{RoleCubemap}, seed: true, category: fixedCategory(CategoryGrayscale)},
		envMask,
		{
			name:     "inner diffuse",
			suffix:   "_i",
			primary:  []Role{RoleInnerDiffuse},
			seed:     true,
			assigns:  []assign{{RoleInnerDepth, chA}},
			category: alphaCarrierCategory(RoleInnerDepth),
			forceHQ:  true,
		},
		{name: "subsurface", suffix: "_subsurface", primary: []Role{RoleSubsurface}, seed: true, category: fixedCategory(CategoryRGB)},
		// TODO: complex skin material, which packs glossiness into the G
		// channel of the specular map instead of emitting it standalone.
		{name: "specular", suffix: "_s", primary: []Role{RoleSpecular}, seed: true, category: fixedCategory(CategoryGrayscale)},
		{name: "backlight", suffix: "_b", primary: []Role{RoleBacklight}, seed: true, category: fixedCategory(CategoryRGB)},
	}
}

func classifyPrimary(_ Sources, primary *pixel.Image) (Category, error) {
	return Classify(primary)
}

// terrainDiffuseCategory forces full alpha once height data has been
// packed into the diffuse. Without a height image the request degrades to
// a plain diffuse and the category falls back to classification.
func terrainDiffuseCategory(src Sources, primary *pixel.Image) (Category, error) {
	if _, ok := src[RoleHeight]; ok {
		return CategoryRGBFullAlpha, nil
	}
	Logger().Warn("terrain parallax requested but no height image found, writing plain diffuse")
	return Classify(primary)
}

// alphaCarrierCategory treats the slot as full alpha when the companion
// role supplying the alpha channel is present, or when the primary image
// brought an alpha channel of its own.
func alphaCarrierCategory(companion Role) categoryRule {
	return func(src Sources, primary *pixel.Image) (Category, error) {
		if _, ok := src[companion]; ok {
			return CategoryRGBFullAlpha, nil
		}
		if primary.Format.HasAlpha() {
			return CategoryRGBFullAlpha, nil
		}
		return CategoryRGB, nil
	}
}

func fixedCategory(cat Category) categoryRule {
	return func(Sources, *pixel.Image) (Category, error) {
		return cat, nil
	}
}
