package domain

// Asset types accepted in a manifest descriptor
const (
	AssetJSON      = "json"
	AssetText      = "text"
	AssetImage     = "image"
	AssetDirectory = "directory"
)

// DirectoryCombo selects the combo form of a DirectorySpec
const DirectoryCombo = "combo"

// DefaultManifestPath is the manifest location used when none is given
const DefaultManifestPath = "site-assets.json"

// Manifest describes the assets of a site in load order
type Manifest struct {
	Assets []AssetDescriptor `json:"assets" yaml:"assets"`
}

// AssetDescriptor is one manifest entry
type AssetDescriptor struct {
	Path     string         `json:"path" yaml:"path"`
	Type     string         `json:"type" yaml:"type"`
	Handler  string         `json:"handler,omitempty" yaml:"handler,omitempty"`
	Contains *DirectorySpec `json:"contains,omitempty" yaml:"contains,omitempty"`
}

// IsDirectory reports whether the descriptor points at a directory
func (a AssetDescriptor) IsDirectory() bool {
	return a.Type == AssetDirectory
}

// IsCombo reports whether the descriptor is a combo directory
func (a AssetDescriptor) IsCombo() bool {
	return a.IsDirectory() && a.Contains != nil && a.Contains.IsCombo()
}

// DirectorySpec describes what a directory asset holds.
// The combo form groups files by basename across Parts; the simple form
// only filters a file list by AllowedExtensions.
type DirectorySpec struct {
	Type              string      `json:"type,omitempty" yaml:"type,omitempty"`
	Parts             []ComboPart `json:"parts,omitempty" yaml:"parts,omitempty"`
	AllowedExtensions Extensions  `json:"allowedExtensions,omitempty" yaml:"allowedExtensions,omitempty"`
}

// IsCombo reports whether the directory uses the combo form
func (d *DirectorySpec) IsCombo() bool {
	return d != nil && d.Type == DirectoryCombo
}

// ComboPart binds a set of extensions to the content type loaded for them
type ComboPart struct {
	AllowedExtensions Extensions `json:"allowedExtensions" yaml:"allowedExtensions"`
	AssetType         string     `json:"assetType" yaml:"assetType"`
}

// ContentMap holds loaded values keyed by manifest path.
//
// Values are one of: a decoded JSON value, a string (text body, image path or
// legacy directory path), a []string (simple directory) or a ComboGroup.
type ContentMap map[string]any

// ComboGroup maps a basename to its extension→value set
type ComboGroup map[string]map[string]any

// DirectoryIndex is the document read from a per-directory manifest.json
type DirectoryIndex struct {
	Files []string `json:"files"`
}
