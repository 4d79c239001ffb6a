package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrInvalidFormat indicates the manifest is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .json, .yaml or .yml)")

	// ErrFetchFailed indicates the manifest could not be retrieved
	ErrFetchFailed = errors.New("failed to fetch manifest")

	// ErrEmptyPath indicates a descriptor without a path
	ErrEmptyPath = errors.New("asset path cannot be empty")

	// ErrUnknownType indicates a descriptor type outside json, text, image and directory
	ErrUnknownType = errors.New("unknown asset type")

	// ErrDuplicatePath indicates two descriptors share a path
	ErrDuplicatePath = errors.New("duplicate asset path")

	// ErrMisplacedContains indicates contains on a non-directory asset
	ErrMisplacedContains = errors.New("contains is only valid on directory assets")

	// ErrInvalidPart indicates a combo part without extensions or with an unknown asset type
	ErrInvalidPart = errors.New("invalid combo part")
)
