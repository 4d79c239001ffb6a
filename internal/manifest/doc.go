// Package manifest loads and validates site asset manifests. A manifest
// lists the assets a site needs, in load order, and names the handler that
// consumes each one.
//
// # Manifest Format
//
// Manifests are JSON (the browser-facing form) or YAML:
//
//	{
//	  "assets": [
//	    {"path": "content/about.json", "type": "json", "handler": "handlers/about"},
//	    {"path": "content/intro.md", "type": "text", "handler": "markdown"},
//	    {"path": "content/gigs", "type": "directory", "handler": "handlers/gigs.js",
//	     "contains": {"type": "combo", "parts": [
//	       {"allowedExtensions": [".ics"], "assetType": "text"},
//	       {"allowedExtensions": [".json"], "assetType": "json"}
//	     ]}},
//	    {"path": "images/gallery", "type": "directory",
//	     "contains": {"allowedExtensions": [".jpg", ".png"]}}
//	  ]
//	}
//
// # Usage
//
// Fetch the manifest from a site root:
//
//	m, err := manifest.NewLoader().Fetch(ctx, fetcher, "site-assets.json")
//	if err != nil {
//	    return err // fatal: nothing else is loaded
//	}
//
// Check it strictly before publishing:
//
//	result, err := manifest.ValidateSchemaFile("site-assets.json")
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrInvalidFormat: body is not valid YAML/JSON
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
//   - ErrFetchFailed: the manifest request failed
//   - ErrEmptyPath, ErrUnknownType, ErrDuplicatePath, ErrMisplacedContains,
//     ErrInvalidPart: descriptor violations reported by Validate
package manifest
