// Package directory expands directory assets into content values.
//
// A combo directory groups files that share a basename (gig.ics + gig.json)
// and loads each file by the asset type bound to its extension. A simple
// directory reads a manifest.json file list and filters it by extension.
// Directory enumeration is pluggable through Lister, since static hosts
// either serve an autoindex page or nothing at all.
package directory
