// Package std carries the files fusionls ships with.
package std

import _ "embed"

// FusionToml is the default fusion.toml, written by `fusionls init`.
//
//go:embed fusion.toml
var FusionToml string
