// Package assets holds data files compiled into the storefront binary.
package assets

import _ "embed"

// Countries is the default comma and newline separated country list used for
// country-name completion when no countries file is configured.
//
//go:embed countries.txt
var Countries string
