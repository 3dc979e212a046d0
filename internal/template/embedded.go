package template

import (
	"embed"
)

//go:embed skeleton/*.tmpl
var skeletons embed.FS
