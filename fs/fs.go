// Package appfs embeds the files the binaries need at runtime: SQL migrations, e-mail and page templates.
package appfs

import "embed"

//go:embed migrations all:templates
var FS embed.FS
