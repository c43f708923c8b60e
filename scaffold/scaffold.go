// Package scaffold provides the embedded starter files written by
// `mdblog new`.
package scaffold

import "embed"

// Templates contains the starter site. Files use Go text/template syntax and
// have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
