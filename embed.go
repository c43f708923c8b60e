package mdblog

import "embed"

// SampleContent holds the built-in articles served when the content tree
// has no documents.
//
//go:embed samples/*.md
var SampleContent embed.FS
