// Package scripts embeds the Risor rule scripts shipped with banyan so
// binaries run without a scripts directory on disk.
package scripts

import "embed"

// FS holds the embedded .risor scripts.
//
//go:embed *.risor
var FS embed.FS

// Suppressions is the path of the default suppression rule script.
const Suppressions = "suppressions.risor"
