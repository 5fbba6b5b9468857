// Package ui embeds the frontend served to the webview window.
package ui

import "embed"

// Assets holds the static frontend under web/.
//
//go:embed web
var Assets embed.FS
