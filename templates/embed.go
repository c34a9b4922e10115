package templates

import "embed"

// Emails holds the notification templates. Localized variants are named
// <template>_<lang>.html / .txt next to the English base files.
//
//go:embed emails/*
var Emails embed.FS
