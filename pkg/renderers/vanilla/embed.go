package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName    = "authform.css"
	RuntimeScriptName = "authform.js"
	ServiceWorkerName = "sw.js"

	// PageTemplate is the template rendered for a full page.
	PageTemplate = "templates/page.tmpl"
	// PagePartial is the theme partial key that overrides PageTemplate.
	PagePartial = "vanilla.page"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded CSS, runtime script and service worker so
// callers can serve them over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
