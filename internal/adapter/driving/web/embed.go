package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, icons).
//
//go:embed static/*
var StaticFS embed.FS
