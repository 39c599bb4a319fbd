package web

import "embed"

// StaticFS 嵌入的静态页面资源
//
//go:embed static
var StaticFS embed.FS
