package webui

import (
	"embed"
	"io/fs"
)

var (
	//go:embed assets dashboard
	files embed.FS
)

// Assets 前端静态资源（上报脚本等）
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Dashboard 统计面板页面
func Dashboard() []byte {
	b, err := files.ReadFile("dashboard/index.html")
	if err != nil {
		panic(err)
	}
	return b
}
