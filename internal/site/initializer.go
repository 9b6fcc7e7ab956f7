// Package site 静态页面目录的初始化
package site

import (
	"fmt"
	"os"
	"path/filepath"
)

// BeaconPath 上报脚本地址
const BeaconPath = "/assets/beacon.js"

// Initializer 静态目录初始化器
type Initializer struct {
	staticDir string
	index     string
}

// NewInitializer 创建初始化器
func NewInitializer(staticDir, index string) *Initializer {
	if index == "" {
		index = "index.html"
	}
	return &Initializer{
		staticDir: staticDir,
		index:     index,
	}
}

// Initialize 创建静态目录，目录为空时写入占位页面
// 已有内容的目录保持不动
func (i *Initializer) Initialize() (bool, error) {
	if err := os.MkdirAll(i.staticDir, 0755); err != nil {
		return false, fmt.Errorf("创建目录 %s 失败: %w", i.staticDir, err)
	}

	entries, err := os.ReadDir(i.staticDir)
	if err != nil {
		return false, fmt.Errorf("读取目录 %s 失败: %w", i.staticDir, err)
	}
	if len(entries) > 0 {
		return false, nil
	}

	pages := map[string]string{
		i.index:    indexHTML,
		"404.html": notFoundHTML,
	}
	for name, content := range pages {
		path := filepath.Join(i.staticDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return false, fmt.Errorf("创建 %s 失败: %w", path, err)
		}
	}
	return true, nil
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Portfolio</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 800px;
            margin: 100px auto;
            padding: 20px;
            text-align: center;
        }
        h1 { color: #333; }
        p { color: #666; }
        nav a { margin: 0 8px; color: #007bff; }
    </style>
</head>
<body>
    <h1>Portfolio</h1>
    <p>Replace this page with the built portfolio site.</p>
    <nav>
        <a href="#about">About</a>
        <a href="#skills">Skills</a>
        <a href="#projects">Projects</a>
        <a href="#resume">Resume</a>
        <a href="#contact">Contact</a>
    </nav>
    <script src="` + BeaconPath + `" defer></script>
</body>
</html>
`

const notFoundHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>404 - Page not found</title>
</head>
<body>
    <h1>404</h1>
    <p>The page you are looking for does not exist. <a href="/">Back home</a></p>
    <script src="` + BeaconPath + `" defer></script>
</body>
</html>
`
