package middleware

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// 交给路由处理的路径前缀
var passthroughPrefixes = []string{"/api", "/analytics", "/assets", "/metrics"}

// StaticFileServer 静态页面服务中间件
// rootDir 下存放构建好的页面，目录请求返回 index 文件
func StaticFileServer(rootDir, index string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqPath := req.URL.Path

			if isPassthrough(reqPath) {
				return next(c)
			}
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}

			if reqPath == "/" {
				reqPath = "/" + index
			}
			filePath := filepath.Join(rootDir, filepath.FromSlash(reqPath))

			// 安全检查：防止路径遍历攻击
			if !isPathSafe(rootDir, filePath) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "禁止访问",
				})
			}

			info, err := os.Stat(filePath)
			if os.IsNotExist(err) {
				// 尝试不带扩展名的页面，例如 /about -> /about.html
				if htmlInfo, err := os.Stat(filePath + ".html"); err == nil && !htmlInfo.IsDir() {
					return c.File(filePath + ".html")
				}
				return handleNotFound(c, rootDir, reqPath)
			}
			if err != nil {
				return err
			}

			// 如果是目录，尝试返回 index.html
			if info.IsDir() {
				return handleDirectory(c, filePath, index)
			}

			return c.File(filePath)
		}
	}
}

func isPassthrough(p string) bool {
	for _, prefix := range passthroughPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// isPathSafe 检查路径是否安全（防止路径遍历攻击）
func isPathSafe(rootDir, filePath string) bool {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return false
	}

	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// handleNotFound 处理文件未找到的情况
func handleNotFound(c echo.Context, rootDir, reqPath string) error {
	// 尝试返回 404.html
	notFoundPath := filepath.Join(rootDir, "404.html")
	if data, err := os.ReadFile(notFoundPath); err == nil {
		return c.HTMLBlob(http.StatusNotFound, data)
	}

	return c.JSON(http.StatusNotFound, map[string]string{
		"error": "页面未找到",
		"path":  reqPath,
	})
}

// handleDirectory 处理目录请求
func handleDirectory(c echo.Context, dirPath, indexFile string) error {
	indexPath := filepath.Join(dirPath, indexFile)
	if _, err := os.Stat(indexPath); err == nil {
		return c.File(indexPath)
	}

	return c.JSON(http.StatusForbidden, map[string]string{
		"error": "目录访问被禁止",
	})
}
