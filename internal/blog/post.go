// Package blog 基于文件的博客内容
package blog

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

const wordsPerMinute = 200

// Post 博客文章
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"readingTime"`
	Content     string   `json:"content"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Featured    bool     `json:"featured"`
	Series      string   `json:"series,omitempty"`
	SeriesOrder int      `json:"seriesOrder,omitempty"`
}

// SeriesNavigation 系列文章导航
type SeriesNavigation struct {
	Series       string `json:"series"`
	TotalParts   int    `json:"totalParts"`
	CurrentPart  int    `json:"currentPart,omitempty"`
	PreviousPost *Post  `json:"previousPost"`
	NextPost     *Post  `json:"nextPost"`
}

// frontMatter 文章头部的 YAML 元数据
type frontMatter struct {
	Title       string    `yaml:"title"`
	Date        rawScalar `yaml:"date"`
	Excerpt     string    `yaml:"excerpt"`
	Author      string    `yaml:"author"`
	Tags        []string  `yaml:"tags"`
	CoverImage  string    `yaml:"coverImage"`
	Featured    bool      `yaml:"featured"`
	Series      string    `yaml:"series"`
	SeriesOrder int       `yaml:"seriesOrder"`
}

// rawScalar 保留原始文本，避免未加引号的日期被解析为时间
type rawScalar string

func (r *rawScalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", n.Line)
	}
	*r = rawScalar(n.Value)
	return nil
}

var (
	delimiter = []byte("---")
	bom       = []byte("\xef\xbb\xbf")
)

// splitFrontMatter 拆分头部元数据与正文；没有完整头部时整体视为正文
func splitFrontMatter(data []byte) (meta []byte, body []byte) {
	data = bytes.TrimPrefix(data, bom)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, data
	}
	rest := data[len(delimiter)+1:]

	// 逐行查找独占一行的结束分隔符
	for off := 0; off < len(rest); {
		line, next := rest[off:], len(rest)
		if i := bytes.IndexByte(rest[off:], '\n'); i >= 0 {
			line, next = rest[off:off+i], off+i+1
		}
		if bytes.Equal(bytes.TrimRight(line, " \t"), delimiter) {
			return rest[:off], rest[next:]
		}
		off = next
	}
	return nil, data
}

// parsePost 解析文章文件内容
func parsePost(slug string, data []byte, defaultAuthor, today string) (*Post, error) {
	meta, body := splitFrontMatter(data)

	var fm frontMatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, fmt.Errorf("解析文章 %s 头部失败: %w", slug, err)
		}
	}

	p := &Post{
		Slug:        slug,
		Title:       fm.Title,
		Date:        string(fm.Date),
		Excerpt:     fm.Excerpt,
		Author:      fm.Author,
		Tags:        fm.Tags,
		ReadingTime: readingTime(string(body)),
		Content:     string(body),
		CoverImage:  fm.CoverImage,
		Featured:    fm.Featured,
		Series:      fm.Series,
		SeriesOrder: fm.SeriesOrder,
	}
	if p.Title == "" {
		p.Title = "Untitled"
	}
	if p.Date == "" {
		p.Date = today
	}
	if p.Author == "" {
		p.Author = defaultAuthor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// readingTime 按每分钟 200 词估算，至少 1 分钟
func readingTime(content string) string {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
