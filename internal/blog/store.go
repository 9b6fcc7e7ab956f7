package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrPostNotFound 文章不存在
var ErrPostNotFound = errors.New("post not found")

// 支持的文章扩展名，按优先级排列
var extensions = []string{".mdx", ".md"}

// Store 从目录读取文章，每次调用都重新读取文件
type Store struct {
	dir    string
	author string
	now    func() time.Time
}

// NewStore 创建文章存储
func NewStore(dir, defaultAuthor string) *Store {
	return &Store{
		dir:    dir,
		author: defaultAuthor,
		now:    time.Now,
	}
}

// Slugs 列出所有文章的 slug
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取文章目录失败: %w", err)
	}

	seen := make(map[string]struct{})
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range extensions {
			if !strings.HasSuffix(name, ext) {
				continue
			}
			slug := strings.TrimSuffix(name, ext)
			if _, ok := seen[slug]; !ok {
				seen[slug] = struct{}{}
				slugs = append(slugs, slug)
			}
			break
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Get 根据 slug 读取文章
func (s *Store) Get(slug string) (*Post, error) {
	if !validSlug(slug) {
		return nil, ErrPostNotFound
	}

	for _, ext := range extensions {
		path := filepath.Join(s.dir, slug+ext)
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("读取文章 %s 失败: %w", slug, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取文章 %s 失败: %w", slug, err)
		}
		return parsePost(slug, data, s.author, s.now().Format("2006-01-02"))
	}
	return nil, ErrPostNotFound
}

// List 返回所有文章，按日期从新到旧
// 单篇解析失败只记录日志并跳过
func (s *Store) List() ([]*Post, error) {
	slugs, err := s.Slugs()
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(slugs))
	for _, slug := range slugs {
		p, err := s.Get(slug)
		if err != nil {
			slog.Warn("跳过无法读取的文章", "slug", slug, "error", err)
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
	return posts, nil
}

// BySeries 返回系列中的文章，按 seriesOrder 排序
func (s *Store) BySeries(series string) ([]*Post, error) {
	posts, err := s.List()
	if err != nil {
		return nil, err
	}
	return filterSeries(posts, series), nil
}

func filterSeries(posts []*Post, series string) []*Post {
	out := make([]*Post, 0)
	for _, p := range posts {
		if p.Series != "" && p.Series == series {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SeriesOrder < out[j].SeriesOrder
	})
	return out
}

// Tags 所有标签，去重后排序
func (s *Store) Tags() ([]string, error) {
	posts, err := s.List()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// Series 所有系列名，去重后排序
func (s *Store) Series() ([]string, error) {
	posts, err := s.List()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, p := range posts {
		if p.Series != "" {
			set[p.Series] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// Related 相关文章：同系列 +10，每个共同标签 +2
func (s *Store) Related(slug string, limit int) ([]*Post, error) {
	current, err := s.Get(slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.List()
	if err != nil {
		return nil, err
	}
	return related(current, posts, limit), nil
}

func related(current *Post, posts []*Post, limit int) []*Post {
	tags := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tags[t] = struct{}{}
	}

	type scored struct {
		post  *Post
		score int
	}
	candidates := make([]scored, 0, len(posts))
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		score := 0
		if p.Series != "" && p.Series == current.Series {
			score += 10
		}
		for _, t := range p.Tags {
			if _, ok := tags[t]; ok {
				score += 2
			}
		}
		candidates = append(candidates, scored{post: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]*Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

// Navigation 系列导航；文章不属于任何系列时返回 nil
func (s *Store) Navigation(slug string) (*SeriesNavigation, error) {
	current, err := s.Get(slug)
	if err != nil {
		return nil, err
	}
	if current.Series == "" {
		return nil, nil
	}

	parts, err := s.BySeries(current.Series)
	if err != nil {
		return nil, err
	}

	nav := &SeriesNavigation{
		Series:     current.Series,
		TotalParts: len(parts),
	}
	for i, p := range parts {
		if p.Slug != slug {
			continue
		}
		nav.CurrentPart = i + 1
		if i > 0 {
			nav.PreviousPost = parts[i-1]
		}
		if i+1 < len(parts) {
			nav.NextPost = parts[i+1]
		}
		break
	}
	return nav, nil
}

// validSlug 拒绝可能跳出文章目录的 slug
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && !strings.Contains(slug, "..")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
