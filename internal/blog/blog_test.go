package blog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()

	writePost(t, dir, "go-channels.mdx", `---
title: Go Channels
date: 2024-03-10
excerpt: Buffered and unbuffered
tags: [go, concurrency]
series: Go Deep Dive
seriesOrder: 2
---
Channels are typed conduits.
`)
	writePost(t, dir, "go-intro.md", `---
title: "Go Intro"
date: "2024-01-05"
tags:
  - go
series: Go Deep Dive
seriesOrder: 1
featured: true
---
Hello Go.
`)
	writePost(t, dir, "rust-notes.mdx", `---
title: Rust Notes
date: 2024-02-20
tags: [rust, concurrency]
---
Ownership.
`)
	writePost(t, dir, "untitled.mdx", "Just some words without front matter.\n")
	writePost(t, dir, "README.txt", "not a post")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.mdx"), 0755))

	s := NewStore(dir, "Default Author")
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func slugsOf(posts []*Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestStore_List(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	posts, err := s.List()
	require.NoError(t, err)
	// 无日期的文章默认为当天，排最前
	assert.Equal(t, []string{"untitled", "go-channels", "rust-notes", "go-intro"}, slugsOf(posts))
}

func TestStore_Get(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	p, err := s.Get("go-channels")
	require.NoError(t, err)
	assert.Equal(t, "Go Channels", p.Title)
	assert.Equal(t, "2024-03-10", p.Date)
	assert.Equal(t, "Buffered and unbuffered", p.Excerpt)
	assert.Equal(t, "Default Author", p.Author)
	assert.Equal(t, []string{"go", "concurrency"}, p.Tags)
	assert.Equal(t, "1 min read", p.ReadingTime)
	assert.Equal(t, "Channels are typed conduits.\n", p.Content)
	assert.Equal(t, 2, p.SeriesOrder)

	intro, err := s.Get("go-intro")
	require.NoError(t, err)
	assert.True(t, intro.Featured)
	assert.Equal(t, "2024-01-05", intro.Date)

	plain, err := s.Get("untitled")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", plain.Title)
	assert.Equal(t, "2024-06-01", plain.Date)
	assert.Equal(t, []string{}, plain.Tags)
}

func TestStore_GetMissingOrUnsafe(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, slug := range []string{"nope", "", "..", "../etc/passwd", `a\b`, "drafts"} {
		_, err := s.Get(slug)
		assert.ErrorIs(t, err, ErrPostNotFound, slug)
	}
}

func TestStore_TagsAndSeries(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	tags, err := s.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"concurrency", "go", "rust"}, tags)

	series, err := s.Series()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Deep Dive"}, series)

	parts, err := s.BySeries("Go Deep Dive")
	require.NoError(t, err)
	assert.Equal(t, []string{"go-intro", "go-channels"}, slugsOf(parts))
}

func TestStore_Related(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	rel, err := s.Related("go-channels", 2)
	require.NoError(t, err)
	// go-intro: 同系列 10 + 标签 go 2；rust-notes: 标签 concurrency 2
	assert.Equal(t, []string{"go-intro", "rust-notes"}, slugsOf(rel))

	_, err = s.Related("missing", 3)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestStore_Navigation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	nav, err := s.Navigation("go-channels")
	require.NoError(t, err)
	require.NotNil(t, nav)
	assert.Equal(t, "Go Deep Dive", nav.Series)
	assert.Equal(t, 2, nav.TotalParts)
	assert.Equal(t, 2, nav.CurrentPart)
	require.NotNil(t, nav.PreviousPost)
	assert.Equal(t, "go-intro", nav.PreviousPost.Slug)
	assert.Nil(t, nav.NextPost)

	nav, err = s.Navigation("rust-notes")
	require.NoError(t, err)
	assert.Nil(t, nav)
}

func TestStore_MissingDir(t *testing.T) {
	t.Parallel()
	s := NewStore(filepath.Join(t.TempDir(), "absent"), "x")

	posts, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_BadFrontMatterSkipped(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePost(t, dir, "broken.mdx", "---\ntitle: [unclosed\n---\nbody\n")
	writePost(t, dir, "ok.mdx", "---\ntitle: OK\ndate: 2024-01-01\n---\nbody\n")

	posts, err := NewStore(dir, "x").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, slugsOf(posts))
}

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	meta, body := splitFrontMatter([]byte("---\r\ntitle: A\r\n---\r\nBody\r\n"))
	assert.Equal(t, "title: A\n", string(meta))
	assert.Equal(t, "Body\n", string(body))

	meta, body = splitFrontMatter([]byte("\xef\xbb\xbf---\ntitle: B\n---"))
	assert.Equal(t, "title: B\n", string(meta))
	assert.Empty(t, body)

	meta, body = splitFrontMatter([]byte("---\ntitle: no end\n"))
	assert.Nil(t, meta)
	assert.Equal(t, "---\ntitle: no end\n", string(body))

	meta, body = splitFrontMatter([]byte("plain text"))
	assert.Nil(t, meta)
	assert.Equal(t, "plain text", string(body))
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 min read", readingTime(""))
	assert.Equal(t, "1 min read", readingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, "2 min read", readingTime(strings.Repeat("word ", 201)))
}
