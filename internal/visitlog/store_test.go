package visitlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(i int) Record {
	return Record{
		ID:        fmt.Sprintf("id-%d", i),
		Timestamp: time.Date(2026, 3, 1, 12, 0, i, 0, time.UTC),
		Page:      fmt.Sprintf("/page/%d", i),
		Browser:   "Chrome",
		OS:        "Linux",
		Device:    "Desktop",
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// exerciseStore 各种实现共用的追加/读取/上限行为
func exerciseStore(t *testing.T, s Store, wantMode Mode) {
	t.Helper()
	ctx := context.Background()

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for i := 0; i < 5; i++ {
		mode, err := s.Append(ctx, newRecord(i))
		require.NoError(t, err)
		assert.Equal(t, wantMode, mode)
	}

	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	// 上限为 3，最旧的两条被截断
	assert.Equal(t, []string{"id-2", "id-3", "id-4"}, ids(all))
	assert.Equal(t, "/page/4", all[2].Page)
	assert.Equal(t, wantMode, s.Mode())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore(3), ModeMemory)
}

func TestMemoryStore_CloseDiscards(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(10)
	_, _ = s.Append(context.Background(), newRecord(1))
	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ReadAllReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(10)
	_, _ = s.Append(ctx, newRecord(1))

	all, _ := s.ReadAll(ctx)
	all[0].Page = "/mutated"

	again, _ := s.ReadAll(ctx)
	assert.Equal(t, "/page/1", again[0].Page)
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "visitors.json")
	exerciseStore(t, NewFileStore(path, 3), ModeFile)

	// 文件内容是一个 JSON 数组
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []Record
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 3)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "visitors.json")

	first := NewFileStore(path, 100)
	_, err := first.Append(ctx, newRecord(1))
	require.NoError(t, err)

	second := NewFileStore(path, 100)
	all, err := second.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "id-1", all[0].ID)
	assert.True(t, all[0].Timestamp.Equal(newRecord(1).Timestamp))
}

func TestFileStore_EmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "visitors.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	all, err := NewFileStore(path, 10).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "visitors.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := NewFileStore(path, 10)
	_, err := s.ReadAll(ctx)
	assert.Error(t, err)

	// 追加不受影响，文件被重写
	mode, err := s.Append(ctx, newRecord(1))
	require.NoError(t, err)
	assert.Equal(t, ModeFile, mode)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, ids(all))
}

func TestFileStore_FallbackAndRecovery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	// 用普通文件占住目录位置，使 MkdirAll 失败
	blocker := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	path := filepath.Join(blocker, "visitors.json")

	s := NewFileStore(path, 10)
	mode, err := s.Append(ctx, newRecord(1))
	require.NoError(t, err, "write failures must not reach the caller")
	assert.Equal(t, ModeMemory, mode)
	assert.Equal(t, ModeMemory, s.Mode())

	mode, err = s.Append(ctx, newRecord(2))
	require.NoError(t, err)
	assert.Equal(t, ModeMemory, mode)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2"}, ids(all))

	// 目录恢复后，内存副本整体写回文件
	require.NoError(t, os.Remove(blocker))
	mode, err = s.Append(ctx, newRecord(3))
	require.NoError(t, err)
	assert.Equal(t, ModeFile, mode)
	assert.Equal(t, ModeFile, s.Mode())

	all, err = NewFileStore(path, 10).ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(all))
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "test:visits", 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s, ModeRedis)

	values, err := mr.List("test:visits")
	require.NoError(t, err)
	assert.Len(t, values, 3)
}

func TestRedisStore_FallbackWhenServerGone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr(), "", 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mr.Close()

	mode, err := s.Append(ctx, newRecord(1))
	require.NoError(t, err)
	assert.Equal(t, ModeMemory, mode)

	_, err = s.ReadAll(ctx)
	assert.Error(t, err)
}

func TestRedisStore_OrderAfterOutage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr(), "test:visits", 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mode, err := s.Append(ctx, newRecord(0))
	require.NoError(t, err)
	assert.Equal(t, ModeRedis, mode)

	mr.Close()
	for _, i := range []int{1, 2} {
		mode, err = s.Append(ctx, newRecord(i))
		require.NoError(t, err)
		assert.Equal(t, ModeMemory, mode)
	}
	assert.Equal(t, ModeMemory, s.Mode())

	require.NoError(t, mr.Restart())
	mode, err = s.Append(ctx, newRecord(3))
	require.NoError(t, err)
	assert.Equal(t, ModeRedis, mode)
	assert.Equal(t, ModeRedis, s.Mode())

	// 暂存的记录按原顺序补写，上限仍然生效
	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(all))

	values, err := mr.List("test:visits")
	require.NoError(t, err)
	assert.Len(t, values, 3)
	assert.Equal(t, 0, s.fallback.Len())
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), "redis://"+addr, "", 10)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewRedisStore(context.Background(), "://bad", "", 10)
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	t.Parallel()

	records := []Record{newRecord(1), newRecord(2), newRecord(3)}
	assert.Equal(t, []string{"id-2", "id-3"}, ids(trim(records, 2)))
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(trim(records, 3)))
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(trim(records, 0)))
}
