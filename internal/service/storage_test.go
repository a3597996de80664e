package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/content-graph-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := service.NewDiskStorage(dir, 5)

	n, err := s.Save("a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Remove("a.txt"))
	_, err = os.Stat(filepath.Join(dir, "a.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, s.Remove("a.txt"))
}

func TestDiskStorage_TooLarge(t *testing.T) {
	dir := t.TempDir()
	s := service.NewDiskStorage(dir, 4)

	_, err := s.Save("b.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, service.ErrTooLarge)

	_, err = os.Stat(filepath.Join(dir, "b.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDiskStorage_RejectsPaths(t *testing.T) {
	s := service.NewDiskStorage(t.TempDir(), 0)

	_, err := s.Save("../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Error(t, s.Remove("nested/file.txt"))
}
