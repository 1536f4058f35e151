package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SaveAndRemove(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	url, err := m.Save(Upload{Filename: "photo.PNG", Data: []byte("imagedata")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, URLPrefix)
	data, err := os.ReadFile(filepath.Join(m.Root(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("imagedata"), data)

	require.NoError(t, m.Remove(url))
	_, err = os.Stat(filepath.Join(m.Root(), name))
	assert.True(t, os.IsNotExist(err))
}

func TestManager_RemoveMissingFileIsNotAnError(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, m.Remove(URLPrefix+"never-existed.png"))
}

func TestManager_RemoveIgnoresForeignURLs(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, m.Remove("https://elsewhere.example/pic.png"))
	assert.NoError(t, m.Remove(""))
}

func TestManager_SaveStripsPathComponents(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	url, err := m.Save(Upload{Filename: "../../etc/passwd.jpg", Data: []byte("x")})
	require.NoError(t, err)

	name := strings.TrimPrefix(url, URLPrefix)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")
	_, err = os.Stat(filepath.Join(m.Root(), name))
	require.NoError(t, err)
}

func TestManager_UnknownExtensionDropped(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	url, err := m.Save(Upload{Filename: "payload.exe", Data: []byte("x")})
	require.NoError(t, err)
	assert.False(t, strings.Contains(url, ".exe"))
}

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
