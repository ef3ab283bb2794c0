package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/rustark/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Test Config", manager.GetDefault().Name)
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/this/directory/does/not/exist")
		assert.Error(t, err)
	})

	t.Run("no classic falls back to first valid layout", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Other"
		writeConfigFile(t, dir, "zeta", other)
		first := createValidConfig()
		first.Name = "First"
		writeConfigFile(t, dir, "alpha", first)

		manager, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "First", manager.GetDefault().Name)
	})

	t.Run("empty directory uses built-in map", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultConfig().Name, manager.GetDefault().Name)
		assert.NoError(t, engine.ValidateGameConfig(manager.GetDefault()))
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "test", createValidConfig())

	bad := createValidConfig()
	bad.Layout[0] = "X---------"
	writeConfigFile(t, dir, "invalid", bad)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "malformed.json"), []byte("{oops"), 0644))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("test")
		require.NoError(t, err)
		assert.Equal(t, "Test Config", config.Name)
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("test.json")
		require.NoError(t, err)
		assert.Equal(t, "Test Config", config.Name)
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("test")
		require.NoError(t, os.Remove(filepath.Join(dir, "test.json")))

		second, err := manager.LoadConfig("test")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("missing")
		assert.True(t, errors.Is(err, ErrConfigNotFound))
	})

	t.Run("load invalid config", func(t *testing.T) {
		_, err := manager.LoadConfig("invalid")
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		_, err := manager.LoadConfig("malformed")
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../secrets")
		assert.True(t, errors.Is(err, ErrConfigNotFound))
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", engine.DefaultConfig())

	second := createValidConfig()
	second.Layout[3] = "---cg-----"
	second.Crates = append(second.Crates, engine.CratePlacement{X: 3, Y: 3, Contents: []string{"fuse"}})
	writeConfigFile(t, dir, "busy", second)

	bad := createValidConfig()
	bad.Name = ""
	writeConfigFile(t, dir, "broken", bad)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	configs, err := manager.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "busy", configs[0].ConfigID)
	assert.Equal(t, "busy.json", configs[0].Filename)
	assert.Equal(t, 4, configs[0].Generators)
	assert.Equal(t, 2, configs[0].Crates)
	assert.Equal(t, 1, configs[0].Hints)

	assert.Equal(t, "classic", configs[1].ConfigID)
	assert.Equal(t, "Rustark", configs[1].Name)
	assert.Equal(t, 3, configs[1].Generators)
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", engine.DefaultConfig())
	writeConfigFile(t, dir, "other", createValidConfig())

	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.SetDefault("other"))
	assert.Equal(t, "Test Config", manager.GetDefault().Name)

	assert.Error(t, manager.SetDefault("missing"))
	assert.Equal(t, "Test Config", manager.GetDefault().Name)

	manager.RefreshCache()
	assert.Equal(t, "Test Config", manager.GetDefault().Name, "refresh must keep the chosen default")
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", engine.DefaultConfig())

	manager, err := NewManager(dir)
	require.NoError(t, err)

	updated := engine.DefaultConfig()
	updated.Description = "Updated on disk"
	writeConfigFile(t, dir, "classic", updated)

	cached, _ := manager.LoadConfig("classic")
	assert.NotEqual(t, "Updated on disk", cached.Description)

	manager.RefreshCache()

	fresh, err := manager.LoadConfig("classic")
	require.NoError(t, err)
	assert.Equal(t, "Updated on disk", fresh.Description)
	assert.Equal(t, "Updated on disk", manager.GetDefault().Description)
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, manager.SaveConfig("saved", createValidConfig()))

		_, err := os.Stat(filepath.Join(dir, "saved.json"))
		assert.NoError(t, err)

		loaded, err := manager.LoadConfig("saved")
		require.NoError(t, err)
		assert.Equal(t, "Test Config", loaded.Name)
	})

	t.Run("invalid config - missing name", func(t *testing.T) {
		config := createValidConfig()
		config.Name = ""
		err := manager.SaveConfig("nameless", config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("invalid config - two players", func(t *testing.T) {
		config := createValidConfig()
		config.Layout[0] = "!---------"
		err := manager.SaveConfig("crowded", config)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("invalid name", func(t *testing.T) {
		err := manager.SaveConfig("../escape", createValidConfig())
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", engine.DefaultConfig())
	writeConfigFile(t, dir, "test", createValidConfig())

	manager, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 60)

	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("test"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.ListConfigs(); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			manager.GetDefault()
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}

func TestShippedLayouts(t *testing.T) {
	manager, err := NewManager("../../configs")
	require.NoError(t, err)

	classic := manager.GetDefault()
	assert.Equal(t, engine.DefaultConfig().Layout, classic.Layout)
	assert.Equal(t, engine.DefaultConfig().Hints, classic.Hints)

	configs, err := manager.ListConfigs()
	require.NoError(t, err)
	ids := make([]string, 0, len(configs))
	for _, c := range configs {
		ids = append(ids, c.ConfigID)
	}
	assert.Contains(t, ids, "classic")
	assert.Contains(t, ids, "outage")
}
