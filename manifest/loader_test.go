package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cal.json", `{
		"id": "cal",
		"name": "Calendar",
		"endpoint": "wss://cal.example/relay",
		"actions": [
			{"id": "create", "trigger_intents": ["ScheduleMeeting"], "slots": [{"name": "title", "required": true}]}
		]
	}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cal", m.ID)

	a, ok := m.ActionByID("create")
	require.True(t, ok)
	assert.Equal(t, []string{"ScheduleMeeting"}, a.TriggerIntents)
	assert.Equal(t, "title", a.Slots[0].Name)
	assert.True(t, a.Slots[0].Required)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "todo.yaml", `
id: todo
endpoint: wss://todo.example/relay
actions:
  - id: add
    trigger_intents: [AddItem]
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "todo", m.ID)
	assert.Len(t, m.Actions, 1)
}

func TestLoad_MissingActionsMeansZeroTriggers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bare.json", `{"id": "bare", "endpoint": "wss://bare.example"}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, m.Actions)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "noid.json", `{"endpoint": "wss://x.example"}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "noendpoint.yaml", `id: x`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "manifest.txt", `id: x`))
	assert.Error(t, err)
}

func TestLoadDir_LexicalRegistrationOrder(t *testing.T) {
	dir := t.TempDir()
	// Both declare AddItem; the lexically first file must win.
	writeFile(t, dir, "b-shopping.json", `{"id": "shopping", "endpoint": "wss://shop.example", "actions": [{"id": "append", "trigger_intents": ["AddItem"]}]}`)
	writeFile(t, dir, "a-todo.yaml", "id: todo\nendpoint: wss://todo.example\nactions:\n  - id: add\n    trigger_intents: [AddItem]\n")
	writeFile(t, dir, "README.md", "not a manifest")

	r, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, r.Manifests(), 2)

	skillID, actionID, ok := r.Lookup("AddItem")
	require.True(t, ok)
	assert.Equal(t, "todo", skillID)
	assert.Equal(t, "add", actionID)
}
