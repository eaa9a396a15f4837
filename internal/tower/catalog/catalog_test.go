package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInIsValid(t *testing.T) {
	entries := BuiltIn()
	require.NoError(t, Validate(entries))
	assert.Len(t, entries, 6)
}

func TestBuiltInAgentLounge(t *testing.T) {
	var lounge *Entry
	entries := BuiltIn()
	for i := range entries {
		if entries[i].ID == "agent-lounge" {
			lounge = &entries[i]
		}
	}
	require.NotNil(t, lounge)
	assert.True(t, lounge.AgentOnly)
	assert.Equal(t, 50, lounge.MaxOccupants)
	assert.Equal(t, Size{W: 40, H: 40}, lounge.Size)
}

func TestFurnitureContains(t *testing.T) {
	f := Furniture{ID: "couch", X: 10, Y: 20, Width: 4, Height: 2, Sittable: true}

	assert.True(t, f.Contains(10, 20))
	assert.True(t, f.Contains(13, 21))
	assert.False(t, f.Contains(14, 21), "x bound is exclusive")
	assert.False(t, f.Contains(13, 22), "y bound is exclusive")
	assert.False(t, f.Contains(9, 20))
}

func TestValidateEmptyCatalog(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one room")
}

func TestValidateDuplicateRoomID(t *testing.T) {
	entries := []Entry{
		{ID: "lobby", Name: "Lobby", Kind: KindCommon, Size: Size{W: 8, H: 8}, MaxOccupants: 4},
		{ID: "lobby", Name: "Lobby Again", Kind: KindCommon, Size: Size{W: 8, H: 8}, MaxOccupants: 4},
	}
	err := Validate(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate room id "lobby"`)
}

func TestValidateZeroSizedGrid(t *testing.T) {
	entries := []Entry{
		{ID: "void", Name: "Void", Kind: KindCommon, Size: Size{W: 0, H: 8}, MaxOccupants: 4},
	}
	err := Validate(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid size must be positive")
}

func TestValidateNonPositiveCapacity(t *testing.T) {
	entries := []Entry{
		{ID: "tiny", Name: "Tiny", Kind: KindCommon, Size: Size{W: 8, H: 8}, MaxOccupants: 0},
	}
	err := Validate(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_occupants")
}

func TestValidateFurnitureOutOfBounds(t *testing.T) {
	entries := []Entry{
		{
			ID: "den", Name: "Den", Kind: KindCommon, Size: Size{W: 8, H: 8}, MaxOccupants: 4,
			Furniture: []Furniture{
				{ID: "long-couch", X: 6, Y: 2, Width: 4, Height: 1, Sittable: true},
			},
		},
	}
	err := Validate(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the 8x8 grid")
}

func TestValidateFurnitureZeroExtent(t *testing.T) {
	entries := []Entry{
		{
			ID: "den", Name: "Den", Kind: KindCommon, Size: Size{W: 8, H: 8}, MaxOccupants: 4,
			Furniture: []Furniture{
				{ID: "flat", X: 1, Y: 1, Width: 0, Height: 1},
			},
		},
	}
	err := Validate(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive extent")
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
rooms:
  - id: lobby
    name: Lobby
    floor: 1
    size: {w: 64, h: 64}
    max_occupants: 100
    furniture:
      - id: couch
        x: 10
        y: 10
        width: 4
        height: 2
        sittable: true
  - id: agent-lounge
    name: Agent Lounge
    floor: 50
    size: {w: 40, h: 40}
    max_occupants: 50
    agent_only: true
`)
	entries, err := LoadFromBytes(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "lobby", entries[0].ID)
	assert.Equal(t, KindCommon, entries[0].Kind, "kind defaults to common")
	require.Len(t, entries[0].Furniture, 1)
	assert.True(t, entries[0].Furniture[0].Sittable)

	assert.True(t, entries[1].AgentOnly)
}

func TestLoadFromBytesInvalidCatalog(t *testing.T) {
	data := []byte(`
rooms:
  - id: broken
    name: Broken
    size: {w: 0, h: 0}
    max_occupants: 10
`)
	_, err := LoadFromBytes(data)
	assert.Error(t, err)
}

func TestLoadFromBytesMalformedYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("rooms: ["))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tower.yaml")
	data := []byte(`
rooms:
  - id: lobby
    name: Lobby
    size: {w: 16, h: 16}
    max_occupants: 10
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	entries, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Lobby", entries[0].Name)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
