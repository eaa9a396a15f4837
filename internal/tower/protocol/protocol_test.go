package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdragonc/ember-tower/internal/tower/catalog"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":"move","data":{"x":3,"y":4}}`))
	require.NoError(t, err)
	assert.Equal(t, EventMove, env.Type)

	var move MovePayload
	require.NoError(t, json.Unmarshal(env.Data, &move))
	assert.Equal(t, 3, move.X)
	assert.Equal(t, 4, move.Y)
}

func TestDecodeEnvelopeMissingType(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"data":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestPositionOmitsFurnitureWhenStanding(t *testing.T) {
	b, err := json.Marshal(Position{X: 5, Y: 6})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":5,"y":6,"sitting":false}`, string(b))
}

func TestPositionIncludesFurnitureWhenSitting(t *testing.T) {
	b, err := json.Marshal(Position{X: 5, Y: 6, Sitting: true, FurnitureID: "couch"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":5,"y":6,"sitting":true,"furnitureId":"couch"}`, string(b))
}

func TestNewRoomJoinedNormalizesNilSlices(t *testing.T) {
	msg := NewRoomJoined("lobby", RoomInfo{Name: "Lobby", Size: catalog.Size{W: 64, H: 64}, Type: catalog.KindCommon}, nil, Position{X: 32, Y: 32})

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"furniture":[]`)
	assert.Contains(t, string(b), `"users":[]`)
}

func TestNewUserJoinedProjectsUser(t *testing.T) {
	u := User{
		ID:       "c1",
		Wallet:   "0xabc",
		Username: "Alice",
		Sprite:   "human_male",
		Position: Position{X: 1, Y: 2},
		IsAgent:  true,
		AgentID:  "agent-7",
	}
	msg := NewUserJoined(u)

	assert.Equal(t, TypeUserJoined, msg.Type)
	assert.Equal(t, "c1", msg.UserID)
	assert.Equal(t, "Alice", msg.Username)
	assert.True(t, msg.IsAgent)

	// Wallet and agent id are identity details, not join-notification fields.
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "wallet")
	assert.NotContains(t, string(b), "agentId")
}
