package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate(t *testing.T) {
	assert.NoError(t, NewID().Validate())
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID("not-a-uuid").Validate())
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}

func TestNewSuccessResponse_JSON(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"atoms": 7})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.NotContains(t, decoded, "error")
	assert.Equal(t, float64(7), decoded["data"].(map[string]interface{})["atoms"])
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("MOL_001", "Invalid SMILES string. Please try again.")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MOL_001", resp.Error.Code)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestNewBaseEvent(t *testing.T) {
	ev := NewBaseEvent("molecule.visualized", "session-1")
	assert.NoError(t, ID(ev.ID).Validate())
	assert.Equal(t, "molecule.visualized", ev.Type)
	assert.Equal(t, "session-1", ev.AggID)
	assert.False(t, ev.Timestamp.IsZero())
}

//Personal.AI order the ending
