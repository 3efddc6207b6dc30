// AngelaMos | 2026
// ref_test.go

package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type refHolder struct {
	AddedBy Ref[refOwner] `json:"addedBy"`
}

func TestRef_MarshalReference(t *testing.T) {
	h := refHolder{AddedBy: Reference[refOwner]("u1")}
	assert.False(t, h.AddedBy.IsExpanded())

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addedBy":"u1"}`, string(raw))
}

func TestRef_MarshalExpanded(t *testing.T) {
	h := refHolder{AddedBy: Expand("u1", refOwner{ID: "u1", Name: "Ada"})}
	assert.True(t, h.AddedBy.IsExpanded())

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addedBy":{"id":"u1","name":"Ada"}}`, string(raw))
}

func TestRef_UnmarshalAcceptsOnlyID(t *testing.T) {
	var h refHolder
	require.NoError(t, json.Unmarshal([]byte(`{"addedBy":"u2"}`), &h))
	assert.Equal(t, "u2", h.AddedBy.ID)
	assert.False(t, h.AddedBy.IsExpanded())

	err := json.Unmarshal([]byte(`{"addedBy":{"id":"u2"}}`), &h)
	assert.Error(t, err)
}
