package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenAndRecord(t *testing.T) {
	u := User{
		ID:       2,
		Name:     "Ervin Howell",
		Username: "Antonette",
		Email:    "shanna@melissa.tv",
		Phone:    "0106926593",
		Website:  "anastasia.net",
		Address:  Address{Street: "Victor Plains", City: "Wisokyburgh"},
		Company:  Company{Name: "Deckow-Crist"},
	}

	c := Flatten(u)
	assert.Equal(t, "Victor Plains", c.Street)
	assert.Equal(t, "Wisokyburgh", c.City)
	assert.Equal(t, "Deckow-Crist", c.CompanyName)
	assert.Equal(t, "Antonette", c.Username)

	assert.Equal(t, u, c.Record(2))
}

func TestCandidate_WithAndGet(t *testing.T) {
	var c Candidate
	for _, f := range Fields {
		var ok bool
		c, ok = c.With(f, "v-"+f)
		require.True(t, ok, f)
	}
	for _, f := range Fields {
		v, ok := c.Get(f)
		require.True(t, ok, f)
		assert.Equal(t, "v-"+f, v)
	}

	same, ok := c.With("nickname", "x")
	assert.False(t, ok)
	assert.Equal(t, c, same)

	_, ok = c.Get("nickname")
	assert.False(t, ok)
}

func TestUser_WireShapeIsNested(t *testing.T) {
	u := Candidate{Name: "Cy", Street: "S", City: "C", CompanyName: "Acme"}.Record(0)

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	_, hasID := wire["id"]
	assert.False(t, hasID, "id is omitted before creation")
	assert.Equal(t, map[string]any{"street": "S", "city": "C"}, wire["address"])
	assert.Equal(t, map[string]any{"name": "Acme"}, wire["company"])
	assert.NotContains(t, wire, "street")
	assert.NotContains(t, wire, "companyName")
}
