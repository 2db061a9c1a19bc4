package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSportCoversEveryCategory(t *testing.T) {
	var d DailyVolume
	for i, sport := range SportCategories {
		d.AddSport(sport, int64(i+1))
	}
	d.AddSport("curling", 1000)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for i, sport := range SportCategories {
		assert.EqualValues(t, i+1, fields[sport+"_volume"], sport)
	}
}
