package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-15"), d)

	d, err = ParseDate("2024-03-15T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-15"), d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.Equal(t, Date(""), d)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"fechaProgramada":"2024-05-01T00:00:00Z","fechaRealizacion":null}`), &task))
	assert.Equal(t, Date("2024-05-01"), task.ScheduledDate)
	assert.Nil(t, task.CompletedDate)

	out, err := json.Marshal(task.ScheduledDate)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01"`, string(out))
}

func TestTaskReferences(t *testing.T) {
	parcel, crop := "p1", "c1"
	assert.True(t, Task{ParcelID: &parcel}.References("p1", nil))
	assert.True(t, Task{CropID: &crop}.References("p2", map[string]bool{"c1": true}))
	assert.False(t, Task{}.References("p1", map[string]bool{"c1": true}))
}
