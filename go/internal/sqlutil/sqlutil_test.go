package sqlutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNullRawMessage(t *testing.T) {
	got, err := ToNullRawMessage(map[string]int{"rank": 3})
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.JSONEq(t, `{"rank":3}`, string(got.RawMessage))

	got, err = ToNullRawMessage(nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	_, err = ToNullRawMessage(make(chan int))
	assert.Error(t, err)
}

func TestNullString(t *testing.T) {
	assert.False(t, ToNullString("").Valid)
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, ToNullString("x"))
	assert.Equal(t, "", FromNullString(sql.NullString{}))
	assert.Equal(t, "x", FromNullString(ToNullString("x")))
}
