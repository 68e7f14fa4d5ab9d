package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid morning", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "invalid hours", input: "24:00", wantErr: true},
		{name: "invalid minutes", input: "10:60", wantErr: true},
		{name: "normalizes missing leading zero", input: "9:00", want: "09:00"},
		{name: "not a time", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)

	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)
}

func TestTimeString_IsBefore(t *testing.T) {
	open, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)
	close, err := NewTimeStringFromString("17:00")
	require.NoError(t, err)

	assert.True(t, open.IsBefore(close))
	assert.False(t, close.IsBefore(open))
	assert.False(t, open.IsBefore(open))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("09:15")
	require.NoError(t, err)

	later, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, "10:00", later.String())

	// Выход за границу суток
	_, err = ts.AddMinutes(15 * 60)
	assert.Error(t, err)
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("America/Guyana")
	require.NoError(t, err)

	ts, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)

	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	instant, err := ts.At(date, loc)
	require.NoError(t, err)

	// Guyana UTC-4: 09:00 локально = 13:00 UTC
	assert.Equal(t, time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC), instant.UTC())
}

func TestTimeString_JSON(t *testing.T) {
	ts, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(data))

	var decoded TimeString
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ts, decoded)

	var bad TimeString
	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &bad))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("08:45"))
	assert.Equal(t, "08:45", ts.String())

	var null TimeString
	require.NoError(t, null.Scan(nil))
	assert.True(t, null.IsZero())
}
