package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawIntervalAcceptedShapes(t *testing.T) {
	var raw []RawInterval
	payload := `[{"from":1000,"to":2000},{"fromMin":540,"toMin":600},[60,120]]`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	require.Len(t, raw, 3)

	require.False(t, raw[0].IsMinutes())
	require.Equal(t, Interval{From: 1000, To: 2000}, raw[0].Epoch(0))

	require.True(t, raw[1].IsMinutes())
	fromMin, toMin, ok := raw[1].Minutes()
	require.True(t, ok)
	require.Equal(t, 540, fromMin)
	require.Equal(t, 600, toMin)

	// Bare pairs are minute offsets.
	require.True(t, raw[2].IsMinutes())
	require.Equal(t, Interval{From: 3600, To: 7200}, raw[2].Epoch(0))
}

func TestRawIntervalEpochAnchoring(t *testing.T) {
	dayStart := int64(1717372800)
	iv := NewMinuteInterval(540, 630).Epoch(dayStart)
	require.Equal(t, dayStart+540*60, iv.From)
	require.Equal(t, dayStart+630*60, iv.To)

	// Epoch intervals ignore the anchor.
	require.Equal(t, Interval{From: 10, To: 20}, NewEpochInterval(10, 20).Epoch(dayStart))
}

func TestRawIntervalRejectsUnknownShape(t *testing.T) {
	var iv RawInterval
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &iv))
}

func TestRawIntervalMarshalCanonical(t *testing.T) {
	out, err := json.Marshal(NewEpochInterval(100, 200))
	require.NoError(t, err)
	require.JSONEq(t, `{"from":100,"to":200}`, string(out))

	out, err = json.Marshal(NewMinuteInterval(30, 90))
	require.NoError(t, err)
	require.JSONEq(t, `{"fromMin":30,"toMin":90}`, string(out))
}

func TestDecodeIntervalsKeepsCorruptEntries(t *testing.T) {
	out := DecodeIntervals([]RawInterval{
		NewEpochInterval(200, 100),
		NewEpochInterval(100, 200),
	}, 0)
	require.Len(t, out, 2)
	require.False(t, out[0].Valid())
	require.True(t, out[1].Valid())
}
