package llmjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	Symbol string    `json:"symbol"`
	Action string    `json:"action"`
	Target FlexFloat `json:"targetPrice"`
}

func TestDecodeArray_FromChattyText(t *testing.T) {
	raw := "Sure! Here are my picks:\n[{\"symbol\":\"TCS.NS\",\"action\":\"Sell\",\"targetPrice\":3720}]\nGood luck."

	got := DecodeArray[rec](raw)

	require.True(t, got.OK())
	require.Len(t, got.Value, 1)
	assert.Equal(t, "TCS.NS", got.Value[0].Symbol)
	assert.Equal(t, 3720.0, got.Value[0].Target.Value)
}

func TestDecodeArray_CodeFence(t *testing.T) {
	raw := "```json\n[{\"symbol\":\"INFY.NS\",\"action\":\"Hold\",\"targetPrice\":\"1,500\"}]\n```"

	got := DecodeArray[rec](raw)

	require.True(t, got.OK())
	assert.Equal(t, 1500.0, got.Value[0].Target.Value)
}

func TestDecodeArray_NoArray(t *testing.T) {
	got := DecodeArray[rec]("I cannot help with that request.")

	assert.False(t, got.OK())
	assert.ErrorIs(t, got.Cause, ErrNoArray)
	assert.NotNil(t, got.Value)
	assert.Empty(t, got.Value)
}

func TestDecodeArray_Empty(t *testing.T) {
	got := DecodeArray[rec]("   ")
	assert.ErrorIs(t, got.Cause, ErrEmpty)
}

func TestDecodeArray_Malformed(t *testing.T) {
	got := DecodeArray[rec](`[{"symbol": "TCS.NS", "action": }]`)

	assert.ErrorIs(t, got.Cause, ErrMalformed)
	assert.Empty(t, got.Value)
}

func TestDecodeArray_FallsBackToBalancedSpan(t *testing.T) {
	// The greedy span runs into the trailing bracket note and fails to decode.
	raw := `[{"symbol":"SBIN.NS","action":"Buy","targetPrice":800}] see note [1`
	raw += "]"

	got := DecodeArray[rec](raw)

	require.True(t, got.OK(), "cause: %v", got.Cause)
	require.Len(t, got.Value, 1)
	assert.Equal(t, "SBIN.NS", got.Value[0].Symbol)
}

func TestDecodeObject(t *testing.T) {
	type advice struct {
		Recommendation string `json:"recommendation"`
		Reason         string `json:"reason"`
	}

	got := DecodeObject[advice]("Answer: {\"recommendation\":\"roll\",\"reason\":\"Close to expiry {theta}\"}")
	require.True(t, got.OK())
	assert.Equal(t, "roll", got.Value.Recommendation)
	assert.Equal(t, "Close to expiry {theta}", got.Value.Reason)

	missing := DecodeObject[advice]("no json here")
	assert.ErrorIs(t, missing.Cause, ErrNoObject)
}

func TestFlexFloat(t *testing.T) {
	cases := map[string]struct {
		value float64
		valid bool
	}{
		`8`:         {8, true},
		`"8%"`:      {8, true},
		`"5x"`:      {5, true},
		`" 2.5 % "`: {2.5, true},
		`"₹1,450"`:  {1450, true},
		`"n/a"`:     {0, false},
		`null`:      {0, false},
		`true`:      {0, false},
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			var f FlexFloat
			require.NoError(t, json.Unmarshal([]byte(input), &f))
			assert.Equal(t, want.valid, f.Valid)
			assert.Equal(t, want.value, f.Value)
		})
	}
}

func TestDecodeArray_DropsOnlyBadElements(t *testing.T) {
	raw := `[{"symbol":123,"action":"Buy"},{"symbol":"TCS.NS","action":"Sell","targetPrice":3720},"oops"]`

	got := DecodeArray[rec](raw)

	require.True(t, got.OK())
	require.Len(t, got.Value, 1)
	assert.Equal(t, "TCS.NS", got.Value[0].Symbol)
	assert.Equal(t, 2, got.Skipped)
}
