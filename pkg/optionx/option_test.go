package optionx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionPresence(t *testing.T) {
	t.Parallel()

	t.Run("none is absent", func(t *testing.T) {
		o := None[string]()
		require.False(t, o.Present())

		v, ok := o.Get()
		require.False(t, ok)
		require.Empty(t, v)
		require.Nil(t, o.Ptr())
	})

	t.Run("some carries the value", func(t *testing.T) {
		o := Some(42)
		require.True(t, o.Present())

		v, ok := o.Get()
		require.True(t, ok)
		require.Equal(t, 42, v)
	})

	t.Run("or falls back only when absent", func(t *testing.T) {
		require.Equal(t, "kept", Some("kept").Or("fallback"))
		require.Equal(t, "fallback", None[string]().Or("fallback"))
	})
}

func TestOptionUnmarshal(t *testing.T) {
	t.Parallel()

	type payload struct {
		Username Option[string]  `json:"username"`
		Avatar   Option[*string] `json:"avatar"`
		Verified Option[bool]    `json:"verified"`
	}

	t.Run("missing keys stay absent", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		require.False(t, p.Username.Present())
		require.False(t, p.Avatar.Present())
		require.False(t, p.Verified.Present())
	})

	t.Run("present keys decode their value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"username":"alice","verified":false}`), &p))

		require.True(t, p.Username.Present())
		require.Equal(t, "alice", p.Username.OrZero())

		// false is a value, not an absence
		v, ok := p.Verified.Get()
		require.True(t, ok)
		require.False(t, v)
	})

	t.Run("explicit null is present but nil", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"avatar":null}`), &p))

		require.True(t, p.Avatar.Present())
		require.Nil(t, p.Avatar.OrZero())
	})
}

func TestOptionMarshal(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Some("hi"))
	require.NoError(t, err)
	require.JSONEq(t, `"hi"`, string(b))

	b, err = json.Marshal(None[string]())
	require.NoError(t, err)
	require.JSONEq(t, `null`, string(b))
}
