package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	type ping struct {
		Seq int `json:"seq"`
	}

	b, err := JSON.Marshal(ping{Seq: 3})
	require.NoError(t, err)
	require.JSONEq(t, `{"seq":3}`, string(b))

	var p ping
	require.NoError(t, JSON.Unmarshal(b, &p))
	require.Equal(t, 3, p.Seq)

	require.Error(t, JSON.Unmarshal([]byte("{"), &p))
}
