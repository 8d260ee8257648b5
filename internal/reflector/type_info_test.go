package reflector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type ping struct{ Seq int }

func TestTypeInfoFor(t *testing.T) {
	require.Equal(t, "github.com/codewandler/mailbox-go/internal/reflector.ping", TypeInfoFor[ping]().Name)
	require.Equal(t, "github.com/codewandler/mailbox-go/internal/reflector.ping", TypeInfoFor[*ping]().Name)
	require.Equal(t, "string", TypeInfoFor[string]().Name)
	require.Equal(t, "[]uint8", TypeInfoFor[[]byte]().Name)
}

func TestTypeInfoOf(t *testing.T) {
	require.Equal(t, TypeInfoFor[ping](), TypeInfoOf(&ping{}))
	require.Equal(t, TypeInfo{}, TypeInfoOf(nil))
}

func TestTypeInfoFor_interface(t *testing.T) {
	require.Equal(t, "interface {}", TypeInfoFor[any]().Name)
}
