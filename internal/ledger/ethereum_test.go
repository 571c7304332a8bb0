package ledger

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256ToInt64(t *testing.T) {
	v, err := uint256ToInt64(big.NewInt(1_000_000_000), "campaign target")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), v)

	v, err = uint256ToInt64(big.NewInt(math.MaxInt64), "campaign target")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	over := new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1))
	_, err = uint256ToInt64(over, "campaign raised amount")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campaign raised amount")
}

func TestClampAllowance(t *testing.T) {
	assert.Equal(t, int64(500), clampAllowance(big.NewInt(500)))

	// the common infinite-approval pattern must read as sufficient, not wrap
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Equal(t, int64(math.MaxInt64), clampAllowance(maxUint256))
}
