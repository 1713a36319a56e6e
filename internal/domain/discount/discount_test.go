package discount

import (
	"testing"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_RecognizedCode(t *testing.T) {
	svc := NewService(DefaultCodes())

	applied, err := svc.Apply("XVYZ6H", decimal.NewFromInt(400000))
	require.NoError(t, err)
	assert.Equal(t, "XVYZ6H", applied.Code)
	assert.True(t, decimal.NewFromInt(30000).Equal(applied.Amount))
}

func TestApply_UnknownCode(t *testing.T) {
	svc := NewService(DefaultCodes())

	_, err := svc.Apply("NOPE99", decimal.NewFromInt(400000))
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.Apply("", decimal.NewFromInt(400000))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestApply_CappedAtSubtotal(t *testing.T) {
	svc := NewService(DefaultCodes())

	applied, err := svc.Apply("XVYZ6H", decimal.NewFromInt(12000))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12000).Equal(applied.Amount))
}

func TestBloomCodes_Contains(t *testing.T) {
	filter := bloom.NewWithEstimates(1000, 0.001)
	filter.AddString("HAPPYHRS")

	codes := NewBloomCodes(filter)
	assert.True(t, codes.Contains("HAPPYHRS"))
	assert.True(t, codes.Contains("happyhrs"), "membership is case-insensitive")
	assert.False(t, codes.Contains("ABSENT00"))
}
