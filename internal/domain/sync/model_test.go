package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultAccumulation(t *testing.T) {
	r := NewResult()
	require.NotEmpty(t, r.RunID)

	r.AddSuccess("10/2024")
	r.AddFailure("11/2024", "fetch failed")
	r.AddSuccess("12/2024")

	assert.Equal(t, 3, r.TotalProcessed)
	assert.Equal(t, 2, r.Successful)
	assert.Equal(t, 1, r.Failed)
	require.Len(t, r.Details, 3)
	assert.Equal(t, StatusFailed, r.Details[1].Status)
	assert.Equal(t, "fetch failed", r.Details[1].Message)
}

func TestResultAddBatch(t *testing.T) {
	ids := []string{"1/2024", "2/2024", "3/2024"}

	ok := NewResult()
	ok.AddBatch(ids, nil)
	assert.Equal(t, 3, ok.Successful)
	assert.Equal(t, 0, ok.Failed)

	failed := NewResult()
	failed.AddBatch(ids, errors.New("batch insert failed"))
	assert.Equal(t, 0, failed.Successful)
	assert.Equal(t, 3, failed.Failed)
	for _, d := range failed.Details {
		assert.Equal(t, "batch insert failed", d.Message)
	}
}

func TestResultMerge(t *testing.T) {
	total := NewResult()

	one := NewResult()
	one.AddSuccess("1/2024")
	two := NewResult()
	two.AddFailure("2/2024", MessageNotFound)

	total.Merge(one)
	total.Merge(two)
	total.Merge(nil)

	assert.Equal(t, 2, total.TotalProcessed)
	assert.Equal(t, 1, total.Successful)
	assert.Equal(t, 1, total.Failed)
	assert.Len(t, total.Details, 2)
}

func TestParseNumeroAno(t *testing.T) {
	key, err := ParseNumeroAno("123/2024")
	require.NoError(t, err)
	assert.Equal(t, NumeroAno{Numero: 123, Ano: 2024}, key)
	assert.Equal(t, "123/2024", key.String())
	assert.False(t, key.IsZero())

	for _, in := range []string{"", "123", "123/abc", "a/2024", "1/2/3"} {
		_, err := ParseNumeroAno(in)
		assert.Error(t, err, "input %q should not parse", in)
	}

	assert.True(t, NumeroAno{}.IsZero())
}
