package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntCollection() *Collection[int] {
	return NewCollection(func() int { return 0 })
}

func TestCollection_StartsWithOneDefault(t *testing.T) {
	c := newIntCollection()
	assert.Equal(t, 1, c.Len())
	v, ok := c.At(0)
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestCollection_RemoveAtKeepsLastItem(t *testing.T) {
	c := newIntCollection()
	assert.False(t, c.RemoveAt(0))
	assert.Equal(t, 1, c.Len())

	c.Add()
	assert.False(t, c.RemoveAt(5))
	assert.False(t, c.RemoveAt(-1))
	assert.True(t, c.RemoveAt(1))
	assert.Equal(t, 1, c.Len())
}

func TestCollection_NeverDropsBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := newIntCollection()

	for i := 0; i < 1000; i++ {
		if rng.Intn(3) == 0 {
			c.Add()
		} else {
			c.RemoveAt(rng.Intn(c.Len() + 1))
		}
		require.GreaterOrEqual(t, c.Len(), 1)
	}
}

func TestCollection_RemoveAtPreservesOrder(t *testing.T) {
	c := newIntCollection()
	c.ReplaceAll([]int{1, 2, 3, 4})

	require.True(t, c.RemoveAt(1))
	assert.Equal(t, []int{1, 3, 4}, c.Items())
}

func TestCollection_ReplaceAll(t *testing.T) {
	c := newIntCollection()
	c.ReplaceAll([]int{7, 8})
	assert.Equal(t, []int{7, 8}, c.Items())

	c.ReplaceAll(nil)
	assert.Equal(t, []int{0}, c.Items())

	c.ReplaceAll([]int{})
	assert.Equal(t, 1, c.Len())
}

func TestCollection_ItemsIsACopy(t *testing.T) {
	c := newIntCollection()
	c.ReplaceAll([]int{1, 2})

	items := c.Items()
	items[0] = 99

	v, _ := c.At(0)
	assert.Equal(t, 1, v)
}

func TestCollection_Update(t *testing.T) {
	c := newIntCollection()
	require.NoError(t, c.Update(0, func(v *int) { *v = 5 }))
	v, _ := c.At(0)
	assert.Equal(t, 5, v)

	err := c.Update(3, func(v *int) {})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestParseCollectionID(t *testing.T) {
	tests := []struct {
		in   string
		want CollectionID
		ok   bool
	}{
		{"addresses", Addresses, true},
		{"banks", BankAccounts, true},
		{"attr", Attributes, true},
		{"cert", Certificates, true},
		{"phones", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCollectionID(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
