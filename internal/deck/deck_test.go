package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckHas52DistinctCards(t *testing.T) {
	t.Parallel()

	d := New(42)
	cards := d.Draw(52)
	require.Len(t, cards, 52)
	assert.Equal(t, 0, d.Remaining())

	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestSameSeedSameShuffle(t *testing.T) {
	t.Parallel()

	a := New(21).Draw(52)
	b := New(21).Draw(52)
	assert.Equal(t, a, b)

	c := New(22).Draw(52)
	assert.NotEqual(t, a, c)
}

func TestDrawMutatesDeck(t *testing.T) {
	t.Parallel()

	d := New(7)
	first := d.Draw(2)
	second := d.Draw(2)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 48, d.Remaining())
}

func TestDrawPastEndPanics(t *testing.T) {
	t.Parallel()

	d := New(1)
	d.Draw(50)
	assert.Panics(t, func() { d.Draw(3) })
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"As", "Td", "2c", "Kh", "9s"} {
		card, err := Parse(code)
		require.NoError(t, err)
		assert.Equal(t, code, card.String())
	}

	_, err := Parse("Ax")
	assert.Error(t, err)
	_, err = Parse("1s")
	assert.Error(t, err)
}
