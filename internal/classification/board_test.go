package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pattty847/poker-trainer/internal/deck"
)

func TestClassifyDryHighBoard(t *testing.T) {
	t.Parallel()

	feats := Classify(deck.MustParseAll("As", "Kd", "2c"), 5)
	assert.True(t, feats.HighCardHeavy)
	assert.False(t, feats.Monotone)
	assert.False(t, feats.Connected)
	assert.Equal(t, Dry, feats.Type)
	assert.Equal(t, Mid, feats.SPRBucket)
}

func TestClassifyWetConnected(t *testing.T) {
	t.Parallel()

	feats := Classify(deck.MustParseAll("9h", "8h", "7c"), 7)
	assert.True(t, feats.Connected)
	assert.Equal(t, Wet, feats.Type)
	assert.Equal(t, Deep, feats.SPRBucket)
}

func TestClassifyMonotone(t *testing.T) {
	t.Parallel()

	feats := Classify(deck.MustParseAll("Jh", "6h", "2h"), 4)
	assert.True(t, feats.Monotone)
	assert.Equal(t, Wet, feats.Type)
}

func TestDynamicOverridesWet(t *testing.T) {
	t.Parallel()

	// Connected and high-card heavy
	feats := Classify(deck.MustParseAll("Ks", "Qd", "Jc"), 5)
	assert.True(t, feats.Connected)
	assert.True(t, feats.HighCardHeavy)
	assert.Equal(t, Dynamic, feats.Type)
}

func TestClassifyPaired(t *testing.T) {
	t.Parallel()

	feats := Classify(deck.MustParseAll("8s", "8d", "3c"), 5)
	assert.True(t, feats.Paired)
}

func TestTextureUsesFlopOnly(t *testing.T) {
	t.Parallel()

	// Turn and river cards must not change texture
	flop := Classify(deck.MustParseAll("9h", "8h", "7c"), 5)
	river := Classify(deck.MustParseAll("9h", "8h", "7c", "2d", "2s"), 5)
	assert.Equal(t, flop.Type, river.Type)
	assert.Equal(t, flop.Paired, river.Paired)
}

func TestEmptyBoardOnlySPRBucket(t *testing.T) {
	t.Parallel()

	feats := Classify(nil, 2)
	assert.Equal(t, Dry, feats.Type)
	assert.Equal(t, Shallow, feats.SPRBucket)
	assert.False(t, feats.Monotone)
	assert.False(t, feats.Paired)
	assert.False(t, feats.Connected)
	assert.False(t, feats.HighCardHeavy)
}

func TestSPRBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spr    float64
		bucket SPRBucket
	}{
		{0, Shallow},
		{2.99, Shallow},
		{3, Mid},
		{6, Mid},
		{6.01, Deep},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.bucket, Classify(nil, tc.spr).SPRBucket, "spr=%v", tc.spr)
	}
}

func TestRecommendedBetSize(t *testing.T) {
	t.Parallel()

	dry := Features{Type: Dry, SPRBucket: Mid}
	wetDeep := Features{Type: Wet, Connected: true, SPRBucket: Deep}
	wetShallow := Features{Type: Wet, Connected: true, SPRBucket: Shallow}
	paired := Features{Type: Dry, Paired: true, SPRBucket: Mid}
	highShallow := Features{Type: Dry, HighCardHeavy: true, SPRBucket: Shallow}
	highDeep := Features{Type: Dry, HighCardHeavy: true, SPRBucket: Deep}

	assert.InDelta(t, 3.3, RecommendedBetSize(10, dry), 0.001)
	assert.InDelta(t, 6.6, RecommendedBetSize(10, wetDeep), 0.001)
	assert.InDelta(t, 5.0, RecommendedBetSize(10, wetShallow), 0.001)
	assert.InDelta(t, 3.3, RecommendedBetSize(10, paired), 0.001)
	assert.InDelta(t, 2.5, RecommendedBetSize(10, highShallow), 0.001)
	assert.InDelta(t, 3.3, RecommendedBetSize(10, highDeep), 0.001)
	assert.Zero(t, RecommendedBetSize(0, dry))
	assert.Zero(t, RecommendedBetSize(-1, wetDeep))
}
