package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pattty847/poker-trainer/internal/classification"
)

func TestPotOddsPolicy(t *testing.T) {
	t.Parallel()

	p := PotOddsPolicy{Threshold: 0.40}

	assert.True(t, p.ShouldCall(0, 10), "free option is always taken")
	assert.True(t, p.ShouldCall(-1, 10))
	assert.True(t, p.ShouldCall(2, 4), "2 into 4 is exactly 0.333")
	assert.True(t, p.ShouldCall(4, 6), "4 into 6 is exactly the threshold")
	assert.False(t, p.ShouldCall(5, 6), "5 into 6 is above the threshold")
	assert.False(t, p.ShouldCall(10, 10))
}

func TestHeroCallsTighterThanVillain(t *testing.T) {
	t.Parallel()

	hero := PotOddsPolicy{Threshold: heroCallThreshold}
	villain := PotOddsPolicy{Threshold: villainCallThreshold}

	// 0.39 pot odds: villain calls, hero folds
	call, pot := 39.0, 61.0
	assert.True(t, villain.ShouldCall(call, pot))
	assert.False(t, hero.ShouldCall(call, pot))
}

func TestTextureBetPolicy(t *testing.T) {
	t.Parallel()

	p := TextureBetPolicy{}

	assert.True(t, p.ShouldBet(classification.Features{Type: classification.Dry}))
	assert.True(t, p.ShouldBet(classification.Features{
		Type:          classification.Wet,
		HighCardHeavy: true,
	}))
	assert.False(t, p.ShouldBet(classification.Features{
		Type:          classification.Wet,
		HighCardHeavy: true,
		Monotone:      true,
	}))
	assert.False(t, p.ShouldBet(classification.Features{Type: classification.Dynamic}))
}
