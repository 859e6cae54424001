package scoreboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	for s := -3; s <= 6; s++ {
		got := ClampScore(s, 3)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 2)

		got = ClampScore(s, 5)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 3)
	}
	assert.Equal(t, 1, ClampScore(1, 3))
	assert.Equal(t, 3, ClampScore(4, 5))
	assert.Equal(t, 2, ClampScore(4, 0), "unset best-of behaves like Bo3")
}

func TestIsGrandFinal(t *testing.T) {
	assert.True(t, IsGrandFinal("Grand Final"))
	assert.True(t, IsGrandFinal("Grand Final Reset"))
	assert.False(t, IsGrandFinal("Winners Final"))
	assert.False(t, IsGrandFinal(""))
}

func TestNewEmpty(t *testing.T) {
	b := NewEmpty()
	assert.Equal(t, PortRed, b.P1.Color)
	assert.Equal(t, PortBlue, b.P2.Color)
	assert.Equal(t, 3, b.BestOf)
	assert.Zero(t, b.P1.Score)
}

func TestBestOfFromAPI(t *testing.T) {
	assert.Equal(t, 5, BestOfFromAPI(5))
	assert.Equal(t, 3, BestOfFromAPI(3))
	assert.Equal(t, 3, BestOfFromAPI(7))
}
