package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// 同一种子的两个引擎应产生完全相同的序列
func TestSameSeedSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

// 不同种子的序列应当不同
func TestDifferentSeedDiverges(t *testing.T) {
	a := randengine.New(1)
	b := randengine.New(2)
	same := true
	for i := 0; i < 100; i++ {
		if a.Intn(1 << 30) != b.Intn(1 << 30) {
			same = false
		}
	}
	assert.False(t, same)
}

// PTrue在概率0和1时应确定
func TestPTrueBounds(t *testing.T) {
	e := randengine.New(7)
	for i := 0; i < 100; i++ {
		assert.False(t, e.PTrue(0))
		assert.True(t, e.PTrue(1))
	}
}

func TestChoice(t *testing.T) {
	e := randengine.New(3)
	assert.Equal(t, "only", randengine.Choice(e, []string{"only"}))
	xs := []int{10, 20, 30}
	for i := 0; i < 50; i++ {
		assert.Contains(t, xs, randengine.Choice(e, xs))
	}
	assert.Panics(t, func() { randengine.Choice(e, []int{}) })
}
