package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			kMin, kMax := pm.GetBucketRange(np)
			histo[kMax-kMin]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	// Fewer items than workers collapses the worker count
	assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{0: 1}, getHisto(0, 8))
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 287, getTotal(getHisto(287, 32)))
	for n := 64; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}
}

func TestPartitionMapCoverage(t *testing.T) {
	// Buckets tile [0, maxIndex) in order with no gaps or overlaps
	for maxIndex := 0; maxIndex < 500; maxIndex++ {
		for _, np := range []int{1, 2, 5, 7, 16} {
			pm := NewPartitionMap(np, maxIndex)
			next := 0
			for bn := 0; bn < pm.ParallelDegree; bn++ {
				kMin, kMax := pm.GetBucketRange(bn)
				assert.Equal(t, next, kMin)
				assert.LessOrEqual(t, kMin, kMax)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
}

func TestDefaultParallelDegree(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultParallelDegree(), 1)
}
