package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTrendZeroBaseIsZero(t *testing.T) {
	assert.Equal(t, 0.0, ComputeTrend(0, 0))
	assert.Equal(t, 0.0, ComputeTrend(10, 0))
	assert.Equal(t, 0.0, ComputeTrend(-3, 0))
}

func TestComputeTrendEqualPeriodsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, ComputeTrend(7, 7))
	assert.Equal(t, 0.0, ComputeTrend(1, 1))
}

func TestComputeTrendSign(t *testing.T) {
	assert.Greater(t, ComputeTrend(12, 8), 0.0)
	assert.Less(t, ComputeTrend(8, 12), 0.0)
}

func TestComputeTrendValue(t *testing.T) {
	assert.InDelta(t, 150.0, ComputeTrend(10, 4), 1e-9)
	assert.InDelta(t, -50.0, ComputeTrend(5, 10), 1e-9)
	assert.InDelta(t, -100.0, ComputeTrend(0, 3), 1e-9)
}

func TestBucketizeGaplessAndChronological(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	events := []time.Time{
		time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 16, 30, 0, 0, time.UTC),
		time.Date(2025, time.March, 7, 11, 0, 0, 0, time.UTC),
	}

	buckets := Bucketize(events, 7, now)

	assert.Len(t, buckets, 7)
	assert.Equal(t, "04/03", buckets[0].Label)
	assert.Equal(t, "10/03", buckets[6].Label)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, len(events), total)
	assert.Equal(t, 2, buckets[6].Count)
	assert.Equal(t, 1, buckets[3].Count) // March 7
	assert.Equal(t, 0, buckets[0].Count)
}

func TestBucketizeIgnoresStrayEvents(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	events := []time.Time{
		time.Date(2025, time.March, 3, 23, 59, 0, 0, time.UTC),  // day before the window
		time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC),   // tomorrow
		time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),  // a year off
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),  // in window
	}

	buckets := Bucketize(events, 7, now)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 1, total)
}

func TestBucketizeZeroWindowIsEmpty(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.Empty(t, Bucketize(nil, 0, now))
	assert.Empty(t, Bucketize([]time.Time{now}, 0, now))
	assert.Empty(t, Bucketize([]time.Time{now}, -1, now))
}

func TestBucketizeNoEvents(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	buckets := Bucketize(nil, 7, now)

	assert.Len(t, buckets, 7)
	for _, b := range buckets {
		assert.Equal(t, 0, b.Count)
	}
}

func TestBucketizeCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)

	buckets := Bucketize(nil, 7, now)

	assert.Equal(t, "24/02", buckets[0].Label)
	assert.Equal(t, "28/02", buckets[4].Label)
	assert.Equal(t, "01/03", buckets[5].Label)
	assert.Equal(t, "02/03", buckets[6].Label)
}
