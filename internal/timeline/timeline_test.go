package timeline

import (
	"testing"

	"profit-forecast/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValueAtDay(t *testing.T) {
	changes := []model.RateChange{{Day: 15, Value: 40}, {Day: 30, Value: 50}}

	tests := []struct {
		day  int
		want float64
	}{
		{0, 10},
		{10, 10},
		{14, 10},
		{15, 40},
		{20, 40},
		{29, 40},
		{30, 50},
		{180, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValueAtDay(changes, tt.day, 10), "day=%d", tt.day)
	}
}

func TestValueAtDay_Empty(t *testing.T) {
	assert.Equal(t, 7.5, ValueAtDay(nil, 3, 7.5))
}

func TestValueAtDay_TieLastWins(t *testing.T) {
	changes := []model.RateChange{{Day: 5, Value: 1}, {Day: 5, Value: 2}}
	assert.Equal(t, 2.0, ValueAtDay(changes, 5, 0))
}

func TestValueAtDay_OutOfOrderUsesLargestDay(t *testing.T) {
	changes := []model.RateChange{{Day: 20, Value: 3}, {Day: 10, Value: 9}}
	assert.Equal(t, 3.0, ValueAtDay(changes, 25, 0))
	assert.Equal(t, 9.0, ValueAtDay(changes, 15, 0))
}

func TestInsert(t *testing.T) {
	var changes []model.RateChange
	changes = Insert(changes, model.RateChange{Day: 30, Value: 50})
	changes = Insert(changes, model.RateChange{Day: 15, Value: 40})
	changes = Insert(changes, model.RateChange{Day: 15, Value: 45})
	changes = Insert(changes, model.RateChange{Day: 60, Value: 55})

	assert.Equal(t, []model.RateChange{
		{Day: 15, Value: 40},
		{Day: 15, Value: 45},
		{Day: 30, Value: 50},
		{Day: 60, Value: 55},
	}, changes)
	assert.Equal(t, 45.0, ValueAtDay(changes, 20, 0))
}

func TestInsert_DoesNotMutateInput(t *testing.T) {
	in := []model.RateChange{{Day: 1, Value: 1}, {Day: 3, Value: 3}}
	_ = Insert(in, model.RateChange{Day: 2, Value: 2})
	assert.Equal(t, []model.RateChange{{Day: 1, Value: 1}, {Day: 3, Value: 3}}, in)
}

func TestRemoveAndSort(t *testing.T) {
	changes := []model.RateChange{{Day: 9, Value: 1}, {Day: 2, Value: 2}, {Day: 9, Value: 3}, {Day: 2, Value: 4}}
	Sort(changes)
	assert.Equal(t, []model.RateChange{{Day: 2, Value: 2}, {Day: 2, Value: 4}, {Day: 9, Value: 1}, {Day: 9, Value: 3}}, changes)

	assert.Equal(t, []model.RateChange{{Day: 9, Value: 1}, {Day: 9, Value: 3}}, Remove(changes, 2))
}

func TestNormalize(t *testing.T) {
	s := model.MetricsState{
		PriceChanges: []model.RateChange{{Day: 30, Value: 1}, {Day: 10, Value: 2}, {Day: 10, Value: 3}},
		StockChanges: []model.RateChange{{Day: 5, Value: 80}},
	}
	n := Normalize(s)

	assert.Equal(t, []model.RateChange{{Day: 10, Value: 2}, {Day: 10, Value: 3}, {Day: 30, Value: 1}}, n.PriceChanges)
	assert.Equal(t, 30, s.PriceChanges[0].Day, "input must be untouched")
	assert.Equal(t, s.StockChanges, n.StockChanges)
	assert.Nil(t, n.AdvertisingChanges)
	assert.Equal(t, 3.0, ValueAtDay(n.PriceChanges, 12, 0))
}

func TestScheduleAndClear(t *testing.T) {
	s := model.MetricsState{
		AdvertisingChanges: []model.RateChange{{Day: 10, Value: 3}, {Day: 20, Value: 4}},
	}

	added := Schedule(s, model.LeverCPL, model.RateChange{Day: 10, Value: 5})
	assert.Equal(t, []model.RateChange{{Day: 10, Value: 3}, {Day: 10, Value: 5}, {Day: 20, Value: 4}}, added.AdvertisingChanges)
	assert.Equal(t, 5.0, ValueAtDay(added.AdvertisingChanges, 15, 2))
	assert.Len(t, s.AdvertisingChanges, 2)

	cleared := Clear(added, model.LeverCPL, 10)
	assert.Equal(t, []model.RateChange{{Day: 20, Value: 4}}, cleared.AdvertisingChanges)
	assert.Equal(t, 2.0, ValueAtDay(cleared.AdvertisingChanges, 15, 2))

	priced := Schedule(model.MetricsState{}, model.LeverPrice, model.RateChange{Day: 7, Value: 45})
	assert.Equal(t, []model.RateChange{{Day: 7, Value: 45}}, priced.PriceChanges)
}
