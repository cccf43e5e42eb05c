package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bpdiary/internal/reading"
)

// No records still yields a full 30-day window of gaps.
func TestBuildChartSeries_EmptyInputFullWindow(t *testing.T) {
	series := BuildChartSeries(nil, "2024-01-30", 30)

	assert.True(t, series.Empty)
	require.Len(t, series.Points, 30)
	assert.Equal(t, reading.Date("2024-01-01"), series.Points[0].Date)
	assert.Equal(t, reading.Date("2024-01-30"), series.Points[29].Date)
	for _, p := range series.Points {
		assert.False(t, p.HasData(), "point %s", p.Date)
		assert.Nil(t, p.MorningSystolic)
		assert.Nil(t, p.MorningDiastolic)
		assert.Nil(t, p.EveningSystolic)
		assert.Nil(t, p.EveningDiastolic)
	}
}

// The window size never depends on how many records there are.
func TestBuildChartSeries_AlwaysWindowSize(t *testing.T) {
	inputs := [][]reading.Reading{
		nil,
		{rec("a", "2024-01-30", reading.Morning, 120, 80, 1)},
		{rec("b", "2023-06-01", reading.Evening, 120, 80, 1)},
	}
	for _, size := range []int{1, 7, 30, 90} {
		for _, in := range inputs {
			assert.Len(t, BuildChartSeries(in, "2024-01-30", size).Points, size)
		}
	}
}

// Oversized windows are clamped rather than allocated.
func TestBuildChartSeries_ClampsToMaxWindow(t *testing.T) {
	for _, size := range []int{MaxWindow + 1, 1 << 62} {
		series := BuildChartSeries(nil, "2024-01-30", size)

		require.Len(t, series.Points, MaxWindow)
		assert.Equal(t, reading.Date("2024-01-30"), series.Points[MaxWindow-1].Date)
	}
}

func TestBuildChartSeries_ConsecutiveDates(t *testing.T) {
	series := BuildChartSeries(nil, "2024-03-05", 10)

	require.Len(t, series.Points, 10)
	assert.Equal(t, reading.Date("2024-02-25"), series.Points[0].Date)
	for i := 1; i < len(series.Points); i++ {
		next, err := series.Points[i-1].Date.AddDays(1)
		require.NoError(t, err)
		assert.Equal(t, next, series.Points[i].Date)
	}
}

func TestBuildChartSeries_PlacesValues(t *testing.T) {
	records := []reading.Reading{
		rec("e", "2024-01-30", reading.Evening, 135, 88, 3),
		rec("m", "2024-01-30", reading.Morning, 120, 80, 2),
		rec("x", "2024-01-28", reading.Morning, 110, 70, 1),
	}

	series := BuildChartSeries(records, "2024-01-30", 5)

	assert.False(t, series.Empty)
	last := series.Points[4]
	require.NotNil(t, last.MorningSystolic)
	assert.Equal(t, 120, *last.MorningSystolic)
	assert.Equal(t, 80, *last.MorningDiastolic)
	assert.Equal(t, 135, *last.EveningSystolic)
	assert.Equal(t, 88, *last.EveningDiastolic)

	mid := series.Points[2]
	assert.Equal(t, reading.Date("2024-01-28"), mid.Date)
	assert.Equal(t, 110, *mid.MorningSystolic)
	assert.Nil(t, mid.EveningSystolic)

	assert.False(t, series.Points[3].HasData())
}

func TestBuildChartSeries_RecordsOutsideWindowAreGapsNotEmpty(t *testing.T) {
	records := []reading.Reading{rec("old", "2023-01-01", reading.Morning, 120, 80, 1)}

	series := BuildChartSeries(records, "2024-01-30", 30)

	assert.False(t, series.Empty)
	for _, p := range series.Points {
		assert.False(t, p.HasData())
	}
}

// The chart shows the same reading the history does for a duplicated slot.
func TestBuildChartSeries_DuplicatePolicyMatchesGroupByDay(t *testing.T) {
	records := []reading.Reading{
		rec("newer", "2024-01-30", reading.Morning, 140, 90, 2),
		rec("older", "2024-01-30", reading.Morning, 120, 80, 1),
	}

	series := BuildChartSeries(records, "2024-01-30", 1)
	days := GroupByDay(records, Descending)

	require.Len(t, series.Points, 1)
	require.NotNil(t, days[0].Morning.Reading)
	assert.Equal(t, days[0].Morning.Reading.Systolic, *series.Points[0].MorningSystolic)
	assert.Equal(t, 120, *series.Points[0].MorningSystolic)
}

func TestBuildChartSeries_NonPositiveSizeUsesDefault(t *testing.T) {
	assert.Len(t, BuildChartSeries(nil, "2024-01-30", 0).Points, DefaultWindow)
	assert.Len(t, BuildChartSeries(nil, "2024-01-30", -5).Points, DefaultWindow)
}

func TestBuildChartSeries_BadEndDate(t *testing.T) {
	series := BuildChartSeries(nil, "30.01.2024", 30)
	assert.NotNil(t, series.Points)
	assert.Empty(t, series.Points)
}

func TestBuildChartSeries_AcrossDST(t *testing.T) {
	// Europe's 2024 spring-forward was 31 March; dates must not skip.
	series := BuildChartSeries(nil, "2024-04-02", 5)

	var dates []reading.Date
	for _, p := range series.Points {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, []reading.Date{"2024-03-29", "2024-03-30", "2024-03-31", "2024-04-01", "2024-04-02"}, dates)
}

func TestPoint_MissingIsNullNotZero(t *testing.T) {
	p := Point{Date: "2024-01-30", MorningSystolic: reading.IntPtr(120), MorningDiastolic: reading.IntPtr(80)}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"date": "2024-01-30",
		"morning_systolic": 120,
		"morning_diastolic": 80,
		"evening_systolic": null,
		"evening_diastolic": null
	}`, string(data))
}

func TestChartWindowEnd(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, 1, 31, 2, 0, 0, 0, time.UTC).In(loc)

	assert.Equal(t, reading.Date("2024-01-30"), ChartWindowEnd(now))
}
