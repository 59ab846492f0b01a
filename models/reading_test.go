package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validResult() *AnalyticsResult {
	return &AnalyticsResult{
		TotalRecords:     2,
		AverageTemp:      21.0,
		MaxTemp:          22.0,
		MinTemp:          20.0,
		AverageHumidity:  55.0,
		RecordsPerSensor: map[string]int{SensorAlpha: 1, SensorGamma: 1},
		RawData: []RawRecord{
			{Timestamp: "2024-05-01 10:00:00", SensorID: SensorAlpha, Temperature: 20.0, Humidity: 50.0},
			{Timestamp: "2024-05-01 10:01:00", SensorID: SensorGamma, Temperature: 22.0, Humidity: 60.0},
		},
	}
}

func TestValidateAcceptsConsistentResult(t *testing.T) {
	require.NoError(t, validResult().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(r *AnalyticsResult){
		"zero total":        func(r *AnalyticsResult) { r.TotalRecords = 0 },
		"nan average":       func(r *AnalyticsResult) { r.AverageTemp = math.NaN() },
		"inf humidity":      func(r *AnalyticsResult) { r.AverageHumidity = math.Inf(1) },
		"average above max": func(r *AnalyticsResult) { r.AverageTemp = 23.0 },
		"unknown sensor":    func(r *AnalyticsResult) { r.RecordsPerSensor = map[string]int{"sensor_delta": 2} },
		"counts mismatch":   func(r *AnalyticsResult) { r.RecordsPerSensor[SensorAlpha] = 3 },
		"missing rows":      func(r *AnalyticsResult) { r.RawData = r.RawData[:1] },
		"bad timestamp":     func(r *AnalyticsResult) { r.RawData[0].Timestamp = "2024-05-01T10:00:00Z" },
		"nan row":           func(r *AnalyticsResult) { r.RawData[1].Humidity = math.NaN() },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := validResult()
			mutate(r)
			require.ErrorIs(t, r.Validate(), ErrInvalidResult)
		})
	}
}

func TestSummaryDropsRawData(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC)
	s := validResult().Summary(at)

	require.Equal(t, 2, s.TotalRecords)
	require.Equal(t, 21.0, s.AverageTemp)
	require.Equal(t, at, s.GeneratedAt)
	require.Equal(t, map[string]int{SensorAlpha: 1, SensorGamma: 1}, s.RecordsPerSensor)
}

func TestIsKnownSensor(t *testing.T) {
	for _, id := range SensorIDs {
		require.True(t, IsKnownSensor(id))
	}
	require.False(t, IsKnownSensor("sensor_delta"))
	require.False(t, IsKnownSensor(""))
}
