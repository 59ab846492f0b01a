package analytics

import (
	"errors"
	"math"

	"sensor-analytics-api/models"
)

var ErrEmptyInput = errors.New("empty input")

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize computes the aggregate statistics over readings and renders the
// raw rows. Aggregates use full-precision values and are rounded afterwards.
func Summarize(readings []models.SensorReading) (*models.AnalyticsResult, error) {
	if len(readings) == 0 {
		return nil, ErrEmptyInput
	}

	temp := NewAccumulator()
	humidity := NewAccumulator()
	perSensor := make(map[string]int)
	rows := make([]models.RawRecord, 0, len(readings))

	for _, r := range readings {
		temp.Add(r.Temperature)
		humidity.Add(r.Humidity)
		perSensor[r.SensorID]++

		rows = append(rows, models.RawRecord{
			Timestamp:   r.Timestamp.Format(models.TimestampLayout),
			SensorID:    r.SensorID,
			Temperature: Round2(r.Temperature),
			Humidity:    Round2(r.Humidity),
		})
	}

	return &models.AnalyticsResult{
		TotalRecords:     len(readings),
		AverageTemp:      Round2(temp.Mean()),
		MaxTemp:          Round2(temp.Max()),
		MinTemp:          Round2(temp.Min()),
		AverageHumidity:  Round2(humidity.Mean()),
		RecordsPerSensor: perSensor,
		RawData:          rows,
	}, nil
}
