package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TimestampLayout is the wire format of reading timestamps: naive local time,
// second precision, no zone suffix.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	SensorAlpha = "sensor_alpha"
	SensorBeta  = "sensor_beta"
	SensorGamma = "sensor_gamma"
)

// SensorIDs is the closed set of simulated sensors.
var SensorIDs = []string{SensorAlpha, SensorBeta, SensorGamma}

var ErrInvalidResult = errors.New("invalid analytics result")

// IsKnownSensor reports whether id belongs to SensorIDs.
func IsKnownSensor(id string) bool {
	for _, s := range SensorIDs {
		if s == id {
			return true
		}
	}
	return false
}

type SensorReading struct {
	Timestamp   time.Time
	SensorID    string
	Temperature float64
	Humidity    float64
}

// RawRecord is a SensorReading as rendered in the raw_data section.
type RawRecord struct {
	Timestamp   string  `json:"timestamp"`
	SensorID    string  `json:"sensor_id"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type AnalyticsResult struct {
	TotalRecords     int            `json:"total_records"`
	AverageTemp      float64        `json:"average_temp"`
	MaxTemp          float64        `json:"max_temp"`
	MinTemp          float64        `json:"min_temp"`
	AverageHumidity  float64        `json:"average_humidity"`
	RecordsPerSensor map[string]int `json:"records_per_sensor"`
	RawData          []RawRecord    `json:"raw_data"`
}

// Validate checks the result before it is written to a client. Every failure
// wraps ErrInvalidResult.
func (r *AnalyticsResult) Validate() error {
	if r.TotalRecords <= 0 {
		return fmt.Errorf("%w: total_records must be positive, got %d", ErrInvalidResult, r.TotalRecords)
	}

	for name, v := range map[string]float64{
		"average_temp":     r.AverageTemp,
		"max_temp":         r.MaxTemp,
		"min_temp":         r.MinTemp,
		"average_humidity": r.AverageHumidity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidResult, name)
		}
	}

	if r.MinTemp > r.AverageTemp || r.AverageTemp > r.MaxTemp {
		return fmt.Errorf("%w: average_temp %.2f outside [%.2f, %.2f]",
			ErrInvalidResult, r.AverageTemp, r.MinTemp, r.MaxTemp)
	}

	sum := 0
	for id, n := range r.RecordsPerSensor {
		if !IsKnownSensor(id) {
			return fmt.Errorf("%w: unknown sensor_id %q", ErrInvalidResult, id)
		}
		if n <= 0 {
			return fmt.Errorf("%w: records_per_sensor[%s] must be positive", ErrInvalidResult, id)
		}
		sum += n
	}
	if sum != r.TotalRecords {
		return fmt.Errorf("%w: records_per_sensor sums to %d, total_records is %d",
			ErrInvalidResult, sum, r.TotalRecords)
	}

	if len(r.RawData) != r.TotalRecords {
		return fmt.Errorf("%w: raw_data has %d rows, total_records is %d",
			ErrInvalidResult, len(r.RawData), r.TotalRecords)
	}

	for i, row := range r.RawData {
		if _, err := time.Parse(TimestampLayout, row.Timestamp); err != nil {
			return fmt.Errorf("%w: raw_data[%d] timestamp %q", ErrInvalidResult, i, row.Timestamp)
		}
		if math.IsNaN(row.Temperature) || math.IsInf(row.Temperature, 0) ||
			math.IsNaN(row.Humidity) || math.IsInf(row.Humidity, 0) {
			return fmt.Errorf("%w: raw_data[%d] has a non-finite value", ErrInvalidResult, i)
		}
	}

	return nil
}

// Summary drops the raw rows; it is what gets broadcast to live dashboards.
func (r *AnalyticsResult) Summary(generatedAt time.Time) SnapshotSummary {
	return SnapshotSummary{
		TotalRecords:     r.TotalRecords,
		AverageTemp:      r.AverageTemp,
		MaxTemp:          r.MaxTemp,
		MinTemp:          r.MinTemp,
		AverageHumidity:  r.AverageHumidity,
		RecordsPerSensor: r.RecordsPerSensor,
		GeneratedAt:      generatedAt,
	}
}

type SnapshotSummary struct {
	TotalRecords     int            `json:"total_records"`
	AverageTemp      float64        `json:"average_temp"`
	MaxTemp          float64        `json:"max_temp"`
	MinTemp          float64        `json:"min_temp"`
	AverageHumidity  float64        `json:"average_humidity"`
	RecordsPerSensor map[string]int `json:"records_per_sensor"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
