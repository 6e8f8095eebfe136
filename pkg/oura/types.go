// Package oura fetches daily sleep, readiness and activity collections from the Oura v2 API.
package oura

// Resource names of the Oura usercollection endpoints.
const (
	ResourceDailySleep     = "daily_sleep"
	ResourceSleep          = "sleep"
	ResourceDailyReadiness = "daily_readiness"
	ResourceDailyActivity  = "daily_activity"
)

// DailySleep is one day's sleep score.
type DailySleep struct {
	Contributors *SleepContributors `json:"contributors,omitempty"`
	Score        *int               `json:"score"`
	ID           string             `json:"id,omitempty"`
	Day          string             `json:"day"`
	Timestamp    string             `json:"timestamp,omitempty"`
}

// SleepContributors are the sub-scores behind a daily sleep score.
type SleepContributors struct {
	DeepSleep   *int `json:"deep_sleep,omitempty"`
	Efficiency  *int `json:"efficiency,omitempty"`
	Latency     *int `json:"latency,omitempty"`
	REMSleep    *int `json:"rem_sleep,omitempty"`
	Restfulness *int `json:"restfulness,omitempty"`
	Timing      *int `json:"timing,omitempty"`
	TotalSleep  *int `json:"total_sleep,omitempty"`
}

// Sleep is a single sleep session. A day may hold several sessions.
// Durations are in seconds.
type Sleep struct {
	DeepSleepDuration  *int     `json:"deep_sleep_duration"`
	REMSleepDuration   *int     `json:"rem_sleep_duration"`
	LightSleepDuration *int     `json:"light_sleep_duration"`
	AwakeTime          *int     `json:"awake_time,omitempty"`
	TotalSleepDuration *int     `json:"total_sleep_duration,omitempty"`
	Efficiency         *int     `json:"efficiency,omitempty"`
	AverageHeartRate   *float64 `json:"average_heart_rate,omitempty"`
	AverageHRV         *int     `json:"average_hrv,omitempty"`
	LowestHeartRate    *int     `json:"lowest_heart_rate,omitempty"`
	ID                 string   `json:"id,omitempty"`
	Day                string   `json:"day"`
	Type               string   `json:"type,omitempty"`
	BedtimeStart       string   `json:"bedtime_start,omitempty"`
	BedtimeEnd         string   `json:"bedtime_end,omitempty"`
}

// DailyReadiness is one day's readiness score.
type DailyReadiness struct {
	Contributors         *ReadinessContributors `json:"contributors,omitempty"`
	Score                *int                   `json:"score"`
	TemperatureDeviation *float64               `json:"temperature_deviation,omitempty"`
	ID                   string                 `json:"id,omitempty"`
	Day                  string                 `json:"day"`
	Timestamp            string                 `json:"timestamp,omitempty"`
}

// ReadinessContributors are the named sub-scores feeding a readiness score.
type ReadinessContributors struct {
	HRVBalance          *int `json:"hrv_balance"`
	RestingHeartRate    *int `json:"resting_heart_rate"`
	BodyTemperature     *int `json:"body_temperature"`
	ActivityBalance     *int `json:"activity_balance,omitempty"`
	PreviousDayActivity *int `json:"previous_day_activity,omitempty"`
	PreviousNight       *int `json:"previous_night,omitempty"`
	RecoveryIndex       *int `json:"recovery_index,omitempty"`
	SleepBalance        *int `json:"sleep_balance,omitempty"`
}

// DailyActivity is one day's activity summary.
type DailyActivity struct {
	Score                     *int     `json:"score"`
	Steps                     *int     `json:"steps"`
	TotalCalories             *float64 `json:"total_calories"`
	ActiveCalories            *float64 `json:"active_calories"`
	EquivalentWalkingDistance *int     `json:"equivalent_walking_distance,omitempty"`
	HighActivityTime          *int     `json:"high_activity_time,omitempty"`
	MediumActivityTime        *int     `json:"medium_activity_time,omitempty"`
	LowActivityTime           *int     `json:"low_activity_time,omitempty"`
	SedentaryTime             *int     `json:"sedentary_time,omitempty"`
	ID                        string   `json:"id,omitempty"`
	Day                       string   `json:"day"`
	Timestamp                 string   `json:"timestamp,omitempty"`
}

// Collections holds the four fetched sequences in API order.
type Collections struct {
	DailySleep     []DailySleep
	Sleep          []Sleep
	DailyReadiness []DailyReadiness
	DailyActivity  []DailyActivity
}
