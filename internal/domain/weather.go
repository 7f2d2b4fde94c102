package domain

// DailyWeather is the forecast for one calendar day.
type DailyWeather struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Forecast is a per-day weather forecast for a city. Mock is true when the
// data was synthesized rather than fetched.
type Forecast struct {
	City string         `json:"city"`
	Days []DailyWeather `json:"days"`
	Mock bool           `json:"mock"`
}
