package openweather

type currentResponse struct {
	Name string `json:"name"`
	Sys  *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type geocodeEntry struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
