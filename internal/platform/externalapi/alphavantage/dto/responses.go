// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// APIMessage carries the fields Alpha Vantage uses to report errors with HTTP 200.
type APIMessage struct {
	ErrorMessage string `json:"Error Message,omitempty"`
	Note         string `json:"Note,omitempty"`        // rate limit
	Information  string `json:"Information,omitempty"` // rate limit or premium endpoint
}

// DailyBar is one entry of "Time Series (Daily)". Values are decimal strings.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesDailyResponse represents the JSON response of function=TIME_SERIES_DAILY.
type TimeSeriesDailyResponse struct {
	APIMessage
	MetaData struct {
		Symbol        string `json:"2. Symbol"`
		LastRefreshed string `json:"3. Last Refreshed"`
		TimeZone      string `json:"5. Time Zone"`
	} `json:"Meta Data"`
	TimeSeries map[string]DailyBar `json:"Time Series (Daily)"`
}

// GlobalQuoteResponse represents the JSON response of function=GLOBAL_QUOTE.
type GlobalQuoteResponse struct {
	APIMessage
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		LatestTradingDay string `json:"07. latest trading day"`
	} `json:"Global Quote"`
}
