package dto

type BatchResult struct {
	Processor string `json:"processor"`
	Exchange  string `json:"exchange"`
	Total     int    `json:"total"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

type BatchSummary struct {
	Results []BatchResult `json:"results"`
	Added   int           `json:"added"`
	Failed  int           `json:"failed"`
}

type ProcessorInfo struct {
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Tickers  int    `json:"tickers"`
}

type RefreshSummary struct {
	Total     int      `json:"total"`
	Refreshed int      `json:"refreshed"`
	Failed    []string `json:"failed,omitempty"`
}
