package entity

const DefaultWaitTimeoutMs = 10000

// NavigationRequest carries the parameters of one browser_navigate call.
type NavigationRequest struct {
	URL                  string `json:"url"`
	SearchQuery          string `json:"search_query,omitempty"`
	AutoSearch           *bool  `json:"auto_search,omitempty"`
	SearchBoxSelector    string `json:"search_box_selector,omitempty"`
	SearchButtonSelector string `json:"search_button_selector,omitempty"`
	WaitForResults       *bool  `json:"wait_for_results,omitempty"`
	WaitTimeoutMs        int    `json:"wait_timeout,omitempty"`
}

func (r NavigationRequest) ShouldSearch() bool {
	if r.SearchQuery == "" {
		return false
	}
	return r.AutoSearch == nil || *r.AutoSearch
}

func (r NavigationRequest) WaitsForResults() bool {
	return r.WaitForResults == nil || *r.WaitForResults
}

func (r NavigationRequest) WaitTimeout() int {
	if r.WaitTimeoutMs <= 0 {
		return DefaultWaitTimeoutMs
	}
	return r.WaitTimeoutMs
}

// NavigationResult is always returned by the navigator, failures included.
type NavigationResult struct {
	Success         bool     `json:"success"`
	URL             string   `json:"url"`
	SearchPerformed bool     `json:"search_performed"`
	SearchQuery     *string  `json:"search_query"`
	Snapshot        string   `json:"snapshot"`
	Warnings        []string `json:"warnings"`
	Errors          []string `json:"errors"`
}

// SnapshotResult is the response of a standalone page snapshot.
type SnapshotResult struct {
	Snapshot   string `json:"snapshot"`
	URL        string `json:"url"`
	Cached     bool   `json:"cached"`
	TokenCount int    `json:"token_count"`
}

// FailedNavigation is the result reported when no page could be obtained.
func FailedNavigation(req NavigationRequest, errs []string) *NavigationResult {
	var query *string
	if req.ShouldSearch() {
		q := req.SearchQuery
		query = &q
	}
	if errs == nil {
		errs = []string{}
	}
	return &NavigationResult{
		Success:     false,
		URL:         req.URL,
		SearchQuery: query,
		Warnings:    []string{},
		Errors:      errs,
	}
}
