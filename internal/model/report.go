package model

// ReportPayload is a decoded JSON object returned by a firewall reporting
// endpoint. The shapes are device-firmware dependent, so payloads pass
// through unvalidated.
type ReportPayload map[string]any

// ContentFilteringCategory is one category row of a parsed content
// filtering report.
type ContentFilteringCategory struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	HitsToday *int   `json:"hits_today,omitempty"`
}

// ContentFilteringReport is the well-typed arm of a content filtering
// response.
type ContentFilteringReport struct {
	DatabaseVersion    string                     `json:"database_version,omitempty"`
	LastUpdated        string                     `json:"last_updated,omitempty"`
	ExpirationDate     string                     `json:"expiration_date,omitempty"`
	TotalRequestsToday *int                       `json:"total_requests_today,omitempty"`
	TotalBlockedToday  *int                       `json:"total_blocked_today,omitempty"`
	Categories         []ContentFilteringCategory `json:"categories,omitempty"`
}

// ContentFilteringStatus is a tagged union: either the payload matched the
// known report shape (Parsed set) or it is carried opaquely (Extra set).
// Consumers must check Parsed before reading typed fields.
type ContentFilteringStatus struct {
	Parsed *ContentFilteringReport `json:"parsed,omitempty"`
	Extra  ReportPayload           `json:"extra,omitempty"`
}
