// Package responses defines API response types used by reposcribe HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// RepositoryListResponse represents the stored documentation listing.
type RepositoryListResponse struct {
	Status       string           `json:"status"`
	Repositories []RepositoryInfo `json:"repositories"`
	Timestamp    time.Time        `json:"timestamp"`
}

// RepositoryInfo summarizes one documented repository.
type RepositoryInfo struct {
	URL       string    `json:"repoUrl"`
	FileCount int       `json:"fileCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// RepositoryDocsResponse represents one repository's stored documentation.
type RepositoryDocsResponse struct {
	URL       string            `json:"repoUrl"`
	Docs      DocsPayload       `json:"docs"`
	Files     map[string]string `json:"files,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// DocsPayload carries the aggregate documentation artifacts.
type DocsPayload struct {
	Readme       string `json:"readme,omitempty"`
	APIReference string `json:"apiReference,omitempty"`
	Architecture string `json:"architecture,omitempty"`
}
