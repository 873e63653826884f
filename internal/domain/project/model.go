package project

import "time"

// Client is the embedded customer identity and briefing of a project.
type Client struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
	Address      string  `json:"address,omitempty"`
	Briefing     string  `json:"briefing,omitempty"`
	BudgetTarget float64 `json:"budget_target,omitempty"`
}

// ValueEntry is one confirmed price of an environment. The history is
// append-only; entries are never rewritten.
type ValueEntry struct {
	Version int       `json:"version"`
	Value   float64   `json:"value"`
	Date    time.Time `json:"date"`
}

// Environment is one room or area of the client's project, independently
// priced and versioned. Version starts at 0 and increments on every
// re-priced confirmation.
type Environment struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	EstimatedValue float64      `json:"estimated_value"`
	Version        int          `json:"version"`
	ValueHistory   []ValueEntry `json:"value_history,omitempty"`
}

// Project owns a client, the full candidate scope of environments, and one
// or more batches tracked separately by the batch lifecycle.
type Project struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenant_id"`
	Client       Client        `json:"client"`
	Environments []Environment `json:"environments"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Summary is a lightweight representation for listing.
type Summary struct {
	ID               string    `json:"id"`
	ClientName       string    `json:"client_name"`
	EnvironmentCount int       `json:"environment_count"`
	BatchCount       int       `json:"batch_count"`
	EstimatedTotal   float64   `json:"estimated_total"`
	CreatedAt        time.Time `json:"created_at"`
}
