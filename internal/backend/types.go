package backend

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rcliao/harbour/internal/domain"
)

// Config configures the scoring service client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// RatePerMinute caps outgoing calls; zero disables the limiter.
	RatePerMinute int
	Burst         int

	HTTPClient *http.Client
}

// Validate fills defaults and rejects unusable values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("backend: base URL must be absolute")
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RatePerMinute < 0 {
		return errors.New("backend: rate per minute cannot be negative")
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return nil
}

// Request is the body of both analyze and suggest calls.
type Request struct {
	Strategy string        `json:"strategy"`
	Tasks    []TaskPayload `json:"tasks"`
}

// TaskPayload is a task in the shape the scoring service validates:
// numeric importance and hours, canonical due date, dependency list.
type TaskPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Importance     int      `json:"importance"`
	EstimatedHours float64  `json:"estimated_hours"`
	DueDate        string   `json:"due_date"`
	Dependencies   []string `json:"dependencies"`
	Completed      bool     `json:"completed"`
}

// NewTaskPayload formats t for the scoring service. The internal key is
// never sent.
func NewTaskPayload(t domain.Task) TaskPayload {
	return TaskPayload{
		ID:             t.ID,
		Title:          t.Title,
		Importance:     t.Importance,
		EstimatedHours: t.EstimatedHours,
		DueDate:        domain.NormalizeDate(t.DueDate),
		Dependencies:   t.DependencyList(),
		Completed:      t.Completed,
	}
}

type suggestResponse struct {
	RecommendedTask *domain.SuggestedTask `json:"recommended_task"`
}
