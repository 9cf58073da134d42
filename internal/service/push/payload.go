package push

import (
	"encoding/json"
	"strings"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Message is what a caller wants shown; the engine fills in presentation defaults.
type Message struct {
	Title    string
	Body     string
	URL      string
	Tag      string
	Data     map[string]any
	Priority domain.NotificationPriority
}

// Validate checks all fields and collects all errors.
func (m Message) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(m.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if m.Priority != "" && !m.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "must be low, normal, high or urgent"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Payload is the JSON document the service worker receives.
type Payload struct {
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Icon      string         `json:"icon"`
	Badge     string         `json:"badge"`
	URL       string         `json:"url"`
	Tag       string         `json:"tag"`
	Data      map[string]any `json:"data"`
	Direction string         `json:"direction"`
	Language  string         `json:"language"`
}

func (s *Service) buildPayload(m Message) Payload {
	url := strings.TrimSpace(m.URL)
	if url == "" {
		url = s.cfg.DefaultURL
	}
	tag := strings.TrimSpace(m.Tag)
	if tag == "" {
		tag = string(domain.CategoryGeneral)
	}
	data := m.Data
	if data == nil {
		data = map[string]any{}
	}
	return Payload{
		Title:     strings.TrimSpace(m.Title),
		Body:      strings.TrimSpace(m.Body),
		Icon:      s.cfg.Icon,
		Badge:     s.cfg.Badge,
		URL:       url,
		Tag:       tag,
		Data:      data,
		Direction: s.cfg.Direction,
		Language:  s.cfg.Language,
	}
}

func (p Payload) encode() ([]byte, error) {
	return json.Marshal(p)
}
