package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/service"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Sector      string `json:"sector"`
	ProblemType string `json:"problemType"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
}

// Input converts the payload for TicketService.Open.
func (r CreateTicketRequest) Input() service.OpenTicketInput {
	return service.OpenTicketInput{
		Sector:      r.Sector,
		ProblemType: r.ProblemType,
		Description: r.Description,
		Urgency:     r.Urgency,
	}
}

// FinishTicketRequest payload.
type FinishTicketRequest struct {
	Solution string   `json:"solution"`
	Cost     CostText `json:"cost"`
}

// CostText is a cost sent either as a JSON number or as decimal text, where ","
// is accepted as separator. null reads as empty.
type CostText string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CostText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = CostText(text)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cost must be a number or decimal text: %w", err)
	}
	*c = CostText(n.String())
	return nil
}

// UpdateTicketRequest is a partial update. Omitted fields are left alone;
// fields named in Clear are removed.
type UpdateTicketRequest struct {
	Sector      *string       `json:"sector"`
	ProblemType *string       `json:"problemType"`
	Description *string       `json:"description"`
	Urgency     *string       `json:"urgency"`
	Status      *string       `json:"status"`
	Solution    *string       `json:"solution"`
	Cost        *domain.Money `json:"cost"`
	StartTime   *time.Time    `json:"startTime"`
	EndTime     *time.Time    `json:"endTime"`
	Clear       []string      `json:"clear"`
}

// Patch converts the payload into a domain patch.
func (r UpdateTicketRequest) Patch() (domain.TicketPatch, error) {
	var patch domain.TicketPatch
	details := map[string]any{}

	if r.Sector != nil {
		patch.Sector = domain.Set(*r.Sector)
	}
	if r.ProblemType != nil {
		patch.ProblemType = domain.Set(*r.ProblemType)
	}
	if r.Description != nil {
		patch.Description = domain.Set(*r.Description)
	}
	if r.Urgency != nil {
		urgency, err := domain.ParseTicketUrgency(*r.Urgency)
		if err != nil {
			details["urgency"] = err.Error()
		}
		patch.Urgency = domain.Set(urgency)
	}
	if r.Status != nil {
		status, err := domain.ParseTicketStatus(*r.Status)
		if err != nil {
			details["status"] = err.Error()
		}
		patch.Status = domain.Set(status)
	}
	if r.Solution != nil {
		patch.Solution = domain.Set(*r.Solution)
	}
	if r.Cost != nil {
		patch.Cost = domain.Set(*r.Cost)
	}
	if r.StartTime != nil {
		patch.StartTime = domain.Set(r.StartTime.UTC())
	}
	if r.EndTime != nil {
		patch.EndTime = domain.Set(r.EndTime.UTC())
	}

	for _, field := range r.Clear {
		switch strings.TrimSpace(field) {
		case "sector":
			patch.Sector = domain.Clear[string]()
		case "problemType":
			patch.ProblemType = domain.Clear[string]()
		case "description":
			patch.Description = domain.Clear[string]()
		case "urgency":
			patch.Urgency = domain.Clear[domain.TicketUrgency]()
		case "status":
			patch.Status = domain.Clear[domain.TicketStatus]()
		case "solution":
			patch.Solution = domain.Clear[string]()
		case "cost":
			patch.Cost = domain.Clear[domain.Money]()
		case "startTime":
			patch.StartTime = domain.Clear[time.Time]()
		case "endTime":
			patch.EndTime = domain.Clear[time.Time]()
		default:
			details[field] = fmt.Sprintf("unknown field %q", field)
		}
	}

	if len(details) > 0 {
		return domain.TicketPatch{}, apperrors.NewValidationError("invalid ticket patch", details)
	}
	return patch, nil
}
