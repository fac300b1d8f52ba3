package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/helpdesk/internal/api/dto"
	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/service"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Open(c.UserContext(), req.Input())
	return respondTicket(c, http.StatusCreated, ticket, err)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.Visible(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Ticket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch, err := req.Patch()
	if err != nil {
		return err
	}
	ticket, err := h.service.Amend(c.UserContext(), c.Params("id"), patch)
	return respondTicket(c, http.StatusOK, ticket, err)
}

// StartTicket POST /tickets/:id/start.
func (h *TicketsHandler) StartTicket(c *fiber.Ctx) error {
	ticket, err := h.service.StartService(c.UserContext(), c.Params("id"))
	return respondTicket(c, http.StatusOK, ticket, err)
}

// FinishTicket POST /tickets/:id/finish.
func (h *TicketsHandler) FinishTicket(c *fiber.Ctx) error {
	var req dto.FinishTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.FinishService(c.UserContext(), c.Params("id"), req.Solution, string(req.Cost))
	return respondTicket(c, http.StatusOK, ticket, err)
}

// respondTicket writes the mutated ticket. A mutation that reached memory but
// not storage is still returned, with a warning attached.
func respondTicket(c *fiber.Ctx, status int, ticket *domain.Ticket, err error) error {
	if err != nil && (ticket == nil || !errors.Is(err, domain.ErrPersistence)) {
		return err
	}
	body := fiber.Map{"data": ticket}
	if err != nil {
		body["warning"] = persistenceWarning(err)
	}
	return c.Status(status).JSON(body)
}
