package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/internal/infrastructure/metrics"
)

const twilioSignatureHeader = "X-Twilio-Signature"

type SmsHandler struct {
	sms ports.SmsService
}

func NewSmsHandler(sms ports.SmsService) *SmsHandler {
	return &SmsHandler{sms: sms}
}

type listSmsQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Direction string `query:"direction"`
	JobID     string `query:"jobId"`
}

type paginationPayload struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type listSmsResponse struct {
	Success    bool                `json:"success"`
	Messages   []domain.SmsMessage `json:"messages"`
	Pagination paginationPayload   `json:"pagination"`
	Stats      map[string]int64    `json:"stats"`
}

type sendSmsRequest struct {
	To    string `json:"to" validate:"required,e164"`
	Body  string `json:"body" validate:"required,max=1600"`
	JobID string `json:"jobId" validate:"omitempty,max=64"`
}

type smsResponse struct {
	Success bool               `json:"success"`
	Message *domain.SmsMessage `json:"message"`
}

type smsFailureResponse struct {
	Success bool               `json:"success"`
	Error   string             `json:"error"`
	Message *domain.SmsMessage `json:"message,omitempty"`
}

// List returns one page of the tenant's SMS history with a status histogram.
//
// @Summary      SMS history
// @Tags         sms
// @Produce      json
// @Param        x-client-id  header    string  true   "Client id"
// @Param        page         query     int     false  "Page, 1-based"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        direction    query     string  false  "inbound or outbound"
// @Param        jobId        query     string  false  "Job id"
// @Success      200          {object}  listSmsResponse
// @Failure      400          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/sms [get]
func (h *SmsHandler) List(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	var q listSmsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return badRequest(c, "page and limit must be integers")
	}

	result, err := h.sms.List(c.Request().Context(), ports.ListSmsInput{
		ClientID:  p.ClientID,
		Page:      q.Page,
		Limit:     q.Limit,
		Direction: q.Direction,
		JobID:     q.JobID,
	})
	if err != nil {
		return respondError(c, err, "Failed to fetch SMS history")
	}

	return c.JSON(http.StatusOK, listSmsResponse{
		Success:  true,
		Messages: result.Messages,
		Pagination: paginationPayload{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
		Stats: result.Stats,
	})
}

// Send delivers a text through the tenant's Twilio account.
//
// @Summary      Send an SMS
// @Tags         sms
// @Accept       json
// @Produce      json
// @Param        x-client-id  header    string          true   "Client id"
// @Param        body         body      sendSmsRequest  true   "Message"
// @Success      201          {object}  smsResponse
// @Failure      400          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Failure      502          {object}  smsFailureResponse
// @Router       /api/sms [post]
func (h *SmsHandler) Send(c echo.Context) error {
	p, err := tenant(c)
	if err != nil {
		return err
	}

	var req sendSmsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "Failed to send SMS")
	}

	msg, err := h.sms.Send(c.Request().Context(), ports.SendSmsInput{
		ClientID: p.ClientID,
		To:       req.To,
		Body:     req.Body,
		JobID:    req.JobID,
	})
	if msg != nil {
		metrics.SmsMessagesTotal.WithLabelValues(string(msg.Direction), msg.Status).Inc()
	}
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) && msg != nil {
			return c.JSON(http.StatusBadGateway, smsFailureResponse{Error: "upstream provider failure", Message: msg})
		}
		return respondError(c, err, "Failed to send SMS")
	}

	return c.JSON(http.StatusCreated, smsResponse{Success: true, Message: msg})
}

// Webhook records an inbound text delivered by Twilio. The tenant comes from
// the clientId query parameter configured on the Twilio number.
//
// @Summary      Twilio inbound webhook
// @Tags         sms
// @Accept       x-www-form-urlencoded
// @Produce      xml
// @Param        clientId  query  string  true  "Client id"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Router       /api/sms/webhook [post]
func (h *SmsHandler) Webhook(c echo.Context) error {
	if _, err := c.FormParams(); err != nil {
		return badRequest(c, "invalid form payload")
	}
	// Only body fields are signed; the query string is part of the URL.
	form := c.Request().PostForm
	params := make(map[string]string, len(form))
	for k, v := range form {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	req := c.Request()
	msg, err := h.sms.ReceiveInbound(req.Context(), ports.InboundSmsInput{
		ClientID:  c.QueryParam("clientId"),
		URL:       c.Scheme() + "://" + req.Host + req.RequestURI,
		Params:    params,
		Signature: req.Header.Get(twilioSignatureHeader),
	})
	if err != nil {
		return respondError(c, err, "Failed to record inbound SMS")
	}
	metrics.SmsMessagesTotal.WithLabelValues(string(msg.Direction), msg.Status).Inc()

	return c.Blob(http.StatusOK, echo.MIMETextXMLCharsetUTF8, []byte(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`))
}
