package handlers

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
)

// ParseResponse is the result of an address import.
type ParseResponse struct {
	Emails []string `json:"emails"`
	Count  int      `json:"count"`
}

// ListHandler exposes named recipient lists.
type ListHandler struct {
	svc *recipientlist.Service
}

// NewListHandler creates the list routes.
func NewListHandler(svc *recipientlist.Service) *ListHandler {
	return &ListHandler{svc: svc}
}

// Routes implements internal.Handler.
func (h *ListHandler) Routes(r internal.Router) {
	r.Route("/api/lists", func(r internal.Router) {
		r.GET("/", h.list)
		r.POST("/", h.create)
		r.POST("/parse", h.parse)
		r.GET("/{id}", h.get)
		r.PUT("/{id}", h.update)
		r.DELETE("/{id}", h.delete)
	})
}

func (h *ListHandler) list(c internal.Context) error {
	lists, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lists)
}

func (h *ListHandler) create(c internal.Context) error {
	var req ListRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	l, err := h.svc.Save(c.Context(), req.Name, req.Emails, req.Description)
	if err != nil {
		return err
	}
	c.SetHeader("Location", "/api/lists/"+l.ID)
	return c.JSON(http.StatusCreated, l)
}

func (h *ListHandler) get(c internal.Context) error {
	l, err := h.svc.Get(c.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *ListHandler) update(c internal.Context) error {
	var req ListRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	l, err := h.svc.Update(c.Context(), c.Param("id"), req.Name, req.Emails, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *ListHandler) delete(c internal.Context) error {
	if err := h.svc.Delete(c.Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// parse extracts addresses from pasted text (default) or CSV content.
func (h *ListHandler) parse(c internal.Context) error {
	var req ParseRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	var emails []string
	switch req.Format {
	case FormatCSV:
		var err error
		emails, err = recipientlist.ParseCSV(strings.NewReader(req.Text))
		if err != nil {
			return internal.ErrBadRequest("could not read CSV", internal.WithError(err), internal.WithDetail(err.Error()))
		}
	default:
		emails = recipientlist.ParseAddresses(req.Text)
	}

	return c.JSON(http.StatusOK, ParseResponse{Emails: emails, Count: len(emails)})
}
