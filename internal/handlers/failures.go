package handlers

import (
	"net/http"
	"slices"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
)

// AddressesResponse carries a list of addresses.
type AddressesResponse struct {
	Emails []string `json:"emails"`
}

// FilterResponse is the recipient list with failed addresses removed.
type FilterResponse struct {
	Emails  []string `json:"emails"`
	Removed int      `json:"removed"`
}

// RemovedResponse reports how many entries were deleted.
type RemovedResponse struct {
	Removed int `json:"removed"`
}

// FailureHandler exposes the failure log.
type FailureHandler struct {
	svc *failurelog.Service
}

// NewFailureHandler creates the failure log routes.
func NewFailureHandler(svc *failurelog.Service) *FailureHandler {
	return &FailureHandler{svc: svc}
}

// Routes implements internal.Handler.
func (h *FailureHandler) Routes(r internal.Router) {
	r.Route("/api/failures", func(r internal.Router) {
		r.GET("/", h.list)
		r.DELETE("/", h.clear)
		r.GET("/addresses", h.addresses)
		r.POST("/remove", h.removeMany)
		r.POST("/filter", h.filter)
		r.DELETE("/{id}", h.remove)
	})
}

// list returns entries newest first. ?campaign= keeps one campaign's
// entries and ?limit= caps the result; a missing or invalid limit means all.
func (h *FailureHandler) list(c internal.Context) error {
	entries, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	if campaign := internal.Query[string](c, "campaign"); campaign != "" {
		entries = slices.DeleteFunc(entries, func(e failurelog.Entry) bool {
			return e.Campaign != campaign
		})
	}
	if limit := internal.QueryDefault(c, "limit", 0); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *FailureHandler) clear(c internal.Context) error {
	if err := h.svc.Clear(c.Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FailureHandler) remove(c internal.Context) error {
	if err := h.svc.Remove(c.Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FailureHandler) removeMany(c internal.Context) error {
	var req RemoveFailuresRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	n, err := h.svc.RemoveMany(c.Context(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RemovedResponse{Removed: n})
}

func (h *FailureHandler) addresses(c internal.Context) error {
	emails, err := h.svc.FailedAddresses(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AddressesResponse{Emails: emails})
}

// filter drops every previously failed address from the submitted list.
func (h *FailureHandler) filter(c internal.Context) error {
	var req FilterRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	failed, err := h.svc.FailedAddresses(c.Context())
	if err != nil {
		return err
	}
	kept := failurelog.Without(req.Emails, failed)
	return c.JSON(http.StatusOK, FilterResponse{Emails: kept, Removed: len(req.Emails) - len(kept)})
}
