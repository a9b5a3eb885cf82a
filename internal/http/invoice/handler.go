package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/invoicer/internal/identity"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const maxUploadSize = 10 << 20

// Handler serves one document kind. Mount one per kind.
type Handler struct {
	svc       *invoice.Service
	importSvc *importer.Service
}

func NewHandler(svc *invoice.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.workspace)
	r.Get("/number", h.number)
	r.Post("/draft/items/import", h.importItems)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Put("/draft", h.saveDraft)
		r.Post("/draft/new", h.newDraft)
		r.Post("/draft/items", h.addItem)
		r.Patch("/draft/items/{itemID}", h.updateItem)
		r.Delete("/draft/items/{itemID}", h.removeItem)

		r.Post("/records", h.saveRecord)
		r.Get("/records/{id}", h.get)
		r.Delete("/records/{id}", h.delete)
		r.Post("/records/{id}/status", h.toggleStatus)
	})
}

func (h *Handler) policy() invoice.DiscountPolicy {
	return h.svc.Settings().Discount
}

func (h *Handler) workspace(w http.ResponseWriter, r *http.Request) {
	ws, err := h.svc.Load(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, workspaceResponse{
		Draft: toResponse(ws.Draft, h.policy()),
		Saved: toResponseList(ws.Saved, h.policy()),
	})
}

func (h *Handler) number(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.GenerateNumber(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, numberResponse{Number: n})
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := req.toRecord(h.svc.Settings())

	if err := h.svc.SaveDraft(r.Context(), identity.FromContext(r.Context()), draft); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(draft, h.policy()))
}

func (h *Handler) newDraft(w http.ResponseWriter, r *http.Request) {
	id := identity.FromContext(r.Context())

	draft, err := h.svc.NewDraft(r.Context(), id, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.SaveDraft(r.Context(), id, draft); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(draft, h.policy()))
}

// editDraft loads the draft, applies fn and persists the result. fn returns
// false to skip the write.
func (h *Handler) editDraft(w http.ResponseWriter, r *http.Request, status int, fn func(*invoice.Record) (bool, error)) {
	id := identity.FromContext(r.Context())

	ws, err := h.svc.Load(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	changed, err := fn(ws.Draft)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if changed {
		if err := h.svc.SaveDraft(r.Context(), id, ws.Draft); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, status, toResponse(ws.Draft, h.policy()))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	h.editDraft(w, r, http.StatusCreated, func(d *invoice.Record) (bool, error) {
		d.AddLineItem()
		return true, nil
	})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req lineItemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	itemID := chi.URLParam(r, "itemID")

	h.editDraft(w, r, http.StatusOK, func(d *invoice.Record) (bool, error) {
		err := d.UpdateLineItem(itemID, invoice.LineItemUpdate{
			Description: req.Description,
			Quantity:    req.Quantity,
			Rate:        req.Rate,
		})

		return err == nil, err
	})
}

// removeItem keeps the last remaining item in place and reports the draft
// unchanged.
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	h.editDraft(w, r, http.StatusOK, func(d *invoice.Record) (bool, error) {
		if _, ok := d.LineItem(itemID); !ok {
			return false, invoice.ErrLineItemNotFound
		}

		return d.RemoveLineItem(itemID), nil
	})
}

func (h *Handler) importItems(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	id := identity.FromContext(r.Context())

	ws, err := h.svc.Load(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.importSvc.Import(ws.Draft, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if n > 0 {
		if err := h.svc.SaveDraft(r.Context(), id, ws.Draft); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, importResponse{
		Imported: n,
		Draft:    toResponse(ws.Draft, h.policy()),
	})
}

func (h *Handler) saveRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity.FromContext(r.Context())
	rec := req.toRecord(h.svc.Settings())

	if rec.ID != "" {
		existing, err := h.svc.Get(r.Context(), id, rec.ID)

		switch {
		case err == nil:
			rec.CreatedAt = existing.CreatedAt
		case !errors.Is(err, invoice.ErrNotFound):
			writeError(w, r, err)
			return
		}
	}

	saved, err := h.svc.SaveRecord(r.Context(), id, rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(saved, h.policy()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec, h.policy()))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id := identity.FromContext(r.Context())
	recordID := chi.URLParam(r, "id")

	if _, err := h.svc.Get(r.Context(), id, recordID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.ToggleStatus(r.Context(), id, recordID); err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := h.svc.Get(r.Context(), id, recordID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec, h.policy()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrLineItemNotFound):
		http.Error(w, "line item not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrNoLineItems),
		errors.Is(err, invoice.ErrNegativeValue),
		errors.Is(err, invoice.ErrInvalidStatus),
		errors.Is(err, invoice.ErrNegativeTotal):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
