package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/retailhub/retail-api/internal/retail/application"
	"github.com/retailhub/retail-api/internal/retail/domain"
	"github.com/retailhub/retail-api/pkg/cache"
)

const defaultCacheTTL = 10 * time.Minute

// Deduper guards invoice creation against replayed Idempotency-Key headers.
// Seen claims a key; Release gives a claimed key back when the guarded
// operation fails, so the client can retry with the same key.
type Deduper interface {
	Key(scope, key string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Handler exposes the retail API surface. Single-entity lookups keyed by an
// immutable id are served through the cache; listings and the points balance
// always read through to the remote source.
type Handler struct {
	log     *slog.Logger
	service *application.Service
	cache   cache.Cache
	idem    Deduper
	tracer  trace.Tracer
	ttl     time.Duration
}

// NewHandler builds the handler. idem may be nil, which disables the
// Idempotency-Key duplicate guard on invoice creation.
func NewHandler(log *slog.Logger, service *application.Service, c cache.Cache, idem Deduper) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cache:   c,
		idem:    idem,
		tracer:  otel.Tracer("retail-http"),
		ttl:     defaultCacheTTL,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(h.log))

	r.Get("/levelups/customerId/{customerId}", h.getPoints)

	r.Post("/invoices", h.createInvoice)
	r.Get("/invoices", h.listInvoices)
	r.Get("/invoices/customer/{id}", h.listInvoicesByCustomer)
	r.Get("/invoices/{id}", h.getInvoice)

	r.Get("/products/inventory", h.listProductsInInventory)
	r.Get("/products/invoice/{id}", h.listProductsByInvoice)
	r.Get("/products/{id}", h.getProduct)

	return r
}

// Points change with every purchase, so this endpoint never serves from
// cache. Both "no loyalty record" and a tripped breaker answer 404; the
// body says which.
func (h *Handler) getPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetPoints")
	defer span.End()

	customerID, ok := h.pathID(w, r, "customerId")
	if !ok {
		return
	}

	points, err := h.service.GetPoints(ctx, customerID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrLoyaltyNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrLoyaltyUnavailable):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateInvoice")
	defer span.End()

	var req domain.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var claimed string
	if key := r.Header.Get("Idempotency-Key"); key != "" && h.idem != nil {
		idemKey := h.idem.Key("invoices", key)
		seen, err := h.idem.Seen(ctx, idemKey)
		if err != nil {
			h.log.Error("idempotency check failed", "err", err)
		} else if seen {
			writeError(w, http.StatusConflict, "duplicate request")
			return
		} else {
			claimed = idemKey
		}
	}

	resp, err := h.service.CreateInvoice(ctx, req)
	if err != nil {
		// No invoice was created, so the key must stay usable for the retry.
		if claimed != "" {
			if rerr := h.idem.Release(context.WithoutCancel(ctx), claimed); rerr != nil {
				h.log.Error("idempotency release failed", "key", claimed, "err", rerr)
			}
		}
		h.writeCreateError(w, err)
		return
	}

	// Write-through: the next GET /invoices/{id} for this invoice is served
	// from cache.
	h.cachePut(ctx, invoiceKey(resp.ID), resp.Invoice)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCustomer),
		errors.Is(err, application.ErrInvalidInventory),
		errors.Is(err, application.ErrInsufficientQuantity),
		errors.Is(err, application.ErrInvalidProduct):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, application.ErrInvoicePersistence):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, application.ErrLoyaltyUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.internalError(w, err)
	}
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetInvoice")
	defer span.End()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	key := invoiceKey(id)
	if h.serveCached(ctx, w, key) {
		return
	}

	invoice, err := h.service.GetInvoice(ctx, id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.cachePut(ctx, key, invoice)
	writeJSON(w, http.StatusOK, invoice)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListInvoices")
	defer span.End()

	invoices, err := h.service.ListInvoices(ctx)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) listInvoicesByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListInvoicesByCustomer")
	defer span.End()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	invoices, err := h.service.InvoicesByCustomer(ctx, id)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	key := productKey(id)
	if h.serveCached(ctx, w, key) {
		return
	}

	product, err := h.service.GetProduct(ctx, id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.cachePut(ctx, key, product)
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) listProductsInInventory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProductsInInventory")
	defer span.End()

	products, err := h.service.ProductsInInventory(ctx)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listProductsByInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProductsByInvoice")
	defer span.End()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	key := invoiceProductsKey(id)
	if h.serveCached(ctx, w, key) {
		return
	}

	products, err := h.service.ProductsByInvoice(ctx, id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.cachePut(ctx, key, products)
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, application.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.internalError(w, err)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.log.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// serveCached writes the cached body for key if present. Cache errors other
// than a miss degrade to a read-through, never to a failed request.
func (h *Handler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	body, err := h.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			h.log.Error("cache read failed", "key", key, "err", err)
		}
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return true
}

func (h *Handler) cachePut(ctx context.Context, key string, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		h.log.Error("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := h.cache.Set(ctx, key, body, h.ttl); err != nil {
		h.log.Error("cache write failed", "key", key, "err", err)
	}
}

func invoiceKey(id int) string         { return fmt.Sprintf("invoice:%d", id) }
func productKey(id int) string         { return fmt.Sprintf("product:%d", id) }
func invoiceProductsKey(id int) string { return fmt.Sprintf("invoice-products:%d", id) }

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
