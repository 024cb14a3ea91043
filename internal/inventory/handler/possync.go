package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

// POSKeyHeader carries the shared key a POS system authenticates with.
const POSKeyHeader = "X-POS-Key"

// POSSyncHandler handles POS sync endpoints
type POSSyncHandler struct {
	service *service.POSSyncService
	logger  *logger.Logger
}

// NewPOSSyncHandler creates a new POS sync handler
func NewPOSSyncHandler(svc *service.POSSyncService, log *logger.Logger) *POSSyncHandler {
	return &POSSyncHandler{
		service: svc,
		logger:  log,
	}
}

// syncRequest is the POS sync payload
type syncRequest struct {
	Data []service.SyncItem `json:"data"`
}

// Sync ingests a POS inventory snapshot batch
func (h *POSSyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if len(req.Data) == 0 {
		httputil.Error(w, errors.BadRequest("sync batch must contain at least one item"))
		return
	}

	result, err := h.service.ProcessSyncBatch(r.Context(), req.Data)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// Sale records a single sale line reported by a POS terminal
func (h *POSSyncHandler) Sale(w http.ResponseWriter, r *http.Request) {
	var item service.SaleItem
	if err := httputil.DecodeJSON(r, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	sale, err := h.service.RecordSale(r.Context(), item)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sale)
}

// RequirePOSKey rejects requests whose X-POS-Key header does not match the
// configured shared key.
func RequirePOSKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(POSKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				httputil.Error(w, errors.Unauthorized("invalid POS key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
