// Package respond writes JSON bodies and maps tagged errors onto HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
)

type ErrorBody struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	ProductID   int64  `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Requested   *int   `json:"requested,omitempty"`
	Available   *int   `json:"available,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Status maps an error kind onto an HTTP status.
func Status(k common.Kind) int {
	switch k {
	case common.KindInvalidArgument, common.KindEmptyOrder:
		return http.StatusBadRequest
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindInsufficientStock, common.KindOutOfStock, common.KindConflict:
		return http.StatusConflict
	case common.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"error": kind, "message": ...}. Stock errors carry
// the offending product and quantities.
func Error(w http.ResponseWriter, err error) {
	k := common.KindOf(err)
	body := ErrorBody{Error: k.String(), Message: common.Public(err)}
	if k == common.KindUnknown {
		body.Error = "internal"
	}

	var ise *common.InsufficientStockError
	var oos *common.OutOfStockError
	switch {
	case errors.As(err, &ise):
		body.ProductID = ise.ProductID
		body.ProductName = ise.ProductName
		body.Requested = &ise.Requested
		body.Available = &ise.Available
	case errors.As(err, &oos):
		body.ProductID = oos.ProductID
		body.ProductName = oos.ProductName
	}

	if common.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	JSON(w, Status(k), body)
}

// BadRequest writes an invalid_argument body for malformed input.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: common.KindInvalidArgument.String(), Message: msg})
}

// Decode reads a JSON body, rejecting unknown fields. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// PathID parses a positive int64 path segment.
func PathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
