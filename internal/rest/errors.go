package rest

import (
	"log/slog"
	"net/http"

	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/rest/res"
)

// StatusFor maps an error kind onto an HTTP status code
func StatusFor(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindDuplicate, model.KindLimitExceeded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteErr writes err as a JSON error body. Unclassified errors are logged
// and hidden behind a generic message.
func WriteErr(w http.ResponseWriter, log *slog.Logger, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		res.Error(w, "internal error", code)
		return
	}
	res.Error(w, err.Error(), code)
}
