package handler

import (
	"net/http"
	"strconv"

	"mt_annotate/internal/common"
)

func respondError(w http.ResponseWriter, err error) {
	common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
}

// parseSkipLimit reads skip/limit pagination query params. Zero limit means
// the service applies its default.
func parseSkipLimit(r *http.Request) (int, int) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}
