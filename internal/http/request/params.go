package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// RouteInt32Param returns the URL route parameter name as int32.
func RouteInt32Param(r *http.Request, name string) (int32, error) {
	value, found := mux.Vars(r)[name]
	if !found {
		return 0, errors.Errorf("missing route parameter %s", name)
	}
	id, err := strconv.ParseInt(value, 10, 32)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid route parameter %s: %q", name, value)
	}
	return int32(id), nil
}

// QueryStringParam returns a trimmed query string parameter or nil when it is absent or blank.
func QueryStringParam(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil
	}
	return &value
}

// QueryInt32Param returns a query string parameter as int32, nil when absent.
func QueryInt32Param(r *http.Request, name string) (*int32, error) {
	value := QueryStringParam(r, name)
	if value == nil {
		return nil, nil
	}
	id, err := strconv.ParseInt(*value, 10, 32)
	if err != nil {
		return nil, errors.Errorf("invalid query parameter %s: %q", name, *value)
	}
	v := int32(id)
	return &v, nil
}
