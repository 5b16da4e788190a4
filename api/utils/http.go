// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// JSONContentType is set on every successful response.
const JSONContentType = "application/json; charset=utf-8"

// statusError carries the status code a handler wants to answer with.
type statusError struct {
	error
	status int
}

// BadRequest marks cause as the client's fault.
func BadRequest(cause error) error {
	return &statusError{cause, http.StatusBadRequest}
}

// NotFound reports that the requested ledger record does not exist.
func NotFound(cause error) error {
	return &statusError{cause, http.StatusNotFound}
}

// HandlerFunc is an http.HandlerFunc that may fail.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc writes the error of f, if any, as a plain text body.
// Errors not created by BadRequest or NotFound answer 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}
		http.Error(w, err.Error(), status)
	}
}

// WriteJSON encodes obj as the response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
