// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakeledger/api/accounts"
	"github.com/vechain/stakeledger/api/staking"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/state"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
}

// New return api router serving read-only views of the ledger state.
func New(st *state.State, clk clock.Clock, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(builtin.Token.WithState(st)).
		Mount(router, "/accounts")
	staking.New(builtin.Staking.WithState(st, clk)).
		Mount(router, "/staking")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return serialize(handler)
}

// serialize lets one request at a time touch the state.
func serialize(h http.Handler) http.Handler {
	var mu sync.Mutex
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		logger.Debug("serving", "method", r.Method, "path", r.URL.Path)
		h.ServeHTTP(w, r)
	})
}
