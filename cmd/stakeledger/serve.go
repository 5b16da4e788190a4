// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/api"
	"github.com/vechain/stakeledger/log"
)

// serveAction exposes the ledger read-only over HTTP until an exit signal arrives.
func serveAction(ctx *cli.Context) error {
	in, err := openInstance(ctx, true)
	if err != nil {
		return err
	}
	defer in.Close()

	exitCtx := handleExitSignal()

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		url, closeFunc, err := startMetricsServer(ctx.GlobalString(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer closeFunc()
		log.Root().Info("metrics server started", "url", url)
	}

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{
		Handler: api.New(in.state, in.clock, api.Options{
			AllowedOrigins: ctx.String(apiCorsFlag.Name),
			EnableMetrics:  ctx.GlobalBool(enableMetricsFlag.Name),
		}),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	log.Root().Info("API server started", "url", "http://"+listener.Addr().String(), "epoch", in.clock.CurrentEpoch())

	g, gctx := errgroup.WithContext(exitCtx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
