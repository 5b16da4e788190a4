// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/state"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) error {
	verbosity := ctx.GlobalUint64(verbosityFlag.Name)
	if verbosity > log.LegacyLevelTrace {
		return fmt.Errorf("invalid verbosity %d", verbosity)
	}
	level := log.FromVerbosity(int(verbosity))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		lvl := new(slog.LevelVar)
		lvl.Set(level)
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.TerminalHandler(os.Stderr, level, useColor)
	}
	log.SetDefault(handler)

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.Enable()
	}
	return nil
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakeledger")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.stakeledger")
		} else {
			return filepath.Join(home, ".org.vechain.stakeledger")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(ctx *cli.Context, readOnly bool) (*lvldb.LevelDB, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dataDir, "main.db")
	if readOnly {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errNotInited
		}
	}
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
		ReadOnly:               readOnly,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database [%v]", path)
	}
	return db, nil
}

var (
	metaAddress  = ledger.BytesToAddress([]byte("Meta"))
	metaGenesis  = ledger.BytesToBytes32([]byte("genesis"))
	metaEpoch    = ledger.BytesToBytes32([]byte("epoch"))
	errNotInited = errors.New("ledger not initialized, run init first")
)

// instance is an opened ledger: the store, its state and the engine bound to it.
type instance struct {
	db      *lvldb.LevelDB
	state   *state.State
	clock   *clock.Manual
	engine  *staking.Engine
	genesis ledger.Bytes32
}

func (l *instance) Close() {
	l.db.Close()
}

// openInstance opens the store and sets the clock to the requested epoch.
// The epoch never moves backwards across commands.
func openInstance(ctx *cli.Context, readOnly bool) (*instance, error) {
	db, err := openMainDB(ctx, readOnly)
	if err != nil {
		return nil, err
	}
	st := state.New(db)

	rawGenesis, err := st.GetRawStorage(metaAddress, metaGenesis)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(rawGenesis) == 0 {
		db.Close()
		return nil, errNotInited
	}
	rawEpoch, err := st.GetRawStorage(metaAddress, metaEpoch)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(rawEpoch) != 8 {
		db.Close()
		return nil, errors.New("corrupted epoch record")
	}
	last := binary.BigEndian.Uint64(rawEpoch)

	epoch := last
	if ctx.GlobalIsSet(epochFlag.Name) {
		epoch = ctx.GlobalUint64(epochFlag.Name)
		if epoch < last {
			db.Close()
			return nil, fmt.Errorf("epoch %d is before the last committed epoch %d", epoch, last)
		}
	}

	clk := clock.NewManual(epoch)
	return &instance{
		db:      db,
		state:   st,
		clock:   clk,
		engine:  builtin.Staking.WithState(st, clk),
		genesis: ledger.BytesToBytes32(rawGenesis),
	}, nil
}

func writeMeta(st *state.State, genesisID ledger.Bytes32, epoch uint64) {
	st.SetRawStorage(metaAddress, metaGenesis, genesisID.Bytes())
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], epoch)
	st.SetRawStorage(metaAddress, metaEpoch, b[:])
}

// commit records the epoch and persists all pending changes.
func (l *instance) commit() error {
	writeMeta(l.state, l.genesis, l.clock.CurrentEpoch())
	hash, err := l.engine.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	log.Root().Info("committed", "epoch", l.clock.CurrentEpoch(), "hash", hash.AbbrevString())
	return nil
}

func caller(ctx *cli.Context) (ledger.Address, error) {
	s := ctx.GlobalString(callerFlag.Name)
	if s == "" {
		return ledger.Address{}, fmt.Errorf("-%s is required", callerFlag.Name)
	}
	addr, err := ledger.ParseAddress(s)
	if err != nil {
		return ledger.Address{}, errors.Wrap(err, "-"+callerFlag.Name)
	}
	return addr, nil
}

// addressOr parses the named flag, falling back to def when it is not given.
func addressOr(ctx *cli.Context, name string, def ledger.Address) (ledger.Address, error) {
	s := ctx.String(name)
	if s == "" {
		return def, nil
	}
	addr, err := ledger.ParseAddress(s)
	if err != nil {
		return ledger.Address{}, errors.Wrap(err, "-"+name)
	}
	return addr, nil
}

func requiredAddress(ctx *cli.Context, name string) (ledger.Address, error) {
	if ctx.String(name) == "" {
		return ledger.Address{}, fmt.Errorf("-%s is required", name)
	}
	return addressOr(ctx, name, ledger.Address{})
}

func parseAmount(ctx *cli.Context, name string) (*big.Int, error) {
	s := ctx.String(name)
	if s == "" {
		return nil, fmt.Errorf("-%s is required", name)
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("-%s: invalid number %q", name, s)
	}
	return v, nil
}

func parseAllocationIDs(ctx *cli.Context) ([]ledger.Address, error) {
	values := ctx.StringSlice(allocationFlag.Name)
	if len(values) == 0 {
		return nil, fmt.Errorf("-%s is required", allocationFlag.Name)
	}
	ids := make([]ledger.Address, 0, len(values))
	for _, v := range values {
		id, err := ledger.ParseAddress(v)
		if err != nil {
			return nil, errors.Wrap(err, "-"+allocationFlag.Name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.Handler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(listener)
	}()
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		<-done
	}, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
