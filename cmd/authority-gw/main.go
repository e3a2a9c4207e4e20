package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/authority-contract/gateway"
	"github.com/nspcc-dev/authority-contract/rpc/authority"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddr := flag.String("contract", "", "Authority contract address or script hash (LE)")
	listenAddr := flag.String("listen", ":8080", "Address to serve HTTP requests on")
	listLimit := flag.Int("list-limit", authority.DefaultListLimit, "Max number of listed authorities")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddr == "":
		log.Fatal("missing Authority contract address")
	}

	logCfg := zap.NewProductionConfig()
	if *debug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal(err)
	}

	defer func() { _ = logger.Sync() }()

	contract, err := address.StringToUint160(*contractAddr)
	if err != nil {
		contract, err = util.Uint160DecodeStringLE(*contractAddr)
		if err != nil {
			logger.Fatal("invalid contract address", zap.String("value", *contractAddr), zap.Error(err))
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := rpcclient.New(ctx, *neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to dial Neo RPC server", zap.Error(err))
	}

	defer c.Close()

	err = c.Init()
	if err != nil {
		logger.Fatal("failed to init RPC client", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := gateway.New(logger, authority.NewReader(invoker.New(c, nil), contract), gateway.NewMetrics(reg), *listLimit)

	httpSrv := &http.Server{
		Addr:              *listenAddr,
		Handler:           srv.Router(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving Authority registry",
			zap.String("listen", *listenAddr), zap.String("contract", address.Uint160ToString(contract)))

		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err = httpSrv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
