/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/niraihan/real-estate-server/internal/auth"
	"github.com/niraihan/real-estate-server/internal/common"
	"github.com/niraihan/real-estate-server/internal/config"
	"github.com/niraihan/real-estate-server/internal/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	seedFile := flag.String("seed", "", "Optional YAML file of users to provision on startup (overrides SEED_FILE)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting real estate marketplace server",
		zap.String("backend", cfg.Backend),
		zap.String("port", cfg.Server.Port))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if cfg.SeedFile != "" {
		seed, err := common.LoadSeedConfig(cfg.SeedFile)
		if err != nil {
			zap.L().Fatal("Failed to load seed file", zap.String("file", cfg.SeedFile), zap.Error(err))
		}
		created, err := common.SeedUsers(ctx, services.Market, seed)
		if err != nil {
			zap.L().Fatal("Failed to seed users", zap.Error(err))
		}
		zap.L().Info("Seed complete", zap.Int("created", created), zap.Int("total", len(seed.Users)))
	}

	tokens, err := auth.NewTokens(cfg.Auth)
	if err != nil {
		zap.L().Fatal("Failed to initialize credential verifier", zap.Error(err))
	}
	if cfg.Auth.IssueEndpoint {
		zap.L().Warn("Credential issue endpoint enabled; do not expose in production")
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.New(services.Market, tokens, cfg.Auth.IssueEndpoint), cfg.Server)

	server := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Server.Port),
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("Listening", zap.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped unexpectedly", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		zap.L().Info("Shutdown signal received, draining connections...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
		return
	}
	zap.L().Info("Server stopped gracefully")
}
