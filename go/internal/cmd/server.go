package main

import (
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/grpcreflect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/dynasty-auction/go/internal/draft"
)

func setupServer(services *Services) (*http.Server, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
		},
		AllowedOrigins: services.Config.Server.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	if err := registerServices(r, services); err != nil {
		return nil, err
	}
	setupHealthCheck(r)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", services.Config.Server.Port),
		Handler:           h2c.NewHandler(c.Handler(r), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func registerServices(r chi.Router, services *Services) error {
	// Register auction RPC service
	auctionPath, auctionHandler, err := draft.NewAuctionServiceHandler(services.Auction)
	if err != nil {
		return fmt.Errorf("auction service handler: %w", err)
	}
	r.Mount(auctionPath, auctionHandler)

	// Setup reflection for grpcui/grpcurl
	reflector, err := draft.NewReflector()
	if err != nil {
		return fmt.Errorf("reflection: %w", err)
	}
	r.Mount(grpcreflect.NewHandlerV1(reflector))
	r.Mount(grpcreflect.NewHandlerV1Alpha(reflector))

	services.Gateway.RegisterRoutes(r)
	services.Players.RegisterRoutes(r)
	services.Auth.RegisterRoutes(r)
	services.OutboxHealth.RegisterRoutes(r)
	return nil
}

func setupHealthCheck(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
