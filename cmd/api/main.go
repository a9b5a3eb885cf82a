package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	settings, err := cfg.InvoiceSettings()
	if err != nil {
		slog.Error("invalid invoice settings", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	importService := importer.NewService()

	handlerFor := func(kind invoice.Kind) *invoiceHandler.Handler {
		svc := invoice.NewService(invoiceStore.New(backend.KeySpace, kind), kind, settings)
		return invoiceHandler.NewHandler(svc, importService)
	}

	router := invoicerHttp.New(auth.NewMiddleware(cfg.Auth.JWTSecret), cfg.CORS.AllowedOrigins, invoicerHttp.Handlers{
		Invoices:       handlerFor(invoice.KindInvoice),
		Estimates:      handlerFor(invoice.KindEstimate),
		PurchaseOrders: handlerFor(invoice.KindPurchaseOrder),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
