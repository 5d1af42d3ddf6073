package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vlm-run/vlmrun-go/webhook"
)

type listenOptions struct {
	Addr   string
	Path   string
	Secret string
}

func parseListenFlags(cmdCtx *commandContext, args []string) (listenOptions, error) {
	fs := flag.NewFlagSet("listen", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listenOptions
	fs.StringVar(&opts.Addr, "addr", ":8080", "Listen address")
	fs.StringVar(&opts.Path, "path", "/webhook", "Webhook path")
	fs.StringVar(&opts.Secret, "secret", "", "Webhook secret (default VLMRUN_WEBHOOK_SECRET)")

	if err := fs.Parse(args); err != nil {
		return listenOptions{}, err
	}
	if opts.Secret == "" {
		opts.Secret = cmdCtx.Config.WebhookSecret
	}
	if opts.Secret == "" {
		return listenOptions{}, fmt.Errorf("a webhook secret is required (-secret or VLMRUN_WEBHOOK_SECRET)")
	}
	return opts, nil
}

// runListen serves a local webhook endpoint that verifies the payload
// signature and prints verified payloads to stdout. Useful for inspecting
// callback deliveries during development.
func runListen(cmdCtx *commandContext, args []string) error {
	opts, err := parseListenFlags(cmdCtx, args)
	if err != nil {
		return err
	}
	logger := cmdCtx.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.With(webhook.Middleware(opts.Secret)).Post(opts.Path, func(w http.ResponseWriter, req *http.Request) {
		body, readErr := io.ReadAll(req.Body)
		if readErr != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		var payload map[string]any
		if jsonErr := json.Unmarshal(body, &payload); jsonErr != nil {
			logger.Warn().Err(jsonErr).Msg("webhook payload is not JSON")
			fmt.Fprintln(os.Stdout, string(body))
		} else if printErr := printJSON(payload); printErr != nil {
			logger.Warn().Err(printErr).Msg("print webhook payload")
		}

		logger.Info().
			Int("bytes", len(body)).
			Str("signature", req.Header.Get(webhook.SignatureHeader)).
			Msg("verified webhook received")
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", opts.Addr).
			Str("path", opts.Path).
			Msg("webhook listener started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-cmdCtx.Ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return shutdownErr
		}
		logger.Info().Msg("webhook listener stopped")
		return nil
	case serveErr := <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			return nil
		}
		return serveErr
	}
}
