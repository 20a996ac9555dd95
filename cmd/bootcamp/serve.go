package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bootcamp-assistant/internal/dispatcher"
	"bootcamp-assistant/internal/utils"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, path string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the LINE webhook as a plain HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			channelSecret := os.Getenv("CHANNEL_SECRET")
			channelToken := os.Getenv("CHANNEL_TOKEN")
			if channelSecret == "" || channelToken == "" {
				return errors.New("CHANNEL_SECRET and CHANNEL_TOKEN must be set")
			}

			policy, err := utils.LedgerPolicyFromEnv()
			if err != nil {
				return err
			}
			repo, clock, err := a.repo()
			if err != nil {
				return err
			}
			linebotClient, err := utils.NewLineBotClient(channelSecret, channelToken)
			if err != nil {
				return err
			}

			router := dispatcher.NewEventRouter(a.logger, linebotClient, dispatcher.New(a.logger, repo, clock, policy))

			mux := http.NewServeMux()
			mux.HandleFunc(path, webhookHandler(a, linebotClient, router))

			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			a.logger.WithFields(logrus.Fields{
				"addr": addr,
				"path": path,
				"data": a.dataFile,
			}).Info("Webhook server listening")

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("webhook server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&path, "path", "/callback", "Webhook path")

	return cmd
}

func webhookHandler(a *app, linebotClient utils.LinebotAPI, router *dispatcher.EventRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		events, err := linebotClient.ParseRequest(r)
		if err != nil {
			a.logger.WithError(err).Error("Failed to parse webhook request")
			status := http.StatusBadRequest
			if errors.Is(err, linebot.ErrInvalidSignature) {
				status = http.StatusUnauthorized
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		router.Route(r.Context(), events)
		w.WriteHeader(http.StatusOK)
	}
}
