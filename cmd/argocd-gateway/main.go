package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/config"
	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
	"github.com/toyamagu-2021/argocd-gateway/internal/server"
)

const version = "1.0.0"

func main() {
	log := logging.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Configure(cfg.Log.Level, cfg.Log.Format)

	log.WithFields(logrus.Fields{
		"service": cfg.Server.Name,
		"version": version,
		"pid":     os.Getpid(),
	}).Info("Starting ArgoCD gateway")
	log.WithField("config", cfg.String()).Debug("Running with config")

	client, err := api.NewClient(api.Config{
		BaseURL:   cfg.ArgoCD.Server,
		AuthToken: cfg.ArgoCD.AuthToken,
		Insecure:  cfg.ArgoCD.Insecure,
		Timeout:   cfg.ArgoCD.Timeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create ArgoCD client")
	}
	defer client.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.NewHTTP(cfg.Server, client).Start(ctx); err != nil {
		log.WithError(err).Fatal("Server error")
	}
	log.Info("ArgoCD gateway stopped")
}
