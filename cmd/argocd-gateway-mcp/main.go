package main

import (
	"os"

	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/config"
	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
	"github.com/toyamagu-2021/argocd-gateway/internal/server"
	"github.com/toyamagu-2021/argocd-gateway/internal/tools"
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
	}).Info("Starting ArgoCD gateway MCP server")

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

	s := server.NewMCP(cfg.Server.Name, version)
	tools.RegisterAll(s, client)

	log.Info("Waiting for requests on stdin...")
	if err := mcp_server.ServeStdio(s); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}
