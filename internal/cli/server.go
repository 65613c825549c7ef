package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/auth"
	"logic-quiz-service/internal/config"
	transport "logic-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, b, questions, err := openServices(ctx, configPath)
	if err != nil {
		return err
	}
	defer b.Close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	service := app.NewQuizService(b.sessions, questions, b.results)
	router := transport.NewRouter(transport.Deps{
		Quiz:  service,
		Admin: app.NewAdminService(b.results),
		Credentials: auth.Credentials{
			User:     cfg.Admin.User,
			Pass:     cfg.Admin.Pass,
			PassHash: cfg.Admin.PassHash,
		},
		Issuer:  auth.NewIssuer(cfg.Admin.JWTSecret, config.TTLDuration(cfg.Admin.TokenTTL, 8*time.Hour)),
		Origins: cfg.CORS.Origins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s (storage=%s, catalog=%s, %d questions)",
			finalPort, cfg.Storage.Backend, cfg.Catalog.Source, questions.Len())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
