package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillpress/blog-platform/internal/api"
	"github.com/quillpress/blog-platform/internal/core/ports"
	"github.com/quillpress/blog-platform/internal/core/service"
	redisstore "github.com/quillpress/blog-platform/internal/infrastructure/db/redis"
	"github.com/quillpress/blog-platform/internal/infrastructure/queue"
	"github.com/quillpress/blog-platform/internal/infrastructure/security"
	"github.com/quillpress/blog-platform/internal/pkg/config"
	"github.com/quillpress/blog-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the blog platform API server",
	Long: `Starts the blog platform API server. Usage:

	blogctl server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog",
		Caller:  !cfg.IsDevelopment(),
	})

	st, pingers, closeStore, err := openStore(ctx, cfg, logger.Component(log, "store"))
	if err != nil {
		return err
	}
	defer closeStore()

	var revocations ports.TokenRevocations
	if cfg.Redis.Addr != "" {
		r, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer r.Close()
		revocations = r
		pingers["redis"] = r
	} else {
		log.Warn().Msg("REDIS_ADDR not set; logout will not revoke tokens")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		log.Warn().Msg("JWT_SECRET not set; using a random secret, sessions end on restart")
	}

	activity := queue.NewDispatcher(cfg.ActivityWorkers, st.Activity(), logger.Component(log, "activity"))
	// Workers outlive the signal context so Close can flush queued entries
	// before the store is closed.
	activity.Start(context.Background())
	defer activity.Close()

	hasher := security.NewBcryptHasher(0)
	if _, err := service.EnsureAdmin(ctx, st.Users(), hasher, cfg.Admin.Username, cfg.Admin.Password, log); err != nil {
		return err
	}

	tokens := service.NewTokenService(secret, cfg.TokenTTL, revocations)
	e := api.NewRouter(api.Dependencies{
		Auth:       service.NewAuthService(st.Users(), hasher, tokens, activity, logger.Component(log, "auth")),
		Sessions:   tokens,
		Identities: service.NewIdentityService(st.Users()),
		Posts:      service.NewPostService(st, st.Users(), st.Posts(), st.Comments(), activity, logger.Component(log, "posts")),
		Comments:   service.NewCommentService(st, st.Posts(), st.Comments(), activity, logger.Component(log, "comments")),
		Admin:      service.NewAdminService(st.Users(), st.Posts(), st.Comments(), st.Activity()),
		Readiness:  pingers,
		StaticDir:  cfg.StaticDir,
		Metrics:    true,
		Log:        logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
