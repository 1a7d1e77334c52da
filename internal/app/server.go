// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	adminHandler "storefront/internal/handlers/admin"
	authHandler "storefront/internal/handlers/auth"
	cartHandler "storefront/internal/handlers/cart"
	catalogHandler "storefront/internal/handlers/catalog"
	"storefront/internal/middleware"
	"storefront/internal/pkg/jwt"
	"storefront/internal/repository/memory"
	adminUsecase "storefront/internal/service/admin"
	authUsecase "storefront/internal/service/auth"
	cartUsecase "storefront/internal/service/cart"
	catalogUsecase "storefront/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the in-memory reference backend.
type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

// NewServer wires repositories, services and handlers, and seeds the data
// set when configured to.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(cfg.JWT())
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Repositories -----
	db := memory.NewDB()
	accountRepo := memory.NewAccountRepository(db)
	productRepo := memory.NewProductRepository(db)
	cartRepo := memory.NewCartRepository(db)
	billRepo := memory.NewBillRepository(db)
	tokenRepo := memory.NewTokenRepository(db)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(accountRepo, tokenRepo, jwtManager, logger)
	catalogService := catalogUsecase.NewCatalogService(productRepo, logger)
	cartService := cartUsecase.NewCartService(cartRepo, billRepo, logger)
	adminService := adminUsecase.NewAdminService(accountRepo, db, logger)

	if cfg.DevAPI.Seed {
		if err := adminService.EnsureSeedData(ctx, productRepo); err != nil {
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, logger),
		CatalogHandler: catalogHandler.NewCatalogHandler(catalogService, authService),
		CartHandler:    cartHandler.NewCartHandler(cartService),
		AdminHandler:   adminHandler.NewAdminHandler(adminService),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	engine := gin.New()
	engine.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	// ----- Router -----
	SetupRouter(engine, handlers)

	return &Server{cfg: cfg, engine: engine, logger: logger}, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.DevAPI.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devapi listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("devapi shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
