package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Tunebox/config"
	"Tunebox/core/auth"
	"Tunebox/db"
	"Tunebox/logger"
	"Tunebox/storage"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout 优雅关闭的超时时间
const shutdownTimeout = 5 * time.Second

// Handler 返回包裹了日志和CORS中间件的路由
// 未匹配的请求(如CORS预检)同样经过这两个中间件
func (h *APIHandler) Handler() http.Handler {
	return requestLogger(corsMiddleware(h.Router()))
}

// Router 构建API、上传文件和Web客户端的路由
func (h *APIHandler) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	// 用户认证相关的API端点
	api.HandleFunc("/register", h.Throttle(h.RegisterHandler)).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Throttle(h.LoginHandler)).Methods(http.MethodPost)
	api.HandleFunc("/me", h.RequireAuth(h.GetUserProfileHandler)).Methods(http.MethodGet)

	// 歌曲相关的API端点
	api.HandleFunc("/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks", h.RequireAuth(h.RequireUploader(h.UploadTrackHandler))).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}", h.GetTrackHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}", h.RequireAuth(h.RequireAdmin(h.DeleteTrackHandler))).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/{id:[0-9]+}/cover", h.RequireAuth(h.RequireAdmin(h.UploadCoverHandler))).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/download", h.DownloadTrackHandler).Methods(http.MethodGet, http.MethodHead)

	// 评论与点赞
	api.HandleFunc("/tracks/{id:[0-9]+}/comments", h.GetCommentsHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id:[0-9]+}/comments", h.RequireAuth(h.CreateCommentHandler)).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/like", h.RequireAuth(h.LikeTrackHandler)).Methods(http.MethodPost)
	api.HandleFunc("/tracks/{id:[0-9]+}/like", h.RequireAuth(h.UnlikeTrackHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/{id:[0-9]+}/likes", h.OptionalAuth(h.GetLikesHandler)).Methods(http.MethodGet)

	// 专辑相关的API端点
	api.HandleFunc("/albums", h.GetAlbumsHandler).Methods(http.MethodGet)
	api.HandleFunc("/albums", h.RequireAuth(h.RequireAdmin(h.CreateAlbumHandler))).Methods(http.MethodPost)
	api.HandleFunc("/albums/{id:[0-9]+}", h.GetAlbumHandler).Methods(http.MethodGet)

	// 播放列表相关的API端点
	api.HandleFunc("/playlists", h.RequireAuth(h.GetPlaylistsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists", h.RequireAuth(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id:[0-9]+}", h.RequireAuth(h.GetPlaylistHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id:[0-9]+}/tracks", h.RequireAuth(h.GetPlaylistTracksHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id:[0-9]+}/tracks", h.RequireAuth(h.AddToPlaylistHandler)).Methods(http.MethodPost)

	router.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	// 上传文件访问
	router.PathPrefix(h.cfg.UploadURLPrefix + "/").Handler(NewStaticHandler(h.files, h.cfg.UploadURLPrefix))

	// 前端界面
	if info, err := os.Stat(h.cfg.WebAppDir); err == nil && info.IsDir() {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(h.cfg.WebAppDir)))
	}

	return router
}

// Start 打开数据库和文件存储，初始化管理员账号并提供HTTP服务，
// 直到 ctx 取消或进程收到 SIGINT/SIGTERM
func Start(ctx context.Context, cfg *config.Config) error {
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	files, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open file area: %w", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = auth.RandomSecret(); err != nil {
			return err
		}
		logger.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	handler := NewAPIHandler(cfg, gormDB, files, auth.NewTokenService(secret, cfg.TokenTTL))
	if _, err := handler.Accounts().SeedAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // 大文件上传
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting",
			logger.String("addr", server.Addr),
			logger.String("db", cfg.DBDriver),
			logger.String("storage", files.Location()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	})
	return g.Wait()
}
