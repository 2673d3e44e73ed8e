package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Tunebox/config"
	"Tunebox/core/account"
	"Tunebox/core/auth"
	"Tunebox/core/media"
	"Tunebox/logger"
	"Tunebox/repository"
	"Tunebox/storage"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	cfg *config.Config
	db  *gorm.DB

	tokens   *auth.TokenService
	accounts *account.Service
	ingestor *media.Ingestor
	urls     media.URLBuilder
	files    storage.FileArea

	trackRepo    repository.TrackRepository
	albumRepo    repository.AlbumRepository
	playlistRepo repository.PlaylistRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository

	authLimiter *ipRateLimiter
}

// NewAPIHandler 基于已打开的数据库和文件存储创建仓库与服务
func NewAPIHandler(cfg *config.Config, gormDB *gorm.DB, files storage.FileArea, tokens *auth.TokenService) *APIHandler {
	trackRepo := repository.NewGormTrackRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	return &APIHandler{
		cfg:          cfg,
		db:           gormDB,
		tokens:       tokens,
		accounts:     account.NewService(userRepo, tokens, cfg.BcryptCost),
		ingestor:     media.NewIngestor(trackRepo, files),
		urls:         media.NewURLBuilder(cfg),
		files:        files,
		trackRepo:    trackRepo,
		albumRepo:    repository.NewGormAlbumRepository(gormDB),
		playlistRepo: repository.NewGormPlaylistRepository(gormDB),
		commentRepo:  repository.NewGormCommentRepository(gormDB),
		likeRepo:     repository.NewGormLikeRepository(gormDB),
		authLimiter:  newIPRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	}
}

// Accounts 返回账号服务，用于启动时初始化管理员
func (h *APIHandler) Accounts() *account.Service {
	return h.accounts
}

// maxJSONBody JSON请求体大小上限
const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: invalid request body", errBadRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// pathID 将路由变量 {name} 解析为正整数ID
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return id, nil
}

// identity 返回 RequireAuth 附加的调用者身份
func identity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}
