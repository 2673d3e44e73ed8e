package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"Tunebox/db"
	"Tunebox/logger"
	"Tunebox/storage"
)

// StaticHandler 在URL前缀下提供文件存储中的上传文件
type StaticHandler struct {
	files  storage.FileArea
	prefix string
}

// NewStaticHandler 创建 StaticHandler 实例
func NewStaticHandler(files storage.FileArea, prefix string) *StaticHandler {
	return &StaticHandler{files: files, prefix: prefix}
}

// ServeHTTP 实现 http.Handler 接口，Range 请求由 http.ServeContent 处理
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, h.prefix+"/")
	if storage.ValidateName(name) != nil {
		http.NotFound(w, r)
		return
	}

	file, info, err := h.files.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		logger.Error("Error opening stored file", logger.String("name", name), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	// 存储文件名唯一且不会被覆盖
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	http.ServeContent(w, r, name, info.LastModified, file)
}

// HealthHandler 报告服务存活状态和数据库连通性
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, h.db); err != nil {
		logger.Error("[Health] database unreachable", logger.ErrorField(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.cfg.StorageBackend,
	})
}
