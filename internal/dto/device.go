package dto

// ── 终端模块 DTO ──

// CreateDeviceRequest 创建终端请求
type CreateDeviceRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Host     string `json:"host"     binding:"required,max=100"`
	Type     string `json:"type"     binding:"required,oneof=entry exit both other"`
	Priority int    `json:"priority"`
}

// UpdateDeviceRequest 更新终端请求
type UpdateDeviceRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Host     *string `json:"host"     binding:"omitempty,max=100"`
	Type     *string `json:"type"     binding:"omitempty,oneof=entry exit both other"`
	Priority *int    `json:"priority"`
	Active   *bool   `json:"active"`
}

// DeviceResponse 终端信息响应
type DeviceResponse struct {
	DeviceID  string `json:"device_id"`
	Name      string `json:"name"`
	Host      string `json:"host"`
	Type      string `json:"type"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}
