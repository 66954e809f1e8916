package device

import "context"

// ── 远程录入边界 ──
//
// 部分终端不接受照片下发，只支持"终端侧采集"：由终端现场拍照，
// 客户端轮询采集结果。这是一个长耗时异步操作，与确定性的考勤计算
// 完全隔离，这里只定义轮询契约。

// EnrollmentStatus 远程录入轮询结果
type EnrollmentStatus string

const (
	EnrollmentPending EnrollmentStatus = "pending"
	EnrollmentSuccess EnrollmentStatus = "success"
	EnrollmentTimeout EnrollmentStatus = "timeout"
)

// Enroller 支持终端侧采集的客户端扩展接口
type Enroller interface {
	// StartEnrollment 触发终端进入采集模式
	StartEnrollment(ctx context.Context, employeeNo string) (enrollmentID string, err error)
	// PollEnrollment 轮询采集进度，直至 success 或 timeout
	PollEnrollment(ctx context.Context, enrollmentID string) (EnrollmentStatus, error)
}
