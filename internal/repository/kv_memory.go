package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryKV is an in-process KV. Nothing survives a restart.
type MemoryKV struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int64
}

// NewMemoryKV creates an empty MemoryKV. quotaBytes <= 0 disables the quota check.
func NewMemoryKV(quotaBytes int64) *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte), quota: quotaBytes}
}

func (kv *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, ok := kv.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (kv *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.quota > 0 {
		var used int64
		for k, v := range kv.data {
			if k != key {
				used += blobSize(k, v)
			}
		}
		if used+blobSize(key, value) > kv.quota {
			return fmt.Errorf("%w: %d of %d bytes in use", ErrQuotaExceeded, used, kv.quota)
		}
	}

	kv.data[key] = append([]byte(nil), value...)
	return nil
}

func (kv *MemoryKV) Delete(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.data, key)
	return nil
}
