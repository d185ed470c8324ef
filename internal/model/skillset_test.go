package model

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"常规标签", "CCTV, Patrol,first-aid", []string{"cctv", "patrol", "first-aid"}},
		{"空串", "", nil},
		{"纯空白与空标签", " , ,, ", nil},
		{"重复标签去重", "cctv,CCTV, cctv ", []string{"cctv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParseSkills(tt.input)
			if len(set) != len(tt.want) {
				t.Fatalf("期望 %d 个标签，实际=%d", len(tt.want), len(set))
			}
			for _, tag := range tt.want {
				if !set.Contains(tag) {
					t.Errorf("缺少标签 %q", tag)
				}
			}
		})
	}
}

func TestSkillSet_Fraction(t *testing.T) {
	guard := ParseSkills("cctv,patrol")

	// 无要求时视为完全匹配
	if f := guard.Fraction(ParseSkills("")); f != 1.0 {
		t.Errorf("无要求时期望 1.0，实际=%v", f)
	}

	// 2 项要求命中 1 项
	if f := guard.Fraction(ParseSkills("cctv,driving")); f != 0.5 {
		t.Errorf("期望 0.5，实际=%v", f)
	}

	// 完全不命中
	if f := guard.Fraction(ParseSkills("driving,k9")); f != 0.0 {
		t.Errorf("期望 0.0，实际=%v", f)
	}
}

func TestSkillSet_ContainsAll(t *testing.T) {
	guard := ParseSkills("cctv,patrol,first-aid")

	if !guard.ContainsAll(ParseSkills("cctv,patrol")) {
		t.Error("应覆盖全部要求")
	}
	if guard.ContainsAll(ParseSkills("cctv,driving")) {
		t.Error("缺少 driving 时不应通过")
	}
	if !guard.ContainsAll(ParseSkills("")) {
		t.Error("无要求时应恒为 true")
	}
}

func TestParseScanPayload(t *testing.T) {
	p, err := ParseScanPayload(`{"type":"premise","id":3,"uuid":"a2b4"}`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if p.Type != ScanTypePremise || p.ID == nil || *p.ID != 3 || p.UUID == nil {
		t.Errorf("载荷字段解析错误: %+v", p)
	}

	// 单引号 JSON 兼容
	p, err = ParseScanPayload(`{'type':'guard','id':7}`)
	if err != nil {
		t.Fatalf("单引号 JSON 应可解析: %v", err)
	}
	if p.Type != ScanTypeGuard || !p.Usable() {
		t.Errorf("载荷应可用: %+v", p)
	}

	// 缺 id 与 uuid → 不可用
	p, err = ParseScanPayload(`{"type":"premise"}`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if p.Usable() {
		t.Error("无 id/uuid 的载荷不应可用")
	}

	if _, err := ParseScanPayload(`not json`); err == nil {
		t.Error("非法 JSON 应返回错误")
	}
}

func TestShift_Bounds_Overnight(t *testing.T) {
	s := &Shift{StartTime: "22:00", EndTime: "06:00"}
	s.Date = mustDate(t, 2026, 3, 10)

	start, end, err := s.Bounds(s.Date.Location())
	if err != nil {
		t.Fatalf("Bounds 失败: %v", err)
	}
	if !end.After(start) {
		t.Fatal("跨夜班次结束时刻应晚于开始时刻")
	}
	if end.Sub(start).Hours() != 8 {
		t.Errorf("期望时长 8h，实际=%v", end.Sub(start))
	}
	if end.Day() != 11 {
		t.Errorf("结束时刻应落在次日，实际=%v", end)
	}
}
