package dto

import "github.com/justkurama/django2024-tsis2/internal/repository"

// ── 分析模块响应 ──

// APIUsageResponse API 使用概况
type APIUsageResponse struct {
	TotalRequests      int64                         `json:"total_requests"`
	RequestsPerUser    []repository.UserRequestCount `json:"requests_per_user"`
	MostActiveUsers    []repository.UserRequestCount `json:"most_active_users"` // 前 5
	UniqueUsers        int64                         `json:"unique_users"`
	AvgRequestsPerUser float64                       `json:"avg_requests_per_user"` // 无活跃用户时为 0
}

// CoursePopularityResponse 课程热度概况（前 5 / 后 5）
type CoursePopularityResponse struct {
	MostViewedCourses  []repository.CourseViewCount `json:"most_viewed_courses"`
	LeastViewedCourses []repository.CourseViewCount `json:"least_viewed_courses"`
}
