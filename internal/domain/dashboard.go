package domain

// DashboardStats aggregates counts shown on the admin dashboard.
type DashboardStats struct {
	TotalProducts  int `json:"totalProducts"`
	TotalUsers     int `json:"totalUsers"`
	TotalLeads     int `json:"totalLeads"`
	NewLeads       int `json:"newLeads"`
	ConvertedLeads int `json:"convertedLeads"`
}
