package domain

import "time"

// Lead status lifecycle values.
const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusConverted = "Converted"
	LeadStatusRejected  = "Rejected"
)

// ValidLeadStatus reports whether s is one of the lifecycle values.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusConverted, LeadStatusRejected:
		return true
	}
	return false
}

// Lead is a customer-submitted customization/purchase request tracked
// through a status lifecycle by administrators.
type Lead struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName,omitempty"`
	Quantity       int       `json:"quantity"`
	Status         string    `json:"status"`
	EngravingText  string    `json:"engravingText,omitempty"`
	Color          string    `json:"color,omitempty"`
	CustomImageURL string    `json:"customImageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
