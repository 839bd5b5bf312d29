package domain

// Student represents one enrolled student record.
type Student struct {
	StudentID    int64  `json:"studentID"` // Primary Key (bigserial)
	Name         string `json:"name"`
	ClassName    string `json:"className"`
	GuardianName string `json:"guardianName"`
	Phone        string `json:"phone"`
	UsesVan      bool   `json:"usesVan"` // Subscribed to school transport
	Active       bool   `json:"active"`
	AuditFields
}

// StudentSummary is the slice of student data joined onto ledger rows for
// listings and receipt rendering.
type StudentSummary struct {
	StudentID int64  `json:"studentID"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	UsesVan   bool   `json:"usesVan"`
}
