package dto

// RevisionRecipientInput addresses one recipient of a revision request.
type RevisionRecipientInput struct {
	RecipientID   string `json:"recipientId" validate:"required"`
	RecipientType string `json:"recipientType" validate:"required"`
}

// CreateRevisionRequest asks recipients to rework a stage.
type CreateRevisionRequest struct {
	PeriodID   string                   `json:"periodId" validate:"required"`
	EmployeeID string                   `json:"employeeId" validate:"required"`
	Step       string                   `json:"step" validate:"required"`
	Comment    string                   `json:"comment" validate:"required"`
	Recipients []RevisionRecipientInput `json:"recipients" validate:"required,min=1,dive"`
}

// CompleteRevisionRequest carries a recipient's response.
type CompleteRevisionRequest struct {
	ResponseComment string `json:"responseComment" validate:"required"`
}

// RevisionInboxQuery filters a recipient's revision requests.
type RevisionInboxQuery struct {
	PeriodID    string `form:"periodId"`
	Step        string `form:"step"`
	IsRead      *bool  `form:"isRead"`
	IsCompleted *bool  `form:"isCompleted"`
}

// RevisionCompletionResult reports the outcome of a recipient completion.
type RevisionCompletionResult struct {
	RequestID    string `json:"requestId"`
	RecipientID  string `json:"recipientId"`
	AllCompleted bool   `json:"allCompleted"`
	Remaining    int    `json:"remaining"`
}

// UnreadCountResponse is returned by the unread badge endpoint.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
