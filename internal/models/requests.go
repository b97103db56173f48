package models

// ReportFindRequest is the body of POST /api/submit
type ReportFindRequest struct {
	CardID    FlexInt `json:"cardId"`
	FoundBy   string  `json:"foundBy"`
	DateFound string  `json:"dateFound"`
	Link      string  `json:"link"`
}

// UpdatePriceRequest is the body of POST /api/update-price
type UpdatePriceRequest struct {
	CardID FlexInt  `json:"cardId"`
	Price  *float64 `json:"price"`
}

// AddPriceHistoryRequest is the body of POST /api/add-price-history
type AddPriceHistoryRequest struct {
	CardID FlexInt            `json:"cardId"`
	Entry  *PriceHistoryEntry `json:"entry"`
}

// GradingInput is grading data as submitted; the grade may arrive as a string
type GradingInput struct {
	Service    string    `json:"service"`
	Grade      FlexFloat `json:"grade"`
	DateGraded string    `json:"dateGraded,omitempty"`
}

// UpdateGradingRequest is the body of POST /api/update-grading
type UpdateGradingRequest struct {
	CardID  FlexInt       `json:"cardId"`
	Grading *GradingInput `json:"grading"`
}

// UpdateImageRequest is the body of POST /api/update-image
type UpdateImageRequest struct {
	CardID   FlexInt `json:"cardId"`
	ImageURL string  `json:"imageUrl"`
}

// CardMutationResponse is returned by every successful admin mutation
type CardMutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Card    Card   `json:"card"`
}
