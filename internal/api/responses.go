package api

type ErrorResponse struct {
	Error string `json:"error" example:"gym 42 not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"gym approved"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
