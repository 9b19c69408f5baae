package response

type StatusOK struct {
	Success bool        `json:"success" example:"true" structs:"success"`
	Message string      `json:"message" example:"Success" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusCreated struct {
	Success bool        `json:"success" example:"true" structs:"success"`
	Message string      `json:"message" example:"Created" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusBadRequest struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Bad request" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusUnauthorized struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Unauthorized" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusNotFound struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Not found" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusConflict struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Conflict" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusRequestEntityTooLarge struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Request entity too large" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusTooManyRequests struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Too many requests" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}

type StatusInternalServerError struct {
	Success bool        `json:"success" example:"false" structs:"success"`
	Message string      `json:"message" example:"Internal server error" structs:"message"`
	Data    interface{} `json:"data" structs:"data"`
}
