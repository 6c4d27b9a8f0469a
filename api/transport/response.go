package transport

// Envelope wraps every API response. Success responses carry Data;
// error responses carry Code and Error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Success returns a success envelope around the payload.
func Success(data interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// Failure returns an error envelope with the domain error code.
func Failure(code, message string) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
	}
}
