package health

import (
	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/response"
)

// Status is the JSON body of a successful probe.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness reports that the process is running. No dependency checks.
// Always responds 200 with {"status":"ok"}.
//
// Example:
//
//	r.Get("/health", health.Liveness[*router.Context])
func Liveness[C handler.Context](C) handler.Response {
	return response.JSON(Status{Status: "ok"})
}

// NoContent returns HTTP 204 without body. Ideal for high-frequency checks.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}
