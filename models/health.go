package models

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string `json:"status"`
	Database          string `json:"database"`
	StrategyGenerator string `json:"strategy_generator"`
}

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDown     = "unavailable"
	HealthDisabled = "disabled"
)
