package model

// Breakdown itemizes the cost of running one GPU for a given duration.
// Values are full-precision floats; rounding for display is the caller's
// concern. ComputeCostUSD is zero for local estimates and omitted from JSON.
type Breakdown struct {
	EnergyKWh      float64 `json:"energy_kwh"`
	EnergyCostUSD  float64 `json:"energy_cost_usd"`
	ComputeCostUSD float64 `json:"compute_cost_usd,omitempty"`
	TotalCostUSD   float64 `json:"total_cost_usd"`
}

// EstimateRequest is the body of POST /api/estimate.
type EstimateRequest struct {
	ElectricityCostUSD float64 `json:"electricity_cost_usd"`
	GPU                string  `json:"gpu"`
	Hours              float64 `json:"hours"`
}

// Verdict says which deployment mode is cheaper for one estimate.
type Verdict struct {
	Cheaper    string  `json:"cheaper"` // "cloud", "local", or "equal"
	SavingsUSD float64 `json:"savings_usd"`
}

// EstimateResponse holds both breakdowns for a single GPU plus the verdict.
type EstimateResponse struct {
	GPU     string    `json:"gpu"`
	Hours   float64   `json:"hours"`
	Cloud   Breakdown `json:"cloud"`
	Local   Breakdown `json:"local"`
	Verdict Verdict   `json:"verdict"`
}

// GPUInfo is one catalog entry as exposed over the API.
type GPUInfo struct {
	ID            string  `json:"id"`
	Watts         float64 `json:"watts"`
	HourlyCostUSD float64 `json:"hourly_cost_usd"`
}

// GPUListResponse is the body of GET /api/gpus.
type GPUListResponse struct {
	GPUs []GPUInfo `json:"gpus"`
}

// CheapestResult is the body of GET /api/cheapest. Found is false when the
// catalog is empty or no entry could be priced.
type CheapestResult struct {
	Found              bool    `json:"found"`
	Label              string  `json:"label,omitempty"`
	TotalCostUSD       float64 `json:"total_cost_usd"`
	ElectricityCostUSD float64 `json:"electricity_cost_usd"`
	Hours              float64 `json:"hours"`
}

// ErrorResponse wraps an API error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds error information. ValidGPUs is set for gpu_not_found so
// the client can present a corrective message.
type ErrorDetail struct {
	Message   string   `json:"message"`
	Type      string   `json:"type"`
	ValidGPUs []string `json:"valid_gpus,omitempty"`
}
