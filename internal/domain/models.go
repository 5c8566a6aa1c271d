package domain

// ConversionRequest asks for one value to be converted between units.
type ConversionRequest struct {
	Value    float64 `json:"value" yaml:"value"`
	FromUnit string  `json:"fromUnit" yaml:"from_unit"`
	ToUnit   string  `json:"toUnit" yaml:"to_unit"`
}

// BulkConversionRequest batches independent conversions; order is preserved.
type BulkConversionRequest struct {
	Conversions []ConversionRequest `json:"conversions"`
}

// ConversionResult is the service's answer for a single conversion.
type ConversionResult struct {
	OriginalValue  float64 `json:"originalValue"`
	OriginalUnit   string  `json:"originalUnit"`
	ConvertedValue float64 `json:"convertedValue"`
	TargetUnit     string  `json:"targetUnit"`
}

// UnitInfo describes a supported unit and its valid input range.
type UnitInfo struct {
	Unit         string  `json:"unit"`
	MinimumValue float64 `json:"minimumValue"`
	MaximumValue float64 `json:"maximumValue"`
}

// ErrorResponse is the body returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
