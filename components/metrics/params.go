package metrics

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersMetrics contains the definition of the parameters used by the metrics component.
type ParametersMetrics struct {
	Enabled bool `default:"true" usage:"whether the metrics component is enabled"`
	// BindAddress is the address the /metrics endpoint is served on.
	BindAddress string `default:"localhost:9311" usage:"the bind address of the prometheus exporter"`

	GoMetrics       bool `default:"false" usage:"include go runtime metrics"`
	ProcessMetrics  bool `default:"false" usage:"include process metrics"`
	PromhttpMetrics bool `default:"false" usage:"include metrics of the exporter handler itself"`
}

// ParamsMetrics contains the configuration used by the metrics component.
var ParamsMetrics = &ParametersMetrics{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"metrics": ParamsMetrics,
	},
}
