package extract

import (
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// Report summarizes how much usable structure a scrape produced. Rates
// are percentages over the extracted endpoint set.
type Report struct {
	Recommendations   []string `json:"recommendations"`
	TotalEndpoints    int      `json:"total_endpoints"`
	AuthDetectionRate float64  `json:"auth_detection_rate"`
	InputSchemaRate   float64  `json:"input_schema_rate"`
	OutputSchemaRate  float64  `json:"output_schema_rate"`
	LowConfidence     bool     `json:"low_confidence"`
}

const lowRateThreshold = 50.0

// Quality grades an extraction result. HTML-derived sets are marked
// low-confidence since their schemas are keyword heuristics, not declared
// structure.
func Quality(records []api.EndpointRecord, lowConfidence bool) Report {
	report := Report{
		Recommendations: []string{},
		TotalEndpoints:  len(records),
		LowConfidence:   lowConfidence,
	}
	if len(records) == 0 {
		return report
	}

	var authHits, inputHits, outputHits int
	for _, rec := range records {
		if rec.AuthType != "" && rec.AuthType != "none" {
			authHits++
		}
		if schemaDetected(rec.InputSchema) {
			inputHits++
		}
		if schemaDetected(rec.OutputSchema) {
			outputHits++
		}
	}

	total := float64(len(records))
	report.AuthDetectionRate = float64(authHits) / total * 100
	report.InputSchemaRate = float64(inputHits) / total * 100
	report.OutputSchemaRate = float64(outputHits) / total * 100

	if report.AuthDetectionRate < lowRateThreshold {
		report.Recommendations = append(report.Recommendations,
			"low auth detection; check whether the source declares "+
				"security schemes")
	}
	if report.InputSchemaRate < lowRateThreshold {
		report.Recommendations = append(report.Recommendations,
			"low input schema extraction; check request body definitions")
	}
	if report.OutputSchemaRate < lowRateThreshold {
		report.Recommendations = append(report.Recommendations,
			"low output schema extraction; check response definitions")
	}
	return report
}

// schemaDetected reports whether a node carries real structure rather
// than an absent or degraded marker
func schemaDetected(n *api.SchemaNode) bool {
	if n == nil {
		return false
	}
	if t, ok := n.TypeName(); ok {
		return t != api.NoneType && t != api.UnknownType
	}
	return true
}
