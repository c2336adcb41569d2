package services

import (
	"github.com/carepath/snf-navigator/internal/domain/entities"
)

// MetricCatalog is the static list of quality indicators the resolver knows
// about. Every definition has a historical key; current keys are absent for
// metrics that stopped being published in the live dataset.
var MetricCatalog = []entities.MetricDefinition{
	{
		Label:          "Pressure Ulcer Rate",
		CurrentKey:     "pressure_ulcer_rate",
		HistoricalKey:  "pressure_ulcer_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupOutcomes,
	},
	{
		Label:          "Falls With Major Injury",
		CurrentKey:     "falls_major_injury_rate",
		HistoricalKey:  "falls_major_injury_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupSafety,
	},
	{
		Label:          "Antipsychotic Medication Use",
		CurrentKey:     "antipsychotic_use_rate",
		HistoricalKey:  "antipsychotic_use_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupSafety,
	},
	{
		Label:          "UTI Rate",
		HistoricalKey:  "uti_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupOutcomes,
	},
	{
		Label:          "Ability to Move Independently Worsened",
		HistoricalKey:  "mobility_worsened_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupOutcomes,
	},
	{
		Label:          "Flu Vaccination Rate",
		CurrentKey:     "flu_vaccination_rate",
		HistoricalKey:  "flu_vaccination_rate",
		HigherIsBetter: true,
		Unit:           "%",
		Group:          entities.MetricGroupProcess,
	},
	{
		Label:          "Hospital Readmission Rate",
		HistoricalKey:  "readmission_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupUtilization,
	},
	{
		Label:          "Emergency Department Visit Rate",
		HistoricalKey:  "ed_visit_rate",
		HigherIsBetter: false,
		Unit:           "%",
		Group:          entities.MetricGroupUtilization,
	},
	{
		Label:          "Successful Discharge to Community",
		HistoricalKey:  "community_discharge_rate",
		HigherIsBetter: true,
		Unit:           "%",
		Group:          entities.MetricGroupUtilization,
	},
}

// mdsCodeToKey maps MDS quality measure codes to metric keys. Unmapped
// codes are ignored by the aggregator.
var mdsCodeToKey = map[string]string{
	"401": "mobility_worsened_rate",
	"403": "falls_major_injury_rate",
	"406": "uti_rate",
	"419": "antipsychotic_use_rate",
	"451": "flu_vaccination_rate",
	"453": "pressure_ulcer_rate",
}

// claimsCodeToKey maps claims-based measure codes to metric keys.
var claimsCodeToKey = map[string]string{
	"521": "readmission_rate",
	"522": "ed_visit_rate",
	"523": "community_discharge_rate",
}
