package migration

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps_Order(t *testing.T) {
	chain := Steps()

	require.Len(t, chain, 3)
	for i, step := range chain {
		assert.Equal(t, i+1, step.From, step.Name)
		assert.Equal(t, i+2, step.To, step.Name)
	}
	assert.Equal(t, VersionCurrent, chain[len(chain)-1].To)
}

func TestSteps_NoOpOnCurrentLayout(t *testing.T) {
	canonical := fullATO().ToMap()

	for _, step := range Steps() {
		t.Run(step.Name, func(t *testing.T) {
			out := step.Apply(canonical)
			if diff := cmp.Diff(canonical, out); diff != "" {
				t.Errorf("step changed a current record (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSteps_DoNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"header": map[string]any{"operation_name": "DESERT", "effective_time_utc": "2002-03-06T06:00:00"},
		"allotments": []any{
			map[string]any{"resource_name": "31FW", "icao": "LIPA", "actyp": "F16"},
		},
		"task_units": []any{
			map[string]any{
				"callsign": "VIPER01",
				"amsndat":  map[string]any{"msn_number": "1"},
			},
		},
	}
	before := cloneMap(raw)

	for _, step := range Steps() {
		step.Apply(raw)
	}

	if diff := cmp.Diff(before, raw); diff != "" {
		t.Errorf("step mutated its input (-before +after):\n%s", diff)
	}
}

func TestLiftFlatHeader(t *testing.T) {
	out := liftFlatHeader(map[string]any{
		"header": map[string]any{
			"operation_name":     "DESERT",
			"title":              "ATO",
			"originating_unit":   "CAOC",
			"effective_time_utc": "2002-03-06T06:00:00",
			"expiry_time_utc":    "not a time",
		},
		"allotments": []any{
			map[string]any{"resource_name": "31FW", "quantity": "4", "mission": "CAS", "remarks": "r"},
		},
	})

	want := map[string]any{
		"header": map[string]any{
			"operation_identification_data": "DESERT",
			"msg_text_format_identifier":    "ATO",
			"msg_originator":                "CAOC",
			"timeframe_from":                "060600ZMAR2002",
			"timeframe_to":                  "not a time",
		},
		"allotments": []any{
			map[string]any{"unit": "31FW", "quantity": "4"},
		},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("liftFlatHeader mismatch (-want +got):\n%s", diff)
	}
}

func TestNestTaskUnits(t *testing.T) {
	out := nestTaskUnits(map[string]any{
		"allotments": []any{
			map[string]any{"id": "a1", "unit": "31FW", "icao": "LIPA", "quantity": "2", "aircraft_type": "F16"},
		},
		"task_units": []any{
			map[string]any{
				"allotment_id":   "a1",
				"unit_name":      "31FW",
				"mission_type":   "CAS",
				"callsign":       "VIPER01",
				"iff_code":       "4521",
				"target":         "BRIDGE",
				"control_agency": "CRC",
				"remarks":        "NOTE",
				"tail_numbers":   "88-0401",
			},
		},
	})

	want := map[string]any{
		"allotments": []any{
			map[string]any{"id": "a1", "unit_designator": "31FW", "icao": "LIPA", "asset_count": "2", "actyp": "F16"},
		},
		"task_units": []any{
			map[string]any{
				"allotment_id":  "a1",
				"unit_name":     "31FW",
				"amsndat":       map[string]any{"primary_msn_type": "CAS"},
				"msnacft":       map[string]any{"callsign": "VIPER01", "mode3": "4521"},
				"gtgtloc":       map[string]any{"facility_name": "BRIDGE"},
				"controla":      map[string]any{"agency_type": "CRC"},
				"narrative":     "NOTE",
				"amplification": "TAIL:88-0401",
			},
		},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("nestTaskUnits mismatch (-want +got):\n%s", diff)
	}
}

func TestNestTaskUnits_KeepsExistingNarrative(t *testing.T) {
	out := nestTaskUnits(map[string]any{
		"task_units": []any{
			map[string]any{"remarks": "OLD", "narrative": "NEW"},
		},
	})

	tu := out["task_units"].([]any)[0].(map[string]any)
	assert.Equal(t, "NEW", tu["narrative"])
	assert.NotContains(t, tu, "remarks")
}

func TestExpandDoctrinalSegments(t *testing.T) {
	out := expandDoctrinalSegments(map[string]any{
		"allotments": []any{
			map[string]any{"id": "a1", "unit_designator": "31FW", "icao": "LIPA", "asset_count": "2", "actyp": "F16"},
		},
		"task_units": []any{
			map[string]any{
				"amsndat":  map[string]any{"msn_number": "1001", "deploc": "LIPA", "arrloc": "LIPA"},
				"msnacft":  map[string]any{"num_aircraft": "2", "mode1": "12"},
				"gtgtloc":  map[string]any{"net": "060600ZMAR", "dmpi_elev": "120FT"},
				"controla": map[string]any{"pfreq": "251.0", "report_in_point": "BULL"},
			},
		},
	})

	want := map[string]any{
		"allotments": []any{
			map[string]any{"id": "a1", "unit_designator": "31FW", "icao_base": "LIPA", "asset_count": "2", "aircraft_model": "F16"},
		},
		"task_units": []any{
			map[string]any{
				"aircraft_mission_data":            map[string]any{"mission_number": "1001", "departure_location": "LIPA", "recovery_location": "LIPA"},
				"individual_aircraft_mission_data": map[string]any{"aircraft_count": "2", "iff_mode_1": "12"},
				"ground_target_location":           map[string]any{"not_earlier_than": "060600ZMAR", "dmpi_elevation": "120FT"},
				"control_of_air_assets":            map[string]any{"primary_frequency": "251.0", "report_in_point": "BULL"},
			},
		},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("expandDoctrinalSegments mismatch (-want +got):\n%s", diff)
	}
}
