package validation

import (
	"testing"
	"time"

	"ato_builder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func validTaskUnit(allotmentID string) models.TaskUnit {
	return models.TaskUnit{
		AllotmentID: allotmentID,
		MissionData: models.AircraftMissionData{
			MissionNumber:        "1001",
			PrimaryMissionType:   "CAS",
			SecondaryMissionType: "SEAD",
			DepartureLocation:    "LIPA",
			RecoveryLocation:     "LIPA",
		},
		AircraftData: models.IndividualAircraftMissionData{
			AircraftCount: "2",
			CallSign:      "VIPER01",
			IFFMode3:      "4521",
		},
		TargetData: models.GroundTargetLocation{
			Designator:     "P",
			NotEarlierThan: "060600ZMAR",
			NotLaterThan:   "060800ZMAR",
		},
		ControlData: models.ControlOfAirAssets{
			AgencyType: "CRC",
			CallSign:   "MAGIC",
		},
	}
}

func validATO() models.ATO {
	ato := models.NewATO("OP1")
	ato.Header.OperationID = "OP1"
	ato.Header.Originator = "AOC"
	ato.Header.Serial = "001"
	ato.Header.TimeframeFrom = "060600ZMAR2026"
	ato.Header.TimeframeTo = "070559ZMAR2026"
	allotment := models.NewAllotment("31FW", "LIPA", "4", "F16C")
	ato.Allotments = []models.Allotment{allotment}
	ato.TaskUnits = []models.TaskUnit{validTaskUnit(allotment.ID)}
	return ato
}

func validate(ato models.ATO) Violations {
	return NewValidator(fixedClock).Validate(ato)
}

func paths(vs Violations) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Path)
	}
	return out
}

func TestValidate_ValidDocument(t *testing.T) {
	vs := validate(validATO())

	assert.True(t, vs.Valid(), "unexpected violations: %v", vs)
}

func TestValidate_ZeroDocumentOrder(t *testing.T) {
	vs := validate(models.ATO{})

	assert.Equal(t, []string{
		"name",
		"header.operation_identification_data",
		"header.msg_text_format_identifier",
		"header.msg_originator",
		"header.msg_serial",
		"header.msg_month",
		"header.acknowledgement_required",
		"header.timeframe_from",
		"header.timeframe_to",
	}, paths(vs))
	assert.Equal(t, RuleRequired, vs[0].Rule)
	assert.Equal(t, RuleInvalidValue, vs[5].Rule)
	assert.Equal(t, RuleRequired, vs[7].Rule)
}

func TestValidate_HeaderEnumerations(t *testing.T) {
	ato := validATO()
	ato.Header.Month = "XYZ"
	ato.Header.Acknowledgement = "MAYBE"

	vs := validate(ato)

	require.Len(t, vs, 2)
	assert.Equal(t, Violation{Path: "header.msg_month", Rule: RuleInvalidValue, Detail: "JAN, FEB, MAR, APR, MAY, JUN, JUL, AUG, SEP, OCT, NOV, DEC"}, vs[0])
	assert.Equal(t, Violation{Path: "header.acknowledgement_required", Rule: RuleInvalidValue, Detail: "YES, NO"}, vs[1])
}

func TestValidate_MonthIsCaseInsensitive(t *testing.T) {
	ato := validATO()
	ato.Header.Month = "mar"

	assert.Empty(t, validate(ato).Under("header.msg_month"))
}

func TestValidate_HeaderDTGMissingVersusMalformed(t *testing.T) {
	ato := validATO()
	ato.Header.TimeframeFrom = ""
	ato.Header.TimeframeTo = "2026-03-06T06:00"

	vs := validate(ato)

	require.Len(t, vs, 2)
	assert.Equal(t, Violation{Path: "header.timeframe_from", Rule: RuleRequired}, vs[0])
	assert.Equal(t, Violation{Path: "header.timeframe_to", Rule: RuleFormat, Detail: "DDHHMMZMMMYYYY"}, vs[1])
}

func TestValidate_WellFormedAllotmentHasNoViolations(t *testing.T) {
	ato := models.NewATO("OP1")
	ato.Allotments = []models.Allotment{models.NewAllotment("31FW", "LIPA", "4", "F16C")}

	vs := validate(ato)

	assert.Empty(t, vs.Under("allotments"))
	assert.Empty(t, vs.Under("task_units"))
}

func TestValidate_Allotment(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.Allotment)
		want   Violations
	}{
		{
			name:   "blank unit",
			modify: func(a *models.Allotment) { a.UnitDesignator = " " },
			want:   Violations{{Path: "allotments[0].unit_designator", Rule: RuleRequired}},
		},
		{
			name:   "lower case icao",
			modify: func(a *models.Allotment) { a.ICAOBase = "lipa" },
			want:   Violations{{Path: "allotments[0].icao_base", Rule: RuleNotUpperCase, Detail: "lipa"}},
		},
		{
			name:   "blank icao",
			modify: func(a *models.Allotment) { a.ICAOBase = "" },
			want:   Violations{{Path: "allotments[0].icao_base", Rule: RuleRequired}},
		},
		{
			name:   "non numeric count",
			modify: func(a *models.Allotment) { a.AssetCount = "four" },
			want:   Violations{{Path: "allotments[0].asset_count", Rule: RuleNotNumeric, Detail: "four"}},
		},
		{
			name:   "negative count",
			modify: func(a *models.Allotment) { a.AssetCount = "-1" },
			want:   Violations{{Path: "allotments[0].asset_count", Rule: RuleNotNumeric, Detail: "-1"}},
		},
		{
			name:   "blank model",
			modify: func(a *models.Allotment) { a.AircraftModel = "" },
			want:   Violations{{Path: "allotments[0].aircraft_model", Rule: RuleRequired}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ato := validATO()
			tt.modify(&ato.Allotments[0])

			assert.Equal(t, tt.want, validate(ato))
		})
	}
}

func TestValidate_UnresolvedReference(t *testing.T) {
	ato := validATO()
	ato.TaskUnits[0].AllotmentID = "does-not-exist"

	vs := validate(ato)

	require.Len(t, vs, 1)
	assert.Equal(t, Violation{Path: "task_units[0].allotment_id", Rule: RuleUnresolvedReference, Detail: "does-not-exist"}, vs[0])
}

func TestValidate_MissingReference(t *testing.T) {
	ato := validATO()
	ato.TaskUnits[0].AllotmentID = ""

	vs := validate(ato)

	require.Len(t, vs, 1)
	assert.Equal(t, Violation{Path: "task_units[0].allotment_id", Rule: RuleRequired}, vs[0])
}

func TestValidate_TaskUnit(t *testing.T) {
	const p = "task_units[0]"
	tests := []struct {
		name   string
		modify func(*models.TaskUnit)
		want   Violations
	}{
		{
			name:   "mission number",
			modify: func(tu *models.TaskUnit) { tu.MissionData.MissionNumber = "" },
			want:   Violations{{Path: p + ".aircraft_mission_data.mission_number", Rule: RuleRequired}},
		},
		{
			name:   "primary mission type missing",
			modify: func(tu *models.TaskUnit) { tu.MissionData.PrimaryMissionType = "" },
			want:   Violations{{Path: p + ".aircraft_mission_data.primary_mission_type", Rule: RuleRequired}},
		},
		{
			name:   "primary mission type unknown",
			modify: func(tu *models.TaskUnit) { tu.MissionData.PrimaryMissionType = "PICNIC" },
			want:   Violations{{Path: p + ".aircraft_mission_data.primary_mission_type", Rule: RuleUnknownCode, Detail: "PICNIC"}},
		},
		{
			name:   "secondary mission type blank is fine",
			modify: func(tu *models.TaskUnit) { tu.MissionData.SecondaryMissionType = "" },
			want:   nil,
		},
		{
			name:   "secondary mission type whitespace is blank",
			modify: func(tu *models.TaskUnit) { tu.MissionData.SecondaryMissionType = "   " },
			want:   nil,
		},
		{
			name:   "secondary mission type unknown",
			modify: func(tu *models.TaskUnit) { tu.MissionData.SecondaryMissionType = "XX" },
			want:   Violations{{Path: p + ".aircraft_mission_data.secondary_mission_type", Rule: RuleUnknownCode, Detail: "XX"}},
		},
		{
			name:   "departure lower case",
			modify: func(tu *models.TaskUnit) { tu.MissionData.DepartureLocation = "lipa" },
			want:   Violations{{Path: p + ".aircraft_mission_data.departure_location", Rule: RuleNotUpperCase, Detail: "lipa"}},
		},
		{
			name:   "recovery missing",
			modify: func(tu *models.TaskUnit) { tu.MissionData.RecoveryLocation = "" },
			want:   Violations{{Path: p + ".aircraft_mission_data.recovery_location", Rule: RuleRequired}},
		},
		{
			name:   "aircraft count not numeric",
			modify: func(tu *models.TaskUnit) { tu.AircraftData.AircraftCount = "2x" },
			want:   Violations{{Path: p + ".individual_aircraft_mission_data.aircraft_count", Rule: RuleNotNumeric, Detail: "2x"}},
		},
		{
			name:   "call sign missing",
			modify: func(tu *models.TaskUnit) { tu.AircraftData.CallSign = "" },
			want:   Violations{{Path: p + ".individual_aircraft_mission_data.aircraft_call_sign", Rule: RuleRequired}},
		},
		{
			name: "iff modes not numeric",
			modify: func(tu *models.TaskUnit) {
				tu.AircraftData.IFFMode1 = "A1"
				tu.AircraftData.IFFMode3 = "45B1"
			},
			want: Violations{
				{Path: p + ".individual_aircraft_mission_data.iff_mode_1", Rule: RuleNotNumeric, Detail: "A1"},
				{Path: p + ".individual_aircraft_mission_data.iff_mode_3", Rule: RuleNotNumeric, Detail: "45B1"},
			},
		},
		{
			name:   "designator invalid",
			modify: func(tu *models.TaskUnit) { tu.TargetData.Designator = "X" },
			want:   Violations{{Path: p + ".ground_target_location.designator", Rule: RuleInvalidValue, Detail: "P, S"}},
		},
		{
			name:   "designator missing",
			modify: func(tu *models.TaskUnit) { tu.TargetData.Designator = "" },
			want:   Violations{{Path: p + ".ground_target_location.designator", Rule: RuleRequired}},
		},
		{
			name: "net missing and nlt malformed",
			modify: func(tu *models.TaskUnit) {
				tu.TargetData.NotEarlierThan = ""
				tu.TargetData.NotLaterThan = "060800ZMAR2026"
			},
			want: Violations{
				{Path: p + ".ground_target_location.not_earlier_than", Rule: RuleRequired},
				{Path: p + ".ground_target_location.not_later_than", Rule: RuleFormat, Detail: "DDHHMMZMMM"},
			},
		},
		{
			name:   "agency type invalid",
			modify: func(tu *models.TaskUnit) { tu.ControlData.AgencyType = "crc" },
			want:   Violations{{Path: p + ".control_of_air_assets.agency_type", Rule: RuleInvalidValue, Detail: "CRC, AEW"}},
		},
		{
			name:   "control call sign missing",
			modify: func(tu *models.TaskUnit) { tu.ControlData.CallSign = "" },
			want:   Violations{{Path: p + ".control_of_air_assets.call_sign", Rule: RuleRequired}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ato := validATO()
			tt.modify(&ato.TaskUnits[0])

			assert.Equal(t, tt.want, validate(ato))
		})
	}
}

func TestValidate_ShortDTGUsesCurrentYear(t *testing.T) {
	ato := validATO()
	// 2026 is not a leap year
	ato.TaskUnits[0].TargetData.NotEarlierThan = "290600ZFEB"

	vs := validate(ato)

	require.Len(t, vs, 1)
	assert.Equal(t, RuleFormat, vs[0].Rule)

	leap := NewValidator(func() time.Time { return time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC) }).Validate(ato)
	assert.Empty(t, leap)
}

func TestValidate_ReportsEverythingInDocumentOrder(t *testing.T) {
	ato := validATO()
	ato.Name = ""
	ato.Header.Serial = ""
	ato.Header.TimeframeTo = "bad"
	ato.Allotments = append(ato.Allotments, models.Allotment{ID: "a2", UnitDesignator: "X", ICAOBase: "kxxx", AssetCount: "1", AircraftModel: "C17"})
	ato.TaskUnits = append(ato.TaskUnits, validTaskUnit("nope"))
	ato.TaskUnits[0].AircraftData.CallSign = ""

	vs := validate(ato)

	assert.Equal(t, []string{
		"name",
		"header.msg_serial",
		"header.timeframe_to",
		"allotments[1].icao_base",
		"task_units[0].individual_aircraft_mission_data.aircraft_call_sign",
		"task_units[1].allotment_id",
	}, paths(vs))
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	ato := validATO()
	ato.Allotments[0].ICAOBase = "lipa"
	before := ato.Clone()

	validate(ato)

	assert.Equal(t, before, ato)
}
