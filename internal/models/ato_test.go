package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleATO() ATO {
	ato := NewATO("OP1")
	ato.Header.OperationID = "OP1"
	ato.Header.Originator = "AOC"
	ato.Header.Serial = "001"
	allotment := NewAllotment("31FW", "LIPA", "4", "F16C")
	ato.Allotments = []Allotment{allotment}
	ato.TaskUnits = []TaskUnit{{
		AllotmentID: allotment.ID,
		MissionData: AircraftMissionData{MissionNumber: "1001", PrimaryMissionType: "CAS"},
	}}
	ato.Spins = []SpinInstruction{{Title: "ROE", Content: "WEAPONS TIGHT"}}
	return ato
}

func TestNewATO(t *testing.T) {
	ato := NewATO("Exercise")

	assert.NotEmpty(t, ato.ID)
	assert.Equal(t, "Exercise", ato.Name)
	assert.Equal(t, "ATO", ato.Header.MessageType)
	assert.Equal(t, "JAN", ato.Header.Month)
	assert.Equal(t, "NO", ato.Header.Acknowledgement)
	assert.Equal(t, "TASKING", ato.Header.Heading)
	assert.Empty(t, ato.Allotments)
	assert.Empty(t, ato.TaskUnits)
}

func TestNewATO_UniqueIdentity(t *testing.T) {
	assert.NotEqual(t, NewATO("a").ID, NewATO("a").ID)
	assert.NotEqual(t, NewAllotment("", "", "", "").ID, NewAllotment("", "", "", "").ID)
}

func TestATO_Duplicate(t *testing.T) {
	original := sampleATO()

	dup := original.Duplicate()

	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, "OP1 (Copy)", dup.Name)
	assert.Equal(t, original.Header, dup.Header)
	assert.Equal(t, original.Allotments, dup.Allotments)
	assert.Equal(t, original.TaskUnits, dup.TaskUnits)
	assert.Equal(t, original.Spins, dup.Spins)
	assert.Equal(t, original.Allotments[0].ID, dup.TaskUnits[0].AllotmentID)
}

func TestATO_CloneSharesNoSlices(t *testing.T) {
	original := sampleATO()

	clone := original.Clone()
	clone.Allotments[0].UnitDesignator = "CHANGED"
	clone.TaskUnits[0].MissionData.MissionNumber = "9999"

	assert.Equal(t, original.ID, clone.ID)
	assert.Equal(t, "31FW", original.Allotments[0].UnitDesignator)
	assert.Equal(t, "1001", original.TaskUnits[0].MissionData.MissionNumber)
}

func TestATO_AllotmentByID(t *testing.T) {
	ato := sampleATO()

	found, ok := ato.AllotmentByID(ato.Allotments[0].ID)
	require.True(t, ok)
	assert.Equal(t, "LIPA", found.ICAOBase)

	_, ok = ato.AllotmentByID("missing")
	assert.False(t, ok)

	_, ok = ato.AllotmentByID("")
	assert.False(t, ok)
}

func TestATO_ToMap(t *testing.T) {
	ato := sampleATO()

	m := ato.ToMap()

	assert.Equal(t, SchemaVersion, m[SchemaVersionKey])
	assert.Equal(t, ato.ID, m["id"])
	header := m["header"].(map[string]any)
	assert.Equal(t, "AOC", header["msg_originator"])

	allotments := m["allotments"].([]any)
	require.Len(t, allotments, 1)
	assert.Equal(t, "4", allotments[0].(map[string]any)["asset_count"])

	units := m["task_units"].([]any)
	require.Len(t, units, 1)
	amsndat := units[0].(map[string]any)["aircraft_mission_data"].(map[string]any)
	assert.Equal(t, "CAS", amsndat["primary_mission_type"])

	// every list key is present even when empty
	assert.Equal(t, []any{}, m["support_control"])
}

func TestIsMonthCode(t *testing.T) {
	assert.True(t, IsMonthCode("JAN"))
	assert.True(t, IsMonthCode("dec"))
	assert.False(t, IsMonthCode("XYZ"))
	assert.False(t, IsMonthCode(""))
}

func TestMissionTypes(t *testing.T) {
	codes := MissionTypes()

	assert.Greater(t, len(codes), 180)
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.Regexp(t, `^[A-Z]{3,5}$`, code)
		assert.False(t, seen[code], "duplicate mission type %s", code)
		seen[code] = true
		assert.True(t, IsMissionType(code))
	}
	assert.False(t, IsMissionType("cas"))
	assert.False(t, IsMissionType("NOPE"))
}
