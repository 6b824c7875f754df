package models

import (
	"github.com/google/uuid"
)

// DuplicateSuffix is appended to the name of a duplicated ATO
const DuplicateSuffix = " (Copy)"

// Header holds the message identification lines of an ATO
type Header struct {
	OperationID     string `mapstructure:"operation_identification_data"` // OPER
	MessageType     string `mapstructure:"msg_text_format_identifier"`    // MSGID text format identifier
	Originator      string `mapstructure:"msg_originator"`                // MSGID originator
	Serial          string `mapstructure:"msg_serial"`                    // MSGID message serial
	Month           string `mapstructure:"msg_month"`                     // MSGID month (JAN..DEC)
	Qualifier       string `mapstructure:"msg_qualifier"`                 // MSGID qualifier
	Acknowledgement string `mapstructure:"acknowledgement_required"`      // AKNLDG (YES/NO)
	TimeframeFrom   string `mapstructure:"timeframe_from"`                // DTG DDHHMMZMMMYYYY
	TimeframeTo     string `mapstructure:"timeframe_to"`                  // DTG DDHHMMZMMMYYYY
	Heading         string `mapstructure:"heading"`                       // HEADING label
}

// Allotment is a resource declared as available for tasking
type Allotment struct {
	ID             string `mapstructure:"id"`              // Stable identity, never reused
	UnitDesignator string `mapstructure:"unit_designator"` // Owning unit
	ICAOBase       string `mapstructure:"icao_base"`       // Four letter ICAO base code
	AssetCount     string `mapstructure:"asset_count"`     // Non-negative integer as text
	AircraftModel  string `mapstructure:"aircraft_model"`  // Aircraft type/model designator
}

// AircraftMissionData is the AMSNDAT segment of a task unit
type AircraftMissionData struct {
	MissionNumber        string `mapstructure:"mission_number"`
	AMCMissionNumber     string `mapstructure:"amc_mission_number"`
	PackageID            string `mapstructure:"package_id"`
	MissionCommander     string `mapstructure:"mission_commander"`
	PrimaryMissionType   string `mapstructure:"primary_mission_type"`
	SecondaryMissionType string `mapstructure:"secondary_mission_type"`
	AlertStatus          string `mapstructure:"alert_status"`
	DepartureLocation    string `mapstructure:"departure_location"` // ICAO
	RecoveryLocation     string `mapstructure:"recovery_location"`  // ICAO
}

// IndividualAircraftMissionData is the MSNACFT segment of a task unit
type IndividualAircraftMissionData struct {
	AircraftCount          string `mapstructure:"aircraft_count"`
	CallSign               string `mapstructure:"aircraft_call_sign"`
	PrimaryConfiguration   string `mapstructure:"primary_configuration"`
	SecondaryConfiguration string `mapstructure:"secondary_configuration"`
	IFFMode1               string `mapstructure:"iff_mode_1"`
	IFFMode2               string `mapstructure:"iff_mode_2"`
	IFFMode3               string `mapstructure:"iff_mode_3"`
}

// IFFModes returns the three IFF/SIF mode values in mode order
func (d IndividualAircraftMissionData) IFFModes() [3]string {
	return [3]string{d.IFFMode1, d.IFFMode2, d.IFFMode3}
}

// GroundTargetLocation is the GTGTLOC segment of a task unit
type GroundTargetLocation struct {
	Designator         string `mapstructure:"designator"` // P (primary) or S (secondary)
	DayTimeMonthTasked string `mapstructure:"day_time_month_tasked"`
	NotEarlierThan     string `mapstructure:"not_earlier_than"` // DDHHMMZMMM
	NotLaterThan       string `mapstructure:"not_later_than"`   // DDHHMMZMMM
	TargetFacilityName string `mapstructure:"target_facility_name"`
	TargetIdentifier   string `mapstructure:"target_identifier"`
	TargetType         string `mapstructure:"target_type"`
	DMPIDescription    string `mapstructure:"dmpi_description"`
	DMPILatLong        string `mapstructure:"dmpi_lat_long"`
	DMPIDatum          string `mapstructure:"dmpi_datum"`
	DMPIElevation      string `mapstructure:"dmpi_elevation"`
	ComponentTargetID  string `mapstructure:"component_target_id"`
}

// ControlOfAirAssets is the CONTROLA segment of a task unit
type ControlOfAirAssets struct {
	AgencyType         string `mapstructure:"agency_type"` // CRC or AEW
	CallSign           string `mapstructure:"call_sign"`
	PrimaryFrequency   string `mapstructure:"primary_frequency"`
	SecondaryFrequency string `mapstructure:"secondary_frequency"`
	ReportInPoint      string `mapstructure:"report_in_point"`
}

// TaskUnit is a tasking assignment linked to one Allotment by identity
type TaskUnit struct {
	AllotmentID   string                        `mapstructure:"allotment_id"`
	MissionData   AircraftMissionData           `mapstructure:"aircraft_mission_data"`
	AircraftData  IndividualAircraftMissionData `mapstructure:"individual_aircraft_mission_data"`
	TargetData    GroundTargetLocation          `mapstructure:"ground_target_location"`
	ControlData   ControlOfAirAssets            `mapstructure:"control_of_air_assets"`
	Amplification string                        `mapstructure:"amplification"` // AMPN
	Narrative     string                        `mapstructure:"narrative"`     // NARR

	// Legacy display fields, used only when AllotmentID cannot be resolved
	UnitName     string `mapstructure:"unit_name"`
	AircraftType string `mapstructure:"aircraft_type"`
}

// SupportControlEntry is a flat support/control agency record
type SupportControlEntry struct {
	Role      string `mapstructure:"role"`
	Unit      string `mapstructure:"unit"`
	Frequency string `mapstructure:"frequency"`
	Contact   string `mapstructure:"contact"`
	Notes     string `mapstructure:"notes"`
}

// SpinInstruction is a free-text special instruction
type SpinInstruction struct {
	Title   string `mapstructure:"title"`
	Content string `mapstructure:"content"`
}

// Footer holds the declassification and release block
type Footer struct {
	Classification      string `mapstructure:"classification"`
	Authority           string `mapstructure:"authority"`
	PreparedBy          string `mapstructure:"prepared_by"`
	ReleaseInstructions string `mapstructure:"release_instructions"`
}

// ATO is the aggregate root of an Air Tasking Order.
//
// ATO values are treated as immutable: every method returns a new value and the
// slices of the receiver are never written to.
type ATO struct {
	ID             string                `mapstructure:"id"`
	Name           string                `mapstructure:"name"`
	Header         Header                `mapstructure:"header"`
	Allotments     []Allotment           `mapstructure:"allotments"`
	TaskUnits      []TaskUnit            `mapstructure:"task_units"`
	SupportControl []SupportControlEntry `mapstructure:"support_control"`
	Spins          []SpinInstruction     `mapstructure:"spins"`
	Footer         Footer                `mapstructure:"footer"`
}

// NewID returns a fresh opaque identity
func NewID() string {
	return uuid.NewString()
}

// NewHeader returns a header populated with its defaults
func NewHeader() Header {
	return Header{
		MessageType:     DefaultMessageType,
		Month:           DefaultMonth,
		Acknowledgement: AcknowledgementNo,
		Heading:         DefaultHeading,
	}
}

// NewATO creates an empty ATO with a fresh identity
func NewATO(name string) ATO {
	return ATO{
		ID:     NewID(),
		Name:   name,
		Header: NewHeader(),
	}
}

// NewAllotment creates an allotment with a fresh identity
func NewAllotment(unit, icao, count, model string) Allotment {
	return Allotment{
		ID:             NewID(),
		UnitDesignator: unit,
		ICAOBase:       icao,
		AssetCount:     count,
		AircraftModel:  model,
	}
}

// Clone returns a deep copy that shares no slices with a
func (a ATO) Clone() ATO {
	out := a
	out.Allotments = cloneSlice(a.Allotments)
	out.TaskUnits = cloneSlice(a.TaskUnits)
	out.SupportControl = cloneSlice(a.SupportControl)
	out.Spins = cloneSlice(a.Spins)
	return out
}

// Duplicate returns a deep copy with a new root identity and a suffixed name.
// Nested identities are preserved so task unit references stay valid.
func (a ATO) Duplicate() ATO {
	out := a.Clone()
	out.ID = NewID()
	out.Name = a.Name + DuplicateSuffix
	return out
}

// AllotmentByID resolves a task unit reference
func (a ATO) AllotmentByID(id string) (Allotment, bool) {
	if id == "" {
		return Allotment{}, false
	}
	for _, allotment := range a.Allotments {
		if allotment.ID == id {
			return allotment, true
		}
	}
	return Allotment{}, false
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
