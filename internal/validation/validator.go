// Package validation checks a materialized ATO against the doctrinal rules and
// reports every failure in document order. It never stops at the first failure
// and never returns an error: malformed input is reported, not raised.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ato_builder/internal/models"
)

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

const (
	dtgFormat      = "DDHHMMZMMMYYYY"
	shortDTGFormat = "DDHHMMZMMM"
)

// Validator runs the rule set. The clock supplies the year assumed when parsing
// short DTG values.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator using the given clock
func NewValidator(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate runs the rule set with the wall clock
func Validate(ato models.ATO) Violations {
	return NewValidator(time.Now).Validate(ato)
}

// checker accumulates violations for a single run
type checker struct {
	out  Violations
	year int
}

func (c *checker) add(path string, rule Rule, detail string) {
	c.out = append(c.out, Violation{Path: path, Rule: rule, Detail: detail})
}

// required reports a blank value and returns whether the value is present
func (c *checker) required(path, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.add(path, RuleRequired, "")
		return false
	}
	return true
}

func (c *checker) upperCase(path, value string) {
	if value != strings.ToUpper(value) {
		c.add(path, RuleNotUpperCase, value)
	}
}

func (c *checker) numeric(path, value string) {
	if !digitsPattern.MatchString(strings.TrimSpace(value)) {
		c.add(path, RuleNotNumeric, value)
	}
}

func (c *checker) oneOf(path, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.add(path, RuleInvalidValue, strings.Join(allowed, ", "))
}

// Validate returns every violation in document order: name, header fields,
// header enumerations, header DTGs, allotments, task units.
func (v *Validator) Validate(ato models.ATO) Violations {
	c := &checker{year: v.now().Year()}

	c.required("name", ato.Name)
	v.header(c, ato.Header)

	for i, allotment := range ato.Allotments {
		v.allotment(c, fmt.Sprintf("allotments[%d]", i), allotment)
	}
	for i, unit := range ato.TaskUnits {
		v.taskUnit(c, fmt.Sprintf("task_units[%d]", i), unit, ato)
	}

	return c.out
}

func (v *Validator) header(c *checker, h models.Header) {
	c.required("header.operation_identification_data", h.OperationID)
	c.required("header.msg_text_format_identifier", h.MessageType)
	c.required("header.msg_originator", h.Originator)
	c.required("header.msg_serial", h.Serial)

	if !models.IsMonthCode(h.Month) {
		c.add("header.msg_month", RuleInvalidValue, strings.Join(models.MonthCodes, ", "))
	}
	c.oneOf("header.acknowledgement_required", h.Acknowledgement, models.AcknowledgementYes, models.AcknowledgementNo)

	for _, field := range []struct {
		path  string
		value string
	}{
		{"header.timeframe_from", h.TimeframeFrom},
		{"header.timeframe_to", h.TimeframeTo},
	} {
		if !c.required(field.path, field.value) {
			continue
		}
		if _, err := models.ParseDTG(field.value); err != nil {
			c.add(field.path, RuleFormat, dtgFormat)
		}
	}
}

func (v *Validator) allotment(c *checker, path string, a models.Allotment) {
	c.required(path+".unit_designator", a.UnitDesignator)
	if c.required(path+".icao_base", a.ICAOBase) {
		c.upperCase(path+".icao_base", a.ICAOBase)
	}
	if c.required(path+".asset_count", a.AssetCount) {
		c.numeric(path+".asset_count", a.AssetCount)
	}
	c.required(path+".aircraft_model", a.AircraftModel)
}

func (v *Validator) taskUnit(c *checker, path string, tu models.TaskUnit, ato models.ATO) {
	if c.required(path+".allotment_id", tu.AllotmentID) {
		if _, ok := ato.AllotmentByID(tu.AllotmentID); !ok {
			c.add(path+".allotment_id", RuleUnresolvedReference, tu.AllotmentID)
		}
	}

	amsndat := path + ".aircraft_mission_data"
	m := tu.MissionData
	c.required(amsndat+".mission_number", m.MissionNumber)
	if c.required(amsndat+".primary_mission_type", m.PrimaryMissionType) && !models.IsMissionType(m.PrimaryMissionType) {
		c.add(amsndat+".primary_mission_type", RuleUnknownCode, m.PrimaryMissionType)
	}
	if strings.TrimSpace(m.SecondaryMissionType) != "" && !models.IsMissionType(m.SecondaryMissionType) {
		c.add(amsndat+".secondary_mission_type", RuleUnknownCode, m.SecondaryMissionType)
	}
	if c.required(amsndat+".departure_location", m.DepartureLocation) {
		c.upperCase(amsndat+".departure_location", m.DepartureLocation)
	}
	if c.required(amsndat+".recovery_location", m.RecoveryLocation) {
		c.upperCase(amsndat+".recovery_location", m.RecoveryLocation)
	}

	msnacft := path + ".individual_aircraft_mission_data"
	d := tu.AircraftData
	if c.required(msnacft+".aircraft_count", d.AircraftCount) {
		c.numeric(msnacft+".aircraft_count", d.AircraftCount)
	}
	c.required(msnacft+".aircraft_call_sign", d.CallSign)
	for i, mode := range d.IFFModes() {
		if mode != "" {
			c.numeric(fmt.Sprintf("%s.iff_mode_%d", msnacft, i+1), mode)
		}
	}

	gtgtloc := path + ".ground_target_location"
	g := tu.TargetData
	if c.required(gtgtloc+".designator", g.Designator) {
		c.oneOf(gtgtloc+".designator", g.Designator, models.DesignatorPrimary, models.DesignatorSecondary)
	}
	for _, field := range []struct {
		path  string
		value string
	}{
		{gtgtloc + ".not_earlier_than", g.NotEarlierThan},
		{gtgtloc + ".not_later_than", g.NotLaterThan},
	} {
		if !c.required(field.path, field.value) {
			continue
		}
		if _, err := models.ParseShortDTG(field.value, c.year); err != nil {
			c.add(field.path, RuleFormat, shortDTGFormat)
		}
	}

	controla := path + ".control_of_air_assets"
	ctl := tu.ControlData
	if c.required(controla+".agency_type", ctl.AgencyType) {
		c.oneOf(controla+".agency_type", ctl.AgencyType, models.AgencyCRC, models.AgencyAEW)
	}
	c.required(controla+".call_sign", ctl.CallSign)
}
