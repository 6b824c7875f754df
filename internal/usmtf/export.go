// Package usmtf renders an ATO as USMTF-like fixed-field text. Rendering never
// fails: absent values become the placeholder of the segment they appear in, and
// task units whose allotment cannot be resolved fall back to their own legacy
// fields.
package usmtf

import (
	"fmt"
	"io"
	"strings"

	"ato_builder/internal/models"
)

// Placeholders for absent values
const (
	PlaceholderNA   = "NA" // header, resources, support, spins, DECL, TASKUNIT
	PlaceholderDash = "-"  // task unit sub-segments and free text
)

// Section markers
const (
	SectionResources = "//RESOURCES"
	SectionTaskUnits = "//TASKUNITS"
	SectionSupport   = "//SUPPORT"
	SectionSpins     = "//SPINS"
)

const lineTerminator = "//"

// resolve returns value, or placeholder when value is blank
func resolve(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// resolveUpper is resolve with the value upper-cased
func resolveUpper(value, placeholder string) string {
	return resolve(strings.ToUpper(value), placeholder)
}

func line(keyword string, fields ...string) string {
	return keyword + "/" + strings.Join(fields, "/") + lineTerminator
}

func listLine(keyword string, fields ...string) string {
	return keyword + "/" + strings.Join(fields, ";") + lineTerminator
}

// Export renders ato as newline-joined segment lines
func Export(ato models.ATO) string {
	return strings.Join(Lines(ato), "\n")
}

// Write renders ato to w followed by a trailing newline
func Write(w io.Writer, ato models.ATO) error {
	if _, err := io.WriteString(w, Export(ato)+"\n"); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Lines returns the rendered segment lines in emission order
func Lines(ato models.ATO) []string {
	var lines []string
	lines = append(lines, headerLines(ato)...)

	if len(ato.Allotments) > 0 {
		lines = append(lines, SectionResources)
		for _, a := range ato.Allotments {
			lines = append(lines, resourceLine(a))
		}
	}

	if len(ato.TaskUnits) > 0 {
		lines = append(lines, SectionTaskUnits)
		for _, tu := range ato.TaskUnits {
			lines = append(lines, taskUnitLines(tu, ato)...)
		}
	}

	if len(ato.SupportControl) > 0 {
		lines = append(lines, SectionSupport)
		for _, s := range ato.SupportControl {
			lines = append(lines, listLine("CONTROLA",
				resolve(s.Role, PlaceholderNA),
				resolve(s.Unit, PlaceholderNA),
				"FREQ:"+resolve(s.Frequency, PlaceholderNA),
				"POC:"+resolve(s.Contact, PlaceholderNA),
				"NOTES:"+resolve(s.Notes, PlaceholderNA),
			))
		}
	}

	if len(ato.Spins) > 0 {
		lines = append(lines, SectionSpins)
		for _, s := range ato.Spins {
			lines = append(lines, line("NARR", resolve(s.Title, PlaceholderNA)+":"+resolve(s.Content, PlaceholderNA)))
		}
	}

	f := ato.Footer
	lines = append(lines, listLine("DECL",
		"AUTH:"+resolve(f.Authority, PlaceholderNA),
		"PREP:"+resolve(f.PreparedBy, PlaceholderNA),
		"REL:"+resolve(f.ReleaseInstructions, PlaceholderNA),
	))

	return lines
}

func headerLines(ato models.ATO) []string {
	h := ato.Header

	oper := h.OperationID
	if strings.TrimSpace(oper) == "" {
		oper = ato.Name
	}

	var msgid []string
	for _, part := range []string{h.MessageType, h.Originator, h.Serial, strings.ToUpper(h.Month), h.Qualifier} {
		if strings.TrimSpace(part) != "" {
			msgid = append(msgid, part)
		}
	}
	if len(msgid) == 0 {
		msgid = []string{PlaceholderNA}
	}

	return []string{
		line("OPER", resolve(oper, PlaceholderNA)),
		line("MSGID", msgid...),
		line("AKNLDG", resolveUpper(h.Acknowledgement, PlaceholderNA)),
		line("TIMEFRAM",
			"FROM:"+resolve(models.ExportDTG(h.TimeframeFrom), PlaceholderNA),
			"TO:"+resolve(models.ExportDTG(h.TimeframeTo), PlaceholderNA),
		),
		line("HEADING", resolveUpper(h.Heading, PlaceholderNA)),
	}
}

// resourceFragment is the UNIT/ICAO/count/ACTYP body shared by RESASSET lines
func resourceFragment(a models.Allotment) []string {
	return []string{
		"UNIT:" + resolve(a.UnitDesignator, PlaceholderNA),
		"ICAO:" + resolve(a.ICAOBase, PlaceholderNA),
		resolve(a.AssetCount, PlaceholderNA),
		"ACTYP:" + resolve(a.AircraftModel, PlaceholderNA),
	}
}

func resourceLine(a models.Allotment) string {
	return line("RESASSET", resourceFragment(a)...)
}

func taskUnitLines(tu models.TaskUnit, ato models.ATO) []string {
	allotment, linked := ato.AllotmentByID(tu.AllotmentID)

	unitName, icao, aircraftType := tu.UnitName, "", tu.AircraftType
	if linked {
		unitName, icao = allotment.UnitDesignator, allotment.ICAOBase
		if strings.TrimSpace(allotment.AircraftModel) != "" {
			aircraftType = allotment.AircraftModel
		}
	}

	m := tu.MissionData
	d := tu.AircraftData
	g := tu.TargetData
	c := tu.ControlData

	count := d.AircraftCount
	if strings.TrimSpace(count) == "" && linked {
		count = allotment.AssetCount
	}

	msnacft := []string{
		resolve(count, PlaceholderDash),
		resolve(d.CallSign, PlaceholderDash),
		resolve(aircraftType, PlaceholderDash),
		resolve(d.PrimaryConfiguration, PlaceholderDash),
		resolve(d.SecondaryConfiguration, PlaceholderDash),
	}
	for i, mode := range d.IFFModes() {
		msnacft = append(msnacft, iffField(i+1, mode))
	}

	return []string{
		line("TASKUNIT", resolve(unitName, PlaceholderNA), "ICAO:"+resolve(icao, PlaceholderNA)),
		line("AMSNDAT",
			resolve(m.MissionNumber, PlaceholderDash),
			resolve(m.AMCMissionNumber, PlaceholderDash),
			resolve(m.PackageID, PlaceholderDash),
			resolve(m.MissionCommander, PlaceholderDash),
			resolve(m.PrimaryMissionType, PlaceholderDash),
			resolve(m.SecondaryMissionType, PlaceholderDash),
			resolve(m.AlertStatus, PlaceholderDash),
			"DEPLOC:"+resolveUpper(m.DepartureLocation, PlaceholderDash),
			"ARRLOC:"+resolveUpper(m.RecoveryLocation, PlaceholderDash),
		),
		line("MSNACFT", msnacft...),
		line("GTGTLOC",
			resolve(g.Designator, PlaceholderDash),
			resolve(g.DayTimeMonthTasked, PlaceholderDash),
			"NET:"+resolveUpper(g.NotEarlierThan, PlaceholderDash),
			"NLT:"+resolveUpper(g.NotLaterThan, PlaceholderDash),
			resolve(g.TargetFacilityName, PlaceholderDash),
			resolve(g.TargetIdentifier, PlaceholderDash),
			resolve(g.TargetType, PlaceholderDash),
			resolve(g.DMPIDescription, PlaceholderDash),
			resolve(g.DMPILatLong, PlaceholderDash),
			resolve(g.DMPIDatum, PlaceholderDash),
			resolve(g.DMPIElevation, PlaceholderDash),
			resolve(g.ComponentTargetID, PlaceholderDash),
		),
		line("CONTROLA",
			resolve(c.AgencyType, PlaceholderDash),
			resolve(c.CallSign, PlaceholderDash),
			"PFREQ:"+resolve(c.PrimaryFrequency, PlaceholderDash),
			"SFREQ:"+resolve(c.SecondaryFrequency, PlaceholderDash),
			"NAME:"+resolve(c.ReportInPoint, PlaceholderDash),
		),
		line("AMPN", resolve(tu.Amplification, PlaceholderDash)),
		line("NARR", resolve(tu.Narrative, PlaceholderDash)),
	}
}

// iffField renders an IFF mode as the mode number followed by its code
func iffField(mode int, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return PlaceholderDash
	}
	return fmt.Sprintf("%d%s", mode, code)
}
