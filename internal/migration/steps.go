package migration

import (
	"strings"

	"ato_builder/internal/models"
)

// Step migrates a record from one historical layout to the next.
//
// Apply never mutates its input. A step run against a record that is already in
// a newer layout leaves it unchanged, so the full chain is safe on any record.
type Step struct {
	From  int
	To    int
	Name  string
	Apply func(doc map[string]any) map[string]any
}

// Layout versions
const (
	VersionFlat      = 1 // flat task units, unnamed allotments
	VersionReference = 2 // allotments with identity, task units referencing them
	VersionDoctrinal = 3 // task units split into AMSNDAT/MSNACFT/GTGTLOC/CONTROLA
	VersionCurrent   = 4
)

var steps = []Step{
	{From: VersionFlat, To: VersionReference, Name: "liftFlatHeader", Apply: liftFlatHeader},
	{From: VersionReference, To: VersionDoctrinal, Name: "nestTaskUnits", Apply: nestTaskUnits},
	{From: VersionDoctrinal, To: VersionCurrent, Name: "expandDoctrinalSegments", Apply: expandDoctrinalSegments},
}

// Steps returns the migration chain in application order
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// liftFlatHeader resolves the v1 header aliases and names v1 allotments
func liftFlatHeader(in map[string]any) map[string]any {
	doc := cloneMap(in)

	if h := child(doc, "header"); h != nil {
		fill(h, "operation_identification_data", "operation_name")
		fill(h, "msg_text_format_identifier", "title")
		fill(h, "msg_originator", "originating_unit")
		if s, ok := text(h["effective_time_utc"]); ok {
			fillValue(h, "timeframe_from", models.ISOToDTG(strings.TrimSpace(s)))
		}
		if s, ok := text(h["expiry_time_utc"]); ok {
			fillValue(h, "timeframe_to", models.ISOToDTG(strings.TrimSpace(s)))
		}
		delete(h, "effective_time_utc")
		delete(h, "expiry_time_utc")
	}

	eachRecord(doc, "allotments", func(a map[string]any) {
		fill(a, "unit", "resource_name")
		// v1 mission and remarks have no home in any later layout
		delete(a, "mission")
		delete(a, "remarks")
	})

	return doc
}

// nestTaskUnits moves flat task unit fields into the doctrinal segments and
// renames v2 allotment fields
func nestTaskUnits(in map[string]any) map[string]any {
	doc := cloneMap(in)

	eachRecord(doc, "allotments", func(a map[string]any) {
		fill(a, "unit_designator", "unit")
		fill(a, "asset_count", "quantity")
		fill(a, "actyp", "aircraft_type")
	})

	eachRecord(doc, "task_units", func(tu map[string]any) {
		if !hasFlatFields(tu) {
			return
		}
		move(ensureChild(tu, "amsndat"), "primary_msn_type", tu, "mission_type")
		msnacft := ensureChild(tu, "msnacft")
		move(msnacft, "callsign", tu, "callsign")
		move(msnacft, "mode3", tu, "iff_code")
		move(ensureChild(tu, "gtgtloc"), "facility_name", tu, "target")
		move(ensureChild(tu, "controla"), "agency_type", tu, "control_agency")
		fill(tu, "narrative", "remarks")

		var parts []string
		if s, ok := text(tu["tail_numbers"]); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, "TAIL:"+strings.TrimSpace(s))
		}
		if s, ok := text(tu["takeoff_time_utc"]); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, "TKOF:"+models.ISOToDTG(strings.TrimSpace(s)))
		}
		fillValue(tu, "amplification", strings.Join(parts, " "))
		delete(tu, "tail_numbers")
		delete(tu, "takeoff_time_utc")
	})

	return doc
}

var flatTaskUnitFields = []string{
	"mission_type", "callsign", "iff_code", "target", "control_agency",
	"remarks", "tail_numbers", "takeoff_time_utc",
}

func hasFlatFields(tu map[string]any) bool {
	for _, key := range flatTaskUnitFields {
		if _, ok := tu[key]; ok {
			return true
		}
	}
	return false
}

// segmentRename maps a v3 doctrinal segment onto its current key and leaf names
type segmentRename struct {
	legacy  string
	current string
	leaves  [][2]string // {current leaf, legacy leaf}
}

var segmentRenames = []segmentRename{
	{
		legacy:  "amsndat",
		current: "aircraft_mission_data",
		leaves: [][2]string{
			{"mission_number", "msn_number"},
			{"amc_mission_number", "amc_msn_number"},
			{"package_id", "package_id"},
			{"mission_commander", "msn_commander"},
			{"primary_mission_type", "primary_msn_type"},
			{"secondary_mission_type", "secondary_msn_type"},
			{"alert_status", "alert_status"},
			{"departure_location", "deploc"},
			{"recovery_location", "arrloc"},
		},
	},
	{
		legacy:  "msnacft",
		current: "individual_aircraft_mission_data",
		leaves: [][2]string{
			{"aircraft_count", "num_aircraft"},
			{"aircraft_call_sign", "callsign"},
			{"primary_configuration", "primary_config"},
			{"secondary_configuration", "secondary_config"},
			{"iff_mode_1", "mode1"},
			{"iff_mode_2", "mode2"},
			{"iff_mode_3", "mode3"},
		},
	},
	{
		legacy:  "gtgtloc",
		current: "ground_target_location",
		leaves: [][2]string{
			{"designator", "designator"},
			{"day_time_month_tasked", "dtm_tasked"},
			{"not_earlier_than", "net"},
			{"not_later_than", "nlt"},
			{"target_facility_name", "facility_name"},
			{"target_identifier", "facility_id"},
			{"target_type", "facility_type"},
			{"dmpi_description", "dmpi_desc"},
			{"dmpi_lat_long", "dmpi_latlong"},
			{"dmpi_datum", "dmpi_datum"},
			{"dmpi_elevation", "dmpi_elev"},
			{"component_target_id", "component_id"},
		},
	},
	{
		legacy:  "controla",
		current: "control_of_air_assets",
		leaves: [][2]string{
			{"agency_type", "agency_type"},
			{"call_sign", "callsign"},
			{"primary_frequency", "pfreq"},
			{"secondary_frequency", "sfreq"},
			{"report_in_point", "report_in_point"},
		},
	},
}

// expandDoctrinalSegments renames the v3 segment keys and short leaf names to
// the current long names
func expandDoctrinalSegments(in map[string]any) map[string]any {
	doc := cloneMap(in)

	eachRecord(doc, "allotments", func(a map[string]any) {
		fill(a, "icao_base", "icao")
		fill(a, "aircraft_model", "actyp")
	})

	eachRecord(doc, "task_units", func(tu map[string]any) {
		for _, seg := range segmentRenames {
			legacy := child(tu, seg.legacy)
			if legacy == nil {
				delete(tu, seg.legacy)
				continue
			}
			current := ensureChild(tu, seg.current)
			for _, leaf := range seg.leaves {
				move(current, leaf[0], legacy, leaf[1])
			}
			delete(tu, seg.legacy)
		}
	})

	return doc
}
