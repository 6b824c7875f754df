package models

// SchemaVersion is the layout version written by ToMap
const SchemaVersion = "4"

// SchemaVersionKey holds the layout version in a canonical dictionary
const SchemaVersionKey = "schema_version"

// ToMap returns the canonical dictionary form of the ATO: nested maps and slices
// mirroring the entity tree, every scalar leaf a string, every key present.
func (a ATO) ToMap() map[string]any {
	allotments := make([]any, 0, len(a.Allotments))
	for _, item := range a.Allotments {
		allotments = append(allotments, item.ToMap())
	}
	taskUnits := make([]any, 0, len(a.TaskUnits))
	for _, item := range a.TaskUnits {
		taskUnits = append(taskUnits, item.ToMap())
	}
	support := make([]any, 0, len(a.SupportControl))
	for _, item := range a.SupportControl {
		support = append(support, item.ToMap())
	}
	spins := make([]any, 0, len(a.Spins))
	for _, item := range a.Spins {
		spins = append(spins, item.ToMap())
	}

	return map[string]any{
		SchemaVersionKey:  SchemaVersion,
		"id":              a.ID,
		"name":            a.Name,
		"header":          a.Header.ToMap(),
		"allotments":      allotments,
		"task_units":      taskUnits,
		"support_control": support,
		"spins":           spins,
		"footer":          a.Footer.ToMap(),
	}
}

func (h Header) ToMap() map[string]any {
	return map[string]any{
		"operation_identification_data": h.OperationID,
		"msg_text_format_identifier":    h.MessageType,
		"msg_originator":                h.Originator,
		"msg_serial":                    h.Serial,
		"msg_month":                     h.Month,
		"msg_qualifier":                 h.Qualifier,
		"acknowledgement_required":      h.Acknowledgement,
		"timeframe_from":                h.TimeframeFrom,
		"timeframe_to":                  h.TimeframeTo,
		"heading":                       h.Heading,
	}
}

func (a Allotment) ToMap() map[string]any {
	return map[string]any{
		"id":              a.ID,
		"unit_designator": a.UnitDesignator,
		"icao_base":       a.ICAOBase,
		"asset_count":     a.AssetCount,
		"aircraft_model":  a.AircraftModel,
	}
}

func (t TaskUnit) ToMap() map[string]any {
	m := t.MissionData
	d := t.AircraftData
	g := t.TargetData
	c := t.ControlData
	return map[string]any{
		"allotment_id": t.AllotmentID,
		"aircraft_mission_data": map[string]any{
			"mission_number":         m.MissionNumber,
			"amc_mission_number":     m.AMCMissionNumber,
			"package_id":             m.PackageID,
			"mission_commander":      m.MissionCommander,
			"primary_mission_type":   m.PrimaryMissionType,
			"secondary_mission_type": m.SecondaryMissionType,
			"alert_status":           m.AlertStatus,
			"departure_location":     m.DepartureLocation,
			"recovery_location":      m.RecoveryLocation,
		},
		"individual_aircraft_mission_data": map[string]any{
			"aircraft_count":          d.AircraftCount,
			"aircraft_call_sign":      d.CallSign,
			"primary_configuration":   d.PrimaryConfiguration,
			"secondary_configuration": d.SecondaryConfiguration,
			"iff_mode_1":              d.IFFMode1,
			"iff_mode_2":              d.IFFMode2,
			"iff_mode_3":              d.IFFMode3,
		},
		"ground_target_location": map[string]any{
			"designator":            g.Designator,
			"day_time_month_tasked": g.DayTimeMonthTasked,
			"not_earlier_than":      g.NotEarlierThan,
			"not_later_than":        g.NotLaterThan,
			"target_facility_name":  g.TargetFacilityName,
			"target_identifier":     g.TargetIdentifier,
			"target_type":           g.TargetType,
			"dmpi_description":      g.DMPIDescription,
			"dmpi_lat_long":         g.DMPILatLong,
			"dmpi_datum":            g.DMPIDatum,
			"dmpi_elevation":        g.DMPIElevation,
			"component_target_id":   g.ComponentTargetID,
		},
		"control_of_air_assets": map[string]any{
			"agency_type":         c.AgencyType,
			"call_sign":           c.CallSign,
			"primary_frequency":   c.PrimaryFrequency,
			"secondary_frequency": c.SecondaryFrequency,
			"report_in_point":     c.ReportInPoint,
		},
		"amplification": t.Amplification,
		"narrative":     t.Narrative,
		"unit_name":     t.UnitName,
		"aircraft_type": t.AircraftType,
	}
}

func (s SupportControlEntry) ToMap() map[string]any {
	return map[string]any{
		"role":      s.Role,
		"unit":      s.Unit,
		"frequency": s.Frequency,
		"contact":   s.Contact,
		"notes":     s.Notes,
	}
}

func (s SpinInstruction) ToMap() map[string]any {
	return map[string]any{
		"title":   s.Title,
		"content": s.Content,
	}
}

func (f Footer) ToMap() map[string]any {
	return map[string]any{
		"classification":       f.Classification,
		"authority":            f.Authority,
		"prepared_by":          f.PreparedBy,
		"release_instructions": f.ReleaseInstructions,
	}
}
