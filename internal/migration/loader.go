// Package migration turns untyped records written in any historical layout into
// the current entity model. Loading never fails: unknown or malformed fields
// resolve to their type defaults.
package migration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"ato_builder/internal/models"

	"github.com/mitchellh/mapstructure"
)

// Report describes what happened while loading one record
type Report struct {
	SourceVersion int      // Layout the record was written in
	GeneratedIDs  int      // Identities assigned because the record had none
	Issues        []string // Values that could not be decoded and were left at their defaults
}

// Loader migrates and decodes raw records
type Loader struct {
	newID func() string
}

// NewLoader creates a loader that assigns missing identities with models.NewID
func NewLoader() *Loader {
	return &Loader{newID: models.NewID}
}

// NewLoaderWithIDs creates a loader with a custom identity generator
func NewLoaderWithIDs(newID func() string) *Loader {
	return &Loader{newID: newID}
}

var defaultLoader = NewLoader()

// Load migrates raw with the default loader
func Load(raw map[string]any) models.ATO {
	return defaultLoader.Load(raw)
}

// Load migrates raw into the current entity model
func (l *Loader) Load(raw map[string]any) models.ATO {
	ato, _ := l.LoadWithReport(raw)
	return ato
}

// LoadWithReport migrates raw and reports the source layout and any absorbed issues
func (l *Loader) LoadWithReport(raw map[string]any) (models.ATO, Report) {
	report := Report{SourceVersion: DetectVersion(raw)}

	doc := cloneMap(raw)
	for _, step := range steps {
		doc = step.Apply(doc)
	}

	ato := models.ATO{Header: models.NewHeader()}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       scalarText,
		WeaklyTypedInput: true,
		Result:           &ato,
	})
	if err != nil {
		// only reachable with an invalid Result, which is fixed above
		panic(fmt.Sprintf("migration: decoder config: %v", err))
	}
	if err := decoder.Decode(doc); err != nil {
		report.Issues = decodeIssues(err)
	}

	l.normalize(&ato, &report)
	return ato, report
}

// scalarText renders scalars bound for string fields the same way the
// migration steps read them, so a legacy true stays "true" rather than "1".
func scalarText(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() == reflect.String {
		return data, nil
	}
	if s, ok := text(data); ok {
		return s, nil
	}
	return data, nil
}

// DetectVersion reports the layout a raw record was written in
func DetectVersion(raw map[string]any) int {
	if s, ok := text(raw[models.SchemaVersionKey]); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= VersionFlat && v <= VersionCurrent {
			return v
		}
	}

	version := VersionFlat
	raise := func(v int) {
		if v > version {
			version = v
		}
	}

	if h := child(raw, "header"); h != nil {
		if _, ok := h["operation_identification_data"]; ok {
			raise(VersionReference)
		}
	}
	eachRecord(raw, "allotments", func(a map[string]any) {
		switch {
		case keyIn(a, "icao_base", "aircraft_model"):
			raise(VersionCurrent)
		case keyIn(a, "unit_designator", "asset_count", "actyp"):
			raise(VersionDoctrinal)
		case keyIn(a, "id", "unit", "icao"):
			raise(VersionReference)
		}
	})
	eachRecord(raw, "task_units", func(tu map[string]any) {
		switch {
		case keyIn(tu, "aircraft_mission_data", "individual_aircraft_mission_data", "ground_target_location", "control_of_air_assets"):
			raise(VersionCurrent)
		case keyIn(tu, "amsndat", "msnacft", "gtgtloc", "controla"):
			raise(VersionDoctrinal)
		case keyIn(tu, "allotment_id"):
			raise(VersionReference)
		}
	})
	return version
}

func keyIn(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

// normalize applies canonical casing, trims numeric text and fills identities
func (l *Loader) normalize(ato *models.ATO, report *Report) {
	if ato.ID == "" {
		ato.ID = l.newID()
		report.GeneratedIDs++
	}

	h := &ato.Header
	h.Month = upperOr(h.Month, models.DefaultMonth)
	h.Acknowledgement = upperOr(h.Acknowledgement, models.AcknowledgementNo)
	h.Serial = strings.TrimSpace(h.Serial)

	seen := make(map[string]bool, len(ato.Allotments))
	for i := range ato.Allotments {
		a := &ato.Allotments[i]
		if a.ID == "" {
			a.ID = l.newID()
			report.GeneratedIDs++
		}
		if seen[a.ID] {
			report.Issues = append(report.Issues, fmt.Sprintf("duplicate allotment id %q", a.ID))
		}
		seen[a.ID] = true
		a.ICAOBase = upper(a.ICAOBase)
		a.AssetCount = strings.TrimSpace(a.AssetCount)
	}

	for i := range ato.TaskUnits {
		tu := &ato.TaskUnits[i]
		tu.MissionData.DepartureLocation = upper(tu.MissionData.DepartureLocation)
		tu.MissionData.RecoveryLocation = upper(tu.MissionData.RecoveryLocation)
		tu.AircraftData.AircraftCount = strings.TrimSpace(tu.AircraftData.AircraftCount)
		tu.AircraftData.IFFMode1 = strings.TrimSpace(tu.AircraftData.IFFMode1)
		tu.AircraftData.IFFMode2 = strings.TrimSpace(tu.AircraftData.IFFMode2)
		tu.AircraftData.IFFMode3 = strings.TrimSpace(tu.AircraftData.IFFMode3)
		tu.TargetData.Designator = upper(tu.TargetData.Designator)
		tu.ControlData.AgencyType = upper(tu.ControlData.AgencyType)
	}

	ato.Allotments = nilIfEmpty(ato.Allotments)
	ato.TaskUnits = nilIfEmpty(ato.TaskUnits)
	ato.SupportControl = nilIfEmpty(ato.SupportControl)
	ato.Spins = nilIfEmpty(ato.Spins)
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func upperOr(s, fallback string) string {
	if u := upper(s); u != "" {
		return u
	}
	return fallback
}

func nilIfEmpty[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	return in
}

func decodeIssues(err error) []string {
	if merr, ok := err.(*mapstructure.Error); ok {
		return append([]string(nil), merr.Errors...)
	}
	return []string{err.Error()}
}
