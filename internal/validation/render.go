package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Locales with a message catalog
const (
	LocaleEnglish = "en"
	LocaleSpanish = "es"
)

type catalog struct {
	messages  map[Rule]string // format with label and detail
	allotment string          // list element prefix, format with 1-based index
	taskUnit  string
}

var catalogs = map[string]catalog{
	LocaleEnglish: {
		messages: map[Rule]string{
			RuleRequired:            "%s is required.",
			RuleInvalidValue:        "%s must be one of: %s.",
			RuleUnknownCode:         "%s %q is not a recognized mission type code.",
			RuleFormat:              "%s must be in %s format.",
			RuleNotUpperCase:        "%s %q must be upper-case.",
			RuleNotNumeric:          "%s %q must be numeric.",
			RuleUnresolvedReference: "%s %q does not match any allotment.",
		},
		allotment: "Allotment #%d",
		taskUnit:  "Task Unit #%d",
	},
	LocaleSpanish: {
		messages: map[Rule]string{
			RuleRequired:            "El campo %s es obligatorio.",
			RuleInvalidValue:        "El campo %s debe ser uno de: %s.",
			RuleUnknownCode:         "El campo %s %q no es un tipo de misión reconocido.",
			RuleFormat:              "El campo %s debe estar en formato %s.",
			RuleNotUpperCase:        "El campo %s %q debe estar en mayúsculas.",
			RuleNotNumeric:          "El campo %s %q debe ser numérico.",
			RuleUnresolvedReference: "El campo %s %q no corresponde a ninguna asignación.",
		},
		allotment: "Asignación #%d",
		taskUnit:  "Task Unit #%d",
	},
}

// fieldLabels are the doctrinal labels of the validated leaves
var fieldLabels = map[string]string{
	"name":                          "ATO name",
	"operation_identification_data": "OPER",
	"msg_text_format_identifier":    "MSGID Text Format Identifier",
	"msg_originator":                "MSGID Originator",
	"msg_serial":                    "MSGID Message Serial",
	"msg_month":                     "MSGID Month",
	"acknowledgement_required":      "AKNLDG",
	"timeframe_from":                "TIMEFRAM FROM",
	"timeframe_to":                  "TIMEFRAM TO",
	"unit_designator":               "UNIT",
	"icao_base":                     "ICAO",
	"asset_count":                   "Asset Count",
	"aircraft_model":                "ACTYP",
	"allotment_id":                  "Allotment Reference",
	"mission_number":                "AMSNDAT Mission Number",
	"primary_mission_type":          "AMSNDAT Primary Mission Type",
	"secondary_mission_type":        "AMSNDAT Secondary Mission Type",
	"departure_location":            "AMSNDAT DEPLOC",
	"recovery_location":             "AMSNDAT ARRLOC",
	"aircraft_count":                "MSNACFT Aircraft Count",
	"aircraft_call_sign":            "MSNACFT Call Sign",
	"iff_mode_1":                    "MSNACFT IFF Mode 1",
	"iff_mode_2":                    "MSNACFT IFF Mode 2",
	"iff_mode_3":                    "MSNACFT IFF Mode 3",
	"designator":                    "GTGTLOC Designator",
	"not_earlier_than":              "GTGTLOC NET",
	"not_later_than":                "GTGTLOC NLT",
	"agency_type":                   "CONTROLA Agency Type",
	"call_sign":                     "CONTROLA Call Sign",
}

var indexedSegment = regexp.MustCompile(`^([a-z_]+)\[(\d+)\]$`)

// Renderer turns violations into human text for one locale
type Renderer struct {
	locale  string
	catalog catalog
}

// DefaultRenderer renders English text
var DefaultRenderer = &Renderer{locale: LocaleEnglish, catalog: catalogs[LocaleEnglish]}

// NewRenderer returns a renderer for locale
func NewRenderer(locale string) (*Renderer, error) {
	c, ok := catalogs[strings.ToLower(locale)]
	if !ok {
		return nil, fmt.Errorf("unsupported locale: %s", locale)
	}
	return &Renderer{locale: strings.ToLower(locale), catalog: c}, nil
}

// Locale returns the renderer's locale
func (r *Renderer) Locale() string {
	return r.locale
}

// Render returns the localized message for v
func (r *Renderer) Render(v Violation) string {
	format, ok := r.catalog.messages[v.Rule]
	if !ok {
		return fmt.Sprintf("%s: %s %s", r.Label(v.Path), v.Rule, v.Detail)
	}
	label := r.Label(v.Path)
	if v.Rule == RuleRequired {
		return fmt.Sprintf(format, label)
	}
	return fmt.Sprintf(format, label, v.Detail)
}

// Label returns the human label of a violation path
func (r *Renderer) Label(path string) string {
	segments := strings.Split(path, ".")

	var prefix string
	if m := indexedSegment.FindStringSubmatch(segments[0]); m != nil {
		index, _ := strconv.Atoi(m[2])
		switch m[1] {
		case "allotments":
			prefix = fmt.Sprintf(r.catalog.allotment, index+1)
		case "task_units":
			prefix = fmt.Sprintf(r.catalog.taskUnit, index+1)
		}
	}

	leaf := segments[len(segments)-1]
	label, ok := fieldLabels[leaf]
	if !ok {
		label = leaf
	}
	if prefix == "" {
		return label
	}
	return prefix + " " + label
}
