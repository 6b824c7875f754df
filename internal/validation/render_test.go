package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Label(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "name", want: "ATO name"},
		{path: "header.msg_month", want: "MSGID Month"},
		{path: "allotments[0].icao_base", want: "Allotment #1 ICAO"},
		{path: "task_units[2].individual_aircraft_mission_data.iff_mode_3", want: "Task Unit #3 MSNACFT IFF Mode 3"},
		{path: "task_units[0].something_else", want: "Task Unit #1 something_else"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRenderer.Label(tt.path))
		})
	}
}

func TestRenderer_English(t *testing.T) {
	tests := []struct {
		v    Violation
		want string
	}{
		{
			v:    Violation{Path: "header.msg_serial", Rule: RuleRequired},
			want: "MSGID Message Serial is required.",
		},
		{
			v:    Violation{Path: "header.acknowledgement_required", Rule: RuleInvalidValue, Detail: "YES, NO"},
			want: "AKNLDG must be one of: YES, NO.",
		},
		{
			v:    Violation{Path: "header.timeframe_from", Rule: RuleFormat, Detail: "DDHHMMZMMMYYYY"},
			want: "TIMEFRAM FROM must be in DDHHMMZMMMYYYY format.",
		},
		{
			v:    Violation{Path: "allotments[1].icao_base", Rule: RuleNotUpperCase, Detail: "lipa"},
			want: `Allotment #2 ICAO "lipa" must be upper-case.`,
		},
		{
			v:    Violation{Path: "task_units[0].allotment_id", Rule: RuleUnresolvedReference, Detail: "x1"},
			want: `Task Unit #1 Allotment Reference "x1" does not match any allotment.`,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.v.Rule), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRenderer.Render(tt.v))
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestRenderer_Spanish(t *testing.T) {
	r, err := NewRenderer("ES")
	require.NoError(t, err)
	assert.Equal(t, LocaleSpanish, r.Locale())

	got := r.Render(Violation{Path: "allotments[0].asset_count", Rule: RuleNotNumeric, Detail: "four"})
	assert.Equal(t, `El campo Asignación #1 Asset Count "four" debe ser numérico.`, got)

	got = r.Render(Violation{Path: "name", Rule: RuleRequired})
	assert.Equal(t, "El campo ATO name es obligatorio.", got)
}

func TestNewRenderer_UnsupportedLocale(t *testing.T) {
	_, err := NewRenderer("fr")
	assert.Error(t, err)
}

func TestViolations_StringsAndUnder(t *testing.T) {
	vs := Violations{
		{Path: "name", Rule: RuleRequired},
		{Path: "allotments[0].unit_designator", Rule: RuleRequired},
		{Path: "task_units[0].allotment_id", Rule: RuleRequired},
	}

	assert.False(t, vs.Valid())
	assert.Equal(t, []string{
		"ATO name is required.",
		"Allotment #1 UNIT is required.",
		"Task Unit #1 Allotment Reference is required.",
	}, vs.Strings(DefaultRenderer))
	assert.Equal(t, vs[1:2], vs.Under("allotments"))
	assert.Equal(t, vs[1:2], vs.Under("allotments[0]"))
	assert.Empty(t, vs.Under("allotments[1]"))
	assert.True(t, Violations(nil).Valid())
}
