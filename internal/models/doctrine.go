package models

import (
	"strings"
)

// Header defaults
const (
	DefaultMessageType = "ATO"
	DefaultMonth       = "JAN"
	DefaultHeading     = "TASKING"
)

// Acknowledgement flag values
const (
	AcknowledgementYes = "YES"
	AcknowledgementNo  = "NO"
)

// Ground target designators
const (
	DesignatorPrimary   = "P"
	DesignatorSecondary = "S"
)

// Control agency types
const (
	AgencyCRC = "CRC" // Control and Reporting Centre
	AgencyAEW = "AEW" // Airborne Early Warning
)

// MonthCodes are the twelve MSGID month codes in calendar order
var MonthCodes = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// missionTypes is the closed vocabulary of AMSNDAT mission type codes
var missionTypes = map[string]struct{}{}

func init() {
	for _, code := range missionTypeCodes {
		missionTypes[code] = struct{}{}
	}
}

// IsMonthCode reports whether s is one of the twelve month codes, ignoring case
func IsMonthCode(s string) bool {
	upper := strings.ToUpper(s)
	for _, code := range MonthCodes {
		if code == upper {
			return true
		}
	}
	return false
}

// IsMissionType reports whether code belongs to the mission type vocabulary.
// The lookup is exact: codes are upper-case in the vocabulary.
func IsMissionType(code string) bool {
	_, ok := missionTypes[code]
	return ok
}

// MissionTypes returns the mission type vocabulary in its declared order
func MissionTypes() []string {
	return cloneSlice(missionTypeCodes)
}

var missionTypeCodes = []string{
	// Counterair
	"AAW", "ACAP", "ACM", "ADC", "AEW", "AEWC", "AHC", "AMD", "APR", "ARC",
	"BARCP", "CAP", "CAPAL", "CCAP", "CORCP", "DCA", "DCAR", "DEAD", "DECM", "ESCRT",
	"FCAP", "FORCP", "FSWP", "HAVCP", "HVAA", "INTCP", "JAMR", "LCAP", "MIGCP", "OCA",
	"OCAR", "PCAP", "RCAP", "RESCP", "SCAP", "SEAD", "SEADC", "SWEEP", "TARCP", "TCAP",
	// Strike and interdiction
	"ARMD", "ASUW", "ATK", "BAI", "BDA", "CAS", "CASR", "CSAS", "DAS",
	"DCAS", "DEST", "FAC", "FACA", "FAIR", "GAI", "INT", "INTDN",
	"KILLB", "LAI", "LDA", "MINE", "NAI", "NCAS", "NINT", "PSTRK", "SCAR",
	"STRK", "TASMO", "TSTK", "XCAS", "XINT", "XSTRK",
	// Reconnaissance and surveillance
	"AREC", "ARSV", "BDAR", "CREC", "ELINT", "EREC", "FREC", "IMINT", "IRREC", "ISR",
	"JSTAR", "MASI", "MARSV", "NREC", "PHREC", "PREC", "RECCE", "RREC", "SIGNT", "SREC",
	"SURV", "TAR", "TREC", "TRS", "UAVR", "WREC", "WXREC",
	// Electronic warfare and command and control
	"ABCCC", "ACCE", "AEA", "AWACS", "CEW", "COMJ", "COMR",
	"EAS", "ECM", "ECCM", "ESM", "EWS", "FFAC",
	"JAM", "PSYOP", "RADJ", "RELAY", "SOJ", "TACC", "TACP", "TEW",
	// Air mobility
	"AAR", "AARF", "AEVAC", "AFLD", "AIRDR", "ALCT", "ALIFT", "AMC",
	"AMSN", "ARTY", "ASLT", "CAL", "CARGO", "CDS", "EXFIL", "FERRY",
	"FWD", "HALO", "HLIFT", "INFIL", "LAPES", "MEDEV", "OAL", "PAX", "RESUP",
	"SAAR", "SLIFT", "TAL", "TANK", "TNKR", "TPT", "VIP",
	// Rescue and special operations
	"CSAR", "CSARC", "DSO", "NEO", "RES", "SAR", "SARC", "SOF", "SOFA",
	"SOFR", "SOSUP", "TRAP",
	// Maritime
	"ASW", "ASWP", "MCM", "MIW", "MPA", "MSUP", "SCS", "SUCAP", "SUW",
	// Support, training and miscellaneous
	"ALT", "AREF", "CHASE", "CHKFL", "DEMO", "EXER", "FCF", "FLYBY", "HHQ", "LNK",
	"MAINT", "ORNT", "OTHER", "PATRL", "POS", "SHOW", "SPT", "TEST", "TGT", "TNG",
	"TOW",
}
