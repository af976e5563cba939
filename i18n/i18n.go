// Package i18n maps internal enum codes to display labels in English and Nepali.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/sajhasahayog/relief-api/models"
)

// Language is a supported display language
type Language string

// Supported languages
const (
	English Language = "en"
	Nepali  Language = "np"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.MustParse("ne")})

// Parse maps a language code onto a supported language. Both the app code "np" and the
// ISO code "ne" select Nepali; anything unrecognised is English.
func Parse(code string) Language {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "np", "ne", "ne-np":
		return Nepali
	default:
		return English
	}
}

// FromRequest resolves the request language from the lang query parameter, falling back
// to the Accept-Language header.
func FromRequest(r *http.Request) Language {
	if code := r.URL.Query().Get("lang"); code != "" {
		return Parse(code)
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if idx == 1 && conf != language.No {
		return Nepali
	}
	return English
}

type label struct {
	en, np string
}

func (l label) in(lang Language) string {
	if lang == Nepali {
		return l.np
	}
	return l.en
}

var teams = map[models.TeamID]label{
	models.TeamPolice:      {"Nepal Police", "नेपाल प्रहरी"},
	models.TeamArmy:        {"Nepal Army", "नेपाली सेना"},
	models.TeamRedCross:    {"Red Cross Nepal", "रेड क्रस नेपाल"},
	models.TeamFireBrigade: {"Fire Brigade", "दमकल"},
	models.TeamMedical:     {"Medical Team", "चिकित्सा टोली"},
	models.TeamRescue:      {"Search & Rescue", "खोज तथा उद्धार"},
	models.TeamExcavator:   {"Heavy Equipment", "भारी उपकरण"},
	models.TeamVolunteers:  {"Volunteers", "स्वयंसेवकहरू"},
}

var needs = map[models.NeedID]label{
	models.NeedTempShelter:       {"Temporary Shelter", "अस्थायी आश्रय"},
	models.NeedFoodSupport:       {"Food Support", "खाद्य सहायता"},
	models.NeedMedicalFollowup:   {"Medical Follow-up", "चिकित्सा अनुगमन"},
	models.NeedPsychosocial:      {"Psychosocial Support", "मनोसामाजिक सहायता"},
	models.NeedHouseRepair:       {"House Repair", "घर मर्मत"},
	models.NeedSchoolRestoration: {"School Restoration", "विद्यालय पुनर्निर्माण"},
	models.NeedRoadRepair:        {"Road/Bridge Repair", "सडक/पुल मर्मत"},
}

var items = map[models.ItemID]label{
	models.ItemRice:      {"Rice", "चामल"},
	models.ItemWater:     {"Water", "पानी"},
	models.ItemTarpaulin: {"Tarpaulin", "त्रिपाल"},
	models.ItemMedicine:  {"Medicine", "औषधि"},
	models.ItemBlankets:  {"Blankets", "कम्बल"},
	models.ItemTents:     {"Tents", "टेन्ट"},
	models.ItemClothing:  {"Clothing", "कपडा"},
	models.ItemCash:      {"Cash Assistance", "नगद सहायता"},
	models.ItemOther:     {"Other", "अन्य"},
}

var units = map[models.UnitID]label{
	models.UnitKg:      {"kg", "केजी"},
	models.UnitLiters:  {"liters", "लिटर"},
	models.UnitPieces:  {"pieces", "थान"},
	models.UnitPackets: {"packets", "प्याकेट"},
	models.UnitRupees:  {"Rs.", "रु."},
}

var statuses = map[models.DispatchStatus]label{
	models.StatusPending:    {"Pending", "पर्खिरहेको"},
	models.StatusDispatched: {"Team Dispatched", "टोली पठाइयो"},
	models.StatusInProgress: {"Work in Progress", "काम भइरहेको छ"},
	models.StatusResolved:   {"Resolved", "समाधान भयो"},
}

var rehabStatuses = map[models.RehabStatus]label{
	models.RehabOpen:       {"Open", "खुला"},
	models.RehabInProgress: {"In Progress", "कार्यमा"},
	models.RehabCompleted:  {"Completed", "पूरा भयो"},
}

var priorities = map[models.Priority]label{
	models.PriorityLow:    {"Low", "कम"},
	models.PriorityMedium: {"Medium", "मध्यम"},
	models.PriorityHigh:   {"High", "उच्च"},
}

var kinds = map[models.ReportKind]label{
	models.KindMissing: {"Missing Person", "हराएको व्यक्ति"},
	models.KindDamage:  {"Damage / Hazard", "क्षति / खतरा"},
}

var critical = label{"CRITICAL", "गम्भीर"}

// Team returns the display name of a response team
func Team(lang Language, id models.TeamID) string {
	return lookup(teams, id, lang)
}

// Need returns the display name of a rehabilitation need
func Need(lang Language, id models.NeedID) string {
	return lookup(needs, id, lang)
}

// Item returns the display name of an aid item
func Item(lang Language, id models.ItemID) string {
	return lookup(items, id, lang)
}

// Unit returns the display name of a measurement unit
func Unit(lang Language, id models.UnitID) string {
	return lookup(units, id, lang)
}

// Status returns the display name of a dispatch status
func Status(lang Language, s models.DispatchStatus) string {
	return lookup(statuses, s, lang)
}

// RehabStatus returns the display name of a rehab case status
func RehabStatus(lang Language, s models.RehabStatus) string {
	return lookup(rehabStatuses, s, lang)
}

// Priority returns the display name of a rehab case priority
func Priority(lang Language, p models.Priority) string {
	return lookup(priorities, p, lang)
}

// Kind returns the display name of a report kind
func Kind(lang Language, k models.ReportKind) string {
	return lookup(kinds, k, lang)
}

// Critical returns the critical marker
func Critical(lang Language) string {
	return critical.in(lang)
}

// unknown codes fall back to the code itself
func lookup[K ~string](table map[K]label, code K, lang Language) string {
	l, ok := table[code]
	if !ok {
		return string(code)
	}
	return l.in(lang)
}

// Table is every label set for one language, keyed by code
type Table struct {
	Language      Language          `json:"language"`
	Teams         map[string]string `json:"teams"`
	Needs         map[string]string `json:"needs"`
	Items         map[string]string `json:"items"`
	Units         map[string]string `json:"units"`
	Statuses      map[string]string `json:"statuses"`
	RehabStatuses map[string]string `json:"rehab_statuses"`
	Priorities    map[string]string `json:"priorities"`
	Kinds         map[string]string `json:"kinds"`
}

// Labels builds the full label table for lang
func Labels(lang Language) Table {
	return Table{
		Language:      lang,
		Teams:         flatten(teams, lang),
		Needs:         flatten(needs, lang),
		Items:         flatten(items, lang),
		Units:         flatten(units, lang),
		Statuses:      flatten(statuses, lang),
		RehabStatuses: flatten(rehabStatuses, lang),
		Priorities:    flatten(priorities, lang),
		Kinds:         flatten(kinds, lang),
	}
}

func flatten[K ~string](table map[K]label, lang Language) map[string]string {
	out := make(map[string]string, len(table))
	for k, l := range table {
		out[string(k)] = l.in(lang)
	}
	return out
}
