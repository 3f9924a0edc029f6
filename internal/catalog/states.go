package catalog

import (
	"strings"

	"github.com/sachpatra/internal/locale"
)

// State types.
const (
	StateTypeState = "state"
	StateTypeUT    = "ut"
)

// State is an Indian state or union territory.
type State struct {
	Code   string
	NameHi string
	NameEn string
	Type   string
}

// Name returns the display name in the given language (Hindi by default).
func (s State) Name(language string) string {
	return locale.Pick(language, s.NameEn, s.NameHi)
}

// StateOption is a dropdown entry.
type StateOption struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	URLSlug string `json:"urlSlug"`
}

var states = []State{
	{Code: "AP", NameHi: "आंध्र प्रदेश", NameEn: "Andhra Pradesh", Type: StateTypeState},
	{Code: "AR", NameHi: "अरुणाचल प्रदेश", NameEn: "Arunachal Pradesh", Type: StateTypeState},
	{Code: "AS", NameHi: "असम", NameEn: "Assam", Type: StateTypeState},
	{Code: "BR", NameHi: "बिहार", NameEn: "Bihar", Type: StateTypeState},
	{Code: "CT", NameHi: "छत्तीसगढ़", NameEn: "Chhattisgarh", Type: StateTypeState},
	{Code: "GA", NameHi: "गोवा", NameEn: "Goa", Type: StateTypeState},
	{Code: "GJ", NameHi: "गुजरात", NameEn: "Gujarat", Type: StateTypeState},
	{Code: "HR", NameHi: "हरियाणा", NameEn: "Haryana", Type: StateTypeState},
	{Code: "HP", NameHi: "हिमाचल प्रदेश", NameEn: "Himachal Pradesh", Type: StateTypeState},
	{Code: "JH", NameHi: "झारखंड", NameEn: "Jharkhand", Type: StateTypeState},
	{Code: "KA", NameHi: "कर्नाटक", NameEn: "Karnataka", Type: StateTypeState},
	{Code: "KL", NameHi: "केरल", NameEn: "Kerala", Type: StateTypeState},
	{Code: "MP", NameHi: "मध्य प्रदेश", NameEn: "Madhya Pradesh", Type: StateTypeState},
	{Code: "MH", NameHi: "महाराष्ट्र", NameEn: "Maharashtra", Type: StateTypeState},
	{Code: "MN", NameHi: "मणिपुर", NameEn: "Manipur", Type: StateTypeState},
	{Code: "ML", NameHi: "मेघालय", NameEn: "Meghalaya", Type: StateTypeState},
	{Code: "MZ", NameHi: "मिजोरम", NameEn: "Mizoram", Type: StateTypeState},
	{Code: "NL", NameHi: "नागालैंड", NameEn: "Nagaland", Type: StateTypeState},
	{Code: "OR", NameHi: "ओडिशा", NameEn: "Odisha", Type: StateTypeState},
	{Code: "PB", NameHi: "पंजाब", NameEn: "Punjab", Type: StateTypeState},
	{Code: "RJ", NameHi: "राजस्थान", NameEn: "Rajasthan", Type: StateTypeState},
	{Code: "SK", NameHi: "सिक्किम", NameEn: "Sikkim", Type: StateTypeState},
	{Code: "TN", NameHi: "तमिलनाडु", NameEn: "Tamil Nadu", Type: StateTypeState},
	{Code: "TG", NameHi: "तेलंगाना", NameEn: "Telangana", Type: StateTypeState},
	{Code: "TR", NameHi: "त्रिपुरा", NameEn: "Tripura", Type: StateTypeState},
	{Code: "UP", NameHi: "उत्तर प्रदेश", NameEn: "Uttar Pradesh", Type: StateTypeState},
	{Code: "UT", NameHi: "उत्तराखंड", NameEn: "Uttarakhand", Type: StateTypeState},
	{Code: "WB", NameHi: "पश्चिम बंगाल", NameEn: "West Bengal", Type: StateTypeState},

	{Code: "AN", NameHi: "अंडमान और निकोबार द्वीप समूह", NameEn: "Andaman and Nicobar Islands", Type: StateTypeUT},
	{Code: "CH", NameHi: "चंडीगढ़", NameEn: "Chandigarh", Type: StateTypeUT},
	{Code: "DN", NameHi: "दादरा और नगर हवेली और दमन और दीव", NameEn: "Dadra and Nagar Haveli and Daman and Diu", Type: StateTypeUT},
	{Code: "DL", NameHi: "दिल्ली", NameEn: "Delhi", Type: StateTypeUT},
	{Code: "JK", NameHi: "जम्मू और कश्मीर", NameEn: "Jammu and Kashmir", Type: StateTypeUT},
	{Code: "LA", NameHi: "लद्दाख", NameEn: "Ladakh", Type: StateTypeUT},
	{Code: "LD", NameHi: "लक्षद्वीप", NameEn: "Lakshadweep", Type: StateTypeUT},
	{Code: "PY", NameHi: "पुडुचेरी", NameEn: "Puducherry", Type: StateTypeUT},
}

var statesByCode = func() map[string]State {
	m := make(map[string]State, len(states))
	for _, s := range states {
		m[s.Code] = s
	}
	return m
}()

// StateByCode looks a state up by its two-letter code, case-insensitively.
func StateByCode(code string) (State, bool) {
	s, ok := statesByCode[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// StatesByType returns states ("state") or union territories ("ut").
func StatesByType(kind string) []State {
	result := make([]State, 0, len(states))
	for _, s := range states {
		if s.Type == kind {
			result = append(result, s)
		}
	}
	return result
}

// AllStates returns a copy of the full table.
func AllStates() []State {
	return append([]State(nil), states...)
}

// StateOptions builds dropdown entries in the given language.
func StateOptions(language string) []StateOption {
	options := make([]StateOption, 0, len(states))
	for _, s := range states {
		options = append(options, StateOption{
			Code:    s.Code,
			Name:    s.Name(language),
			Type:    s.Type,
			URLSlug: StateSlug(s.Code),
		})
	}
	return options
}

// StateDisplayName returns the localized name, or the code itself when unknown.
func StateDisplayName(code, language string) string {
	if s, ok := StateByCode(code); ok {
		return s.Name(language)
	}
	return code
}

// StateFromSlug converts a URL slug ("up") to a state code ("UP").
func StateFromSlug(slug string) string {
	return strings.ToUpper(strings.TrimSpace(slug))
}

// StateSlug converts a state code to its URL slug.
func StateSlug(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
