package translate

import (
	"regexp"
	"sort"
	"strings"
)

// pairs is the fallback vocabulary used when the remote provider fails.
var pairs = [][2]string{
	{"वायु प्रदूषण", "Air Pollution"},
	{"सरकार", "Government"},
	{"नए दिशानिर्देश", "New Guidelines"},
	{"केंद्रीय पर्यावरण मंत्रालय", "Central Environment Ministry"},
	{"आज", "Today"},
	{"जारी किए", "Issued"},
	{"दिशानिर्देशों", "Guidelines"},
	{"वाहनों", "Vehicles"},
	{"प्रदूषण", "Pollution"},
	{"उपाय", "Measures"},
	{"शामिल", "Included"},
	{"भारत", "India"},
	{"देश", "Country"},
	{"राज्य", "State"},
	{"नई दिल्ली", "New Delhi"},
	{"मुंबई", "Mumbai"},
	{"कोलकाता", "Kolkata"},
	{"चेन्नई", "Chennai"},
	{"बेंगलुरु", "Bangalore"},
	{"हैदराबाद", "Hyderabad"},
	{"पुणे", "Pune"},
	{"अहमदाबाद", "Ahmedabad"},
	{"जयपुर", "Jaipur"},
	{"लखनऊ", "Lucknow"},
	{"मुख्यमंत्री", "Chief Minister"},
	{"प्रधानमंत्री", "Prime Minister"},
	{"राष्ट्रपति", "President"},
	{"मंत्री", "Minister"},
	{"नेता", "Leader"},
	{"अधिकारी", "Officer"},
	{"चुनाव", "Election"},
	{"खेल", "Sports"},
	{"क्रिकेट", "Cricket"},
	{"शिक्षा", "Education"},
	{"किसान", "Farmer"},
	{"व्यापार", "Business"},
	{"समाचार", "News"},
	{"और", "And"},
	{"लेकिन", "But"},
	{"क्योंकि", "Because"},
	{"कहा", "Said"},
}

type dictEntry struct {
	from    string
	to      string
	pattern *regexp.Regexp
}

// Dictionary substitutes known phrases in both directions. Longer phrases
// are tried first so multi-word entries win over their parts.
type Dictionary struct {
	hiToEn *strings.Replacer
	enToHi []dictEntry
}

// NewDictionary builds the fallback dictionary from the built-in pairs.
func NewDictionary() *Dictionary {
	return newDictionary(pairs)
}

func newDictionary(source [][2]string) *Dictionary {
	sorted := append([][2]string(nil), source...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i][0]) > len(sorted[j][0])
	})
	oldnew := make([]string, 0, len(sorted)*2)
	for _, p := range sorted {
		oldnew = append(oldnew, p[0], p[1])
	}

	byEnglish := append([][2]string(nil), source...)
	sort.SliceStable(byEnglish, func(i, j int) bool {
		return len(byEnglish[i][1]) > len(byEnglish[j][1])
	})
	enToHi := make([]dictEntry, 0, len(byEnglish))
	for _, p := range byEnglish {
		enToHi = append(enToHi, dictEntry{
			from:    p[1],
			to:      p[0],
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p[1]) + `\b`),
		})
	}

	return &Dictionary{hiToEn: strings.NewReplacer(oldnew...), enToHi: enToHi}
}

// Translate replaces known phrases. Pairs other than hi/en return text as is.
func (d *Dictionary) Translate(text, source, target string) string {
	switch {
	case source == "hi" && target == "en":
		return d.hiToEn.Replace(text)
	case source == "en" && target == "hi":
		out := text
		for _, e := range d.enToHi {
			out = e.pattern.ReplaceAllLiteralString(out, e.to)
		}
		return out
	}
	return text
}
