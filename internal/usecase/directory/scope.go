package directory

import (
	"strings"

	"github.com/enrollhq/enroll/internal/entity"
)

// governmentPrefixes maps a government name to the two-letter username prefix
// its enrollments are issued under. Governments without an entry fall back to
// the first two characters of their lowercased name.
var governmentPrefixes = map[string]string{
	"cairo":          "ca",
	"giza":           "gz",
	"alexandria":     "ax",
	"qalyubia":       "qb",
	"dakahlia":       "dk",
	"sharqia":        "sq",
	"gharbia":        "gh",
	"monufia":        "mn",
	"beheira":        "bh",
	"fayoum":         "fy",
	"beni suef":      "bs",
	"minya":          "my",
	"asyut":          "at",
	"sohag":          "sg",
	"qena":           "qn",
	"luxor":          "lx",
	"aswan":          "as",
	"ismailia":       "is",
	"suez":           "sz",
	"port said":      "ps",
	"damietta":       "dm",
	"kafr el sheikh": "kf",
	"matrouh":        "mt",
	"red sea":        "rs",
	"new valley":     "nv",
	"north sinai":    "ns",
	"south sinai":    "ss",
}

func prefixFor(government string) string {
	g := strings.ToLower(strings.TrimSpace(government))

	if prefix, ok := governmentPrefixes[g]; ok {
		return prefix
	}
	if len(g) >= 2 {
		return g[:2]
	}

	return g
}

// inScope reports whether a record is visible to a caller permitted the given
// governments: either the record's own government matches the whitelist
// (case-insensitive), or the first two characters of the username match the
// prefix derived for one of the permitted governments.
func inScope(rec *entity.Record, governments []string) bool {
	recGov := strings.ToLower(strings.TrimSpace(rec.Government))
	username := strings.ToLower(rec.Username)

	for _, gov := range governments {
		if recGov != "" && recGov == strings.ToLower(strings.TrimSpace(gov)) {
			return true
		}
		if prefix := prefixFor(gov); prefix != "" && strings.HasPrefix(username, prefix) {
			return true
		}
	}

	return false
}
