package gazetteer

import (
	"sort"

	"clinicmap-api/internal/models"
)

type prefixCandidate struct {
	prefix     string
	prefecture string
	city       string
}

// MunicipalityMatcher strips a known municipality literal from the front of a
// normalized address. Candidates are tried longest first, so a ward entry
// like 大阪市中央区 wins over its parent 大阪市.
type MunicipalityMatcher struct {
	candidates []prefixCandidate
}

// NewMunicipalityMatcher builds the matcher from the municipality dataset.
// Each entry contributes both "{prefecture}{city}" and "{city}" candidates.
func NewMunicipalityMatcher(entries []models.GazetteerMunicipalityEntry) *MunicipalityMatcher {
	seen := make(map[string]bool)
	var candidates []prefixCandidate

	add := func(prefix string, entry models.GazetteerMunicipalityEntry) {
		if prefix == "" || seen[prefix] {
			return
		}
		seen[prefix] = true
		candidates = append(candidates, prefixCandidate{
			prefix:     prefix,
			prefecture: entry.Prefecture,
			city:       entry.City,
		})
	}

	for _, entry := range entries {
		if entry.City == "" {
			continue
		}
		add(entry.Prefecture+entry.City, entry)
		add(entry.City, entry)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].prefix) != len(candidates[j].prefix) {
			return len(candidates[i].prefix) > len(candidates[j].prefix)
		}
		return candidates[i].prefix < candidates[j].prefix
	})

	return &MunicipalityMatcher{candidates: candidates}
}

// MatchPrefix returns the municipality whose candidate is a literal prefix of
// the address, preferring the most specific one, together with the remainder
// of the address after the matched prefix.
func (m *MunicipalityMatcher) MatchPrefix(address string) (prefecture, city, remainder string, ok bool) {
	for _, c := range m.candidates {
		if len(address) >= len(c.prefix) && address[:len(c.prefix)] == c.prefix {
			return c.prefecture, c.city, address[len(c.prefix):], true
		}
	}
	return "", "", "", false
}
