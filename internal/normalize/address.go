package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// dashLikeRunes are the glyphs that appear where addresses mean a plain
// hyphen: full-width minus, horizontal bar, katakana long vowel marks and the
// typographic hyphen.
const dashLikeRunes = "－―ーｰ‐"

const chomeToken = "丁目"

var (
	chomeArabicRun  = regexp.MustCompile(`([0-9]+)$`)
	chomeBeforeDash = regexp.MustCompile(`^(.+?)([0-9]+)-`)
	chomeTrailing   = regexp.MustCompile(`^(.+?)([0-9]+)$`)
	chomeSuffix     = regexp.MustCompile(`[0-9一二三四五六七八九十]+丁目$`)
)

var kanjiDigits = [10]string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// NormalizeDigits maps full-width digits (０-９) to their half-width
// equivalents and leaves every other rune untouched.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}

// NormalizeDashes folds every dash-like glyph to a plain hyphen.
func NormalizeDashes(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(dashLikeRunes, r) {
			return '-'
		}
		return r
	}, s)
}

// NumberToKanji renders 1-99 as kanji numerals (3 → 三, 10 → 十, 13 → 十三,
// 21 → 二十一). Out-of-range values return the empty string.
func NumberToKanji(n int) string {
	if n <= 0 || n > 99 {
		return ""
	}
	if n < 10 {
		return kanjiDigits[n]
	}
	tens, ones := n/10, n%10
	var b strings.Builder
	if tens > 1 {
		b.WriteString(kanjiDigits[tens])
	}
	b.WriteString("十")
	b.WriteString(kanjiDigits[ones])
	return b.String()
}

// NormalizeChome canonicalizes a town fragment to the kanji "…丁目" form used
// by the gazetteer. The second return reports whether the fragment carried any
// town-level signal at all; inferred reports that the signal came from a
// digit-run heuristic rather than an explicit 丁目 token, which can misread
// banchi numbers.
//
// Resolution order: an explicit 丁目 token (truncate right after it, kanjify a
// leading arabic run), then <base><digits>-, then <base><digits> at end of
// string. The result is idempotent once it carries a canonical 丁目 suffix.
func NormalizeChome(s string) (town string, inferred bool, ok bool) {
	s = strings.TrimSpace(NormalizeDashes(NormalizeDigits(s)))
	if s == "" {
		return "", false, false
	}

	if idx := strings.Index(s, chomeToken); idx >= 0 {
		head := s[:idx]
		if m := chomeArabicRun.FindStringSubmatch(head); m != nil {
			if kanji := kanjifyRun(m[1]); kanji != "" {
				head = head[:len(head)-len(m[1])] + kanji
			}
		}
		return head + chomeToken, false, true
	}

	for _, re := range []*regexp.Regexp{chomeBeforeDash, chomeTrailing} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		kanji := kanjifyRun(m[2])
		if kanji == "" {
			continue
		}
		return m[1] + kanji + chomeToken, true, true
	}

	return "", false, false
}

// StandardizeTownLabel canonicalizes an explicit town field: chome numerals
// become kanji when a chome form is recognizable, otherwise the name passes
// through with only width and dash folding.
func StandardizeTownLabel(s string) string {
	if town, _, ok := NormalizeChome(s); ok {
		return town
	}
	return strings.TrimSpace(NormalizeDashes(NormalizeDigits(s)))
}

// RemoveChomeSuffix strips a trailing numbered 丁目 suffix (kanji or arabic)
// and returns the base town name, or "" when nothing remains.
func RemoveChomeSuffix(s string) string {
	return strings.TrimSpace(chomeSuffix.ReplaceAllString(s, ""))
}

func kanjifyRun(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	return NumberToKanji(n)
}
