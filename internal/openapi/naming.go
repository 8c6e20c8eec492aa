package openapi

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultAsyncWrapper is the generic type whose single argument stands in for
// the whole type when naming ("Promise<User>" is named "User").
const DefaultAsyncWrapper = "Promise"

var (
	importPrefixRe  = regexp.MustCompile(`import\(\s*["'][^"']*["']\s*\)\.`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	indexedAccessRe = regexp.MustCompile(`([A-Za-z0-9_$]+)\[([A-Za-z0-9_$]+)\]`)
	keyValueRe      = regexp.MustCompile(`([A-Za-z0-9_$]+):([A-Za-z0-9_$]+)`)

	// Applied in order. The array marker and indexed access must be rewritten
	// before the catch-all bracket collapse turns them into underscores.
	nameRewrites = []struct {
		re   *regexp.Regexp
		with string
	}{
		{regexp.MustCompile(`[<>]`), "_"},
		{whitespaceRe, ""},
		{regexp.MustCompile(`,`), "."},
		{regexp.MustCompile(`['"]`), ""},
		{regexp.MustCompile(`&`), "-and-"},
		{regexp.MustCompile(`\|`), "-or-"},
		{regexp.MustCompile(`\[\]`), "-Array"},
		{indexedAccessRe, "$1-at-$2"},
		{regexp.MustCompile(`[{}]`), "_"},
		{keyValueRe, "$1-$2"},
		{regexp.MustCompile(`;`), "--"},
		{regexp.MustCompile(`[\[\]()]`), "_"},
		{regexp.MustCompile(`:`), "-"},
		{regexp.MustCompile(`\?`), ".."},
	}
)

// NameNormalizer maps raw type display names to component names that are
// safe inside a $ref and a URL.
type NameNormalizer struct {
	// AsyncWrapper is stripped when it wraps the whole name.
	AsyncWrapper string
}

// NormalizeName normalizes raw with the default async wrapper.
func NormalizeName(raw string) string {
	return NameNormalizer{AsyncWrapper: DefaultAsyncWrapper}.Normalize(raw)
}

// Normalize is total and idempotent: normalizing an already normalized name
// returns it unchanged.
func (n NameNormalizer) Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = n.unwrapAsync(name)
	name = stripQualifiers(name)
	name = norm.NFC.String(name)
	for _, rw := range nameRewrites {
		name = rw.re.ReplaceAllString(name, rw.with)
	}
	// A comma outside brackets becomes '.', so "A,B" comes out as the
	// qualified-looking "A.B". Strip that leading chain now rather than on
	// the next pass.
	return stripQualifiers(percentEncode(name))
}

// unwrapAsync turns "Promise<Inner>" into "Inner" when the wrapper's angle
// brackets enclose the rest of the name.
func (n NameNormalizer) unwrapAsync(name string) string {
	wrapper := n.AsyncWrapper
	if wrapper == "" {
		return name
	}
	for strings.HasPrefix(name, wrapper+"<") && strings.HasSuffix(name, ">") {
		inner := name[len(wrapper)+1 : len(name)-1]
		if !balancedAngles(inner) {
			break
		}
		name = strings.TrimSpace(inner)
	}
	return name
}

func balancedAngles(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// stripQualifiers drops module paths and namespace prefixes so that
// `import("./models").Api.User` and `Api.User` both become `User`.
//
// A qualified chain only counts when it starts at the beginning of the name or
// right after a type-syntax delimiter, and its segments contain no
// underscores. None of those delimiters survive normalization, so in
// normalized output only a chain at the very start can match.
func stripQualifiers(name string) string {
	name = importPrefixRe.ReplaceAllString(name, "")

	var sb strings.Builder
	i := 0
	for i < len(name) {
		if (i == 0 || isQualifierDelimiter(name[i-1])) && isSegmentStart(name[i]) {
			segStart, end, segments := i, i, 0
			for {
				j := end
				for j < len(name) && isSegmentPart(name[j]) {
					j++
				}
				segments++
				segStart, end = end, j
				if end+1 < len(name) && name[end] == '.' && isSegmentStart(name[end+1]) {
					end++
					continue
				}
				break
			}
			if segments > 1 && (end == len(name) || !isIdentByte(name[end])) {
				sb.WriteString(name[segStart:end])
			} else {
				sb.WriteString(name[i:end])
			}
			i = end
			continue
		}
		sb.WriteByte(name[i])
		i++
	}
	return sb.String()
}

func isQualifierDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '<', ',', '|', '&', '(', '[', '{', ':', ';', '?':
		return true
	}
	return false
}

func isSegmentStart(c byte) bool {
	return c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSegmentPart(c byte) bool {
	return isSegmentStart(c) || (c >= '0' && c <= '9')
}

func isIdentByte(c byte) bool {
	return isSegmentPart(c) || c == '_'
}

const hexDigits = "0123456789ABCDEF"

// percentEncode escapes every byte outside the unreserved set. Existing %XX
// escapes are kept as they are.
func percentEncode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			sb.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			sb.WriteString(s[i : i+3])
			i += 2
		default:
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0F])
		}
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return true
	}
	switch c {
	case '-', '_', '.', '~', '!', '*':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
