package classify

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/yiblet/clipkeep/internal/store"
)

// detector matches text of one item type.
type detector struct {
	typ   store.ItemType
	match func(s string) bool
}

// detectors are tried in order; the first match wins. More specific
// formats come before looser ones, and text is the fallback.
var detectors = []detector{
	{store.TypeRTF, isRTF},
	{store.TypeJSON, isJSON},
	{store.TypeURL, isURL},
	{store.TypeEmail, isEmail},
	{store.TypePhone, isPhone},
	{store.TypeXML, isXML},
	{store.TypeCode, isCode},
}

// DetectTextType returns the item type for a text representation.
func DetectTextType(text string) store.ItemType {
	s := strings.TrimSpace(text)
	if s == "" {
		return store.TypeText
	}
	for _, d := range detectors {
		if d.match(s) {
			return d.typ
		}
	}
	return store.TypeText
}

func isRTF(s string) bool {
	return strings.HasPrefix(s, `{\rtf`)
}

func isJSON(s string) bool {
	if s[0] != '{' && s[0] != '[' {
		return false
	}
	return json.Valid([]byte(s))
}

// opaqueSchemes are schemes that are URLs without an authority part.
var opaqueSchemes = map[string]bool{
	"mailto": true,
	"tel":    true,
	"sms":    true,
	"data":   true,
	"file":   true,
	"magnet": true,
	"urn":    true,
	"about":  true,
}

func isURL(s string) bool {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	if u.Host != "" {
		return true
	}
	return opaqueSchemes[strings.ToLower(u.Scheme)] && (u.Opaque != "" || u.Path != "")
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

func isEmail(s string) bool {
	return emailPattern.MatchString(s)
}

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9 ()\-.]*[0-9]$`)
	datePattern  = regexp.MustCompile(`^\d{4}[-.]\d{1,2}[-.]\d{1,2}$`)
)

func isPhone(s string) bool {
	if !phonePattern.MatchString(s) || datePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

func isXML(s string) bool {
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") {
		return false
	}

	dec := xml.NewDecoder(strings.NewReader(s))
	elements := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false
		}
		if _, ok := tok.(xml.StartElement); ok {
			elements++
		}
	}
	return elements > 0
}

// codeMarkers are fragments that rarely appear in prose.
var codeMarkers = []string{
	"func ", "def ", "class ", "import ", "package ", "return ",
	"#include", "const ", "let ", "var ", "=>", "->", "!=", "==",
	"){", ") {", "};", "();", "</", "fn ", "public ", "private ",
}

func isCode(s string) bool {
	if !strings.Contains(s, "\n") {
		return false
	}
	hits := 0
	for _, m := range codeMarkers {
		if strings.Contains(s, m) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
