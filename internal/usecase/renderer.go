package usecase

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"resume-service/internal/domain"
	"resume-service/internal/model"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	skillSeparator    = " • "
	locationDelimiter = " | "
)

// DocumentBody is a fully composed résumé before it is turned into a PDF.
type DocumentBody struct {
	Variant domain.Variant
	Subject string
	HTML    string
}

type contactItem struct {
	Label string
	Href  template.URL
}

type experienceView struct {
	Role         string
	Company      string
	PeriodLine   string
	Description  string
	Highlights   []string
	Technologies string
}

type educationView struct {
	Degree     string
	SchoolLine string
}

type documentView struct {
	Variant     string
	Person      model.PersonalInfo
	Contacts    []contactItem
	Summary     string
	Skills      string
	Experiences []experienceView
	Education   []educationView
}

// RenderDocument renders content with the template of variant v. It does no
// I/O and returns the same body for the same input. Experiences, education
// and skills are sorted by their Order field; the input slices are left
// untouched.
func RenderDocument(v domain.Variant, c model.Content) (DocumentBody, error) {
	var name string
	switch v {
	case domain.VariantAIOptimized:
		name = "ai-optimized.html"
	case domain.VariantTraditional:
		name = "traditional.html"
	default:
		return DocumentBody{}, domain.NewInvalidVariant(v.String(), "unknown variant")
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, buildView(v, c)); err != nil {
		return DocumentBody{}, domain.NewRenderBackend("template execution failed", err)
	}
	return DocumentBody{Variant: v, Subject: Subject(c.PersonalInfo.Name), HTML: buf.String()}, nil
}

func buildView(v domain.Variant, c model.Content) documentView {
	view := documentView{
		Variant:  v.String(),
		Person:   c.PersonalInfo,
		Contacts: contacts(c.PersonalInfo),
		Summary:  strings.TrimSpace(c.PersonalInfo.Subtitle),
	}

	skills := append([]model.Skill(nil), c.Skills...)
	sort.SliceStable(skills, func(i, j int) bool { return skills[i].Order < skills[j].Order })
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := strings.TrimSpace(s.Name); n != "" {
			names = append(names, n)
		}
	}
	view.Skills = strings.Join(names, skillSeparator)

	exps := append([]model.Experience(nil), c.Experiences...)
	sort.SliceStable(exps, func(i, j int) bool { return exps[i].Order < exps[j].Order })
	for _, e := range exps {
		view.Experiences = append(view.Experiences, experienceView{
			Role:         e.Role,
			Company:      e.Company,
			PeriodLine:   joinNonEmpty(locationDelimiter, e.Period, e.Location),
			Description:  strings.TrimSpace(e.Description),
			Highlights:   nonBlank(e.Highlights),
			Technologies: strings.Join(nonBlank(e.Technologies), ", "),
		})
	}

	edu := append([]model.Education(nil), c.Education...)
	sort.SliceStable(edu, func(i, j int) bool { return edu[i].Order < edu[j].Order })
	for _, e := range edu {
		view.Education = append(view.Education, educationView{
			Degree:     e.Degree,
			SchoolLine: joinNonEmpty(locationDelimiter, e.School, e.Period),
		})
	}
	return view
}

func contacts(p model.PersonalInfo) []contactItem {
	var out []contactItem
	if e := strings.TrimSpace(p.Email); e != "" {
		out = append(out, contactItem{Label: e, Href: template.URL("mailto:" + e)})
	}
	if ph := strings.TrimSpace(p.Phone); ph != "" {
		out = append(out, contactItem{Label: ph, Href: template.URL("tel:" + strings.ReplaceAll(ph, " ", ""))})
	}
	for _, s := range []struct{ handle, base string }{
		{p.LinkedIn, "https://www.linkedin.com/in/"},
		{p.Twitter, "https://twitter.com/"},
		{p.GitHub, "https://github.com/"},
	} {
		if item, ok := socialLink(s.handle, s.base); ok {
			out = append(out, item)
		}
	}
	return out
}

// socialLink accepts a bare handle ("ada", "@ada"), a host path
// ("github.com/ada") or a full URL and labels it as registrable domain + path.
func socialLink(handle, base string) (contactItem, bool) {
	h := strings.TrimSpace(handle)
	if h == "" {
		return contactItem{}, false
	}
	raw := h
	switch {
	case strings.HasPrefix(h, "http://"), strings.HasPrefix(h, "https://"):
	case strings.Contains(h, "."):
		raw = "https://" + h
	default:
		raw = base + strings.TrimPrefix(h, "@")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return contactItem{Label: h}, true
	}
	host := u.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld
	}
	label := strings.TrimPrefix(host, "www.") + strings.TrimSuffix(u.EscapedPath(), "/")
	return contactItem{Label: label, Href: template.URL(u.String())}, true
}

// letterFolds covers Latin letters that have no canonical decomposition, so
// stripping combining marks alone would drop them.
var letterFolds = strings.NewReplacer(
	"ł", "l", "đ", "d", "ø", "o", "ħ", "h", "ı", "i",
	"ß", "ss", "æ", "ae", "œ", "oe", "þ", "th", "ð", "d",
)

// foldASCII lower-cases name and removes diacritics, e.g. "Łukasz Żak" ->
// "lukasz zak".
func foldASCII(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}
	return letterFolds.Replace(folded)
}

// Subject turns a person's name into the file name prefix, e.g.
// "Ada Lovelace" -> "ada-lovelace", "Renée Żak" -> "renee-zak".
func Subject(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range foldASCII(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "resume"
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
