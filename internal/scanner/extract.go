package scanner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContactInfo holds contact channels pulled out of a single page.
type ContactInfo struct {
	Emails       []string
	Phones       []string
	ContactForms []string
}

// ExtractSocialLinks scans every anchor href against the platform pattern
// table. Relative hrefs are resolved against the page URL before matching,
// and results are deduplicated within the page.
func ExtractSocialLinks(doc *goquery.Document, pageURL *url.URL) map[string][]string {
	links := map[string][]string{}
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		resolved := resolveURL(pageURL, href)
		if resolved == "" {
			return
		}

		for platform, patterns := range socialPatterns {
			for _, pattern := range patterns {
				if !pattern.MatchString(resolved) {
					continue
				}
				key := platform + "\x00" + resolved
				if !seen[key] {
					seen[key] = true
					links[platform] = append(links[platform], resolved)
				}
				break
			}
		}
	})

	return links
}

// ExtractContactInfo pulls emails and phone numbers from the page text and
// contact-form endpoints from forms that carry an email field.
func ExtractContactInfo(doc *goquery.Document, pageURL *url.URL) ContactInfo {
	info := ContactInfo{}

	text := doc.Text()
	info.Emails = dedupe(emailPattern.FindAllString(text, -1))

	phones := []string{}
	for _, pattern := range phonePatterns {
		phones = append(phones, pattern.FindAllString(text, -1)...)
	}
	info.Phones = dedupe(phones)

	forms := []string{}
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		if !hasEmailField(form) {
			return
		}
		action, _ := form.Attr("action")
		action = strings.TrimSpace(action)
		if action == "" {
			return
		}
		if resolved := resolveURL(pageURL, action); resolved != "" {
			forms = append(forms, resolved)
		}
	})
	info.ContactForms = dedupe(forms)

	return info
}

func hasEmailField(form *goquery.Selection) bool {
	found := false
	form.Find("input, textarea").EachWithBreak(func(_ int, input *goquery.Selection) bool {
		for _, attr := range []string{"name", "type", "id"} {
			if v, ok := input.Attr(attr); ok && strings.Contains(strings.ToLower(v), "email") {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
