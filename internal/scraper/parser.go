package scraper

import (
	"fmt"
	"strings"

	"github.com/spigell/profile-analyzer/internal/profile"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the rendered public profile page.
const (
	nameSelector       = "h1"
	headlineSelector   = ".text-body-medium"
	aboutSelector      = "#about"
	experienceSelector = "#experience"
	educationSelector  = "#education"
	skillsSelector     = "#skills"
	sectionItems       = "li.artdeco-list__item"
	visibleText        = "span[aria-hidden='true']"
)

// ParseProfile extracts the profile fields from a rendered profile page.
func ParseProfile(html string) (*profile.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse profile page: %v", profile.ErrProfileRetrieval, err)
	}

	record := &profile.Record{
		Name:     cleanText(doc.Find(nameSelector).First().Text()),
		Headline: cleanText(doc.Find(headlineSelector).First().Text()),
		Summary:  sectionSummary(doc),
	}

	record.Experience = sectionEntries(doc, experienceSelector, []string{"title", "companyName", "period", "locationName"})
	record.Education = sectionEntries(doc, educationSelector, []string{"schoolName", "degreeName", "period"})

	sectionItemsOf(doc, skillsSelector).Each(func(_ int, s *goquery.Selection) {
		if name := firstVisible(s); name != "" {
			record.Skills = append(record.Skills, name)
		}
	})

	if record.Name == "" && record.Headline == "" && len(record.Experience) == 0 {
		return nil, fmt.Errorf("%w: page does not look like a profile", profile.ErrProfileRetrieval)
	}

	return record, nil
}

// Profile pages place an empty anchor div with the section id right before
// the section content, so the enclosing section is used.
func sectionItemsOf(doc *goquery.Document, anchor string) *goquery.Selection {
	return doc.Find(anchor).Closest("section").Find(sectionItems)
}

func sectionSummary(doc *goquery.Document) string {
	section := doc.Find(aboutSelector).Closest("section")
	if section.Length() == 0 {
		return ""
	}

	parts := make([]string, 0)
	section.Find(visibleText).Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" && !strings.EqualFold(text, "About") {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}

// sectionEntries maps the visible text lines of each list item to keys in order.
func sectionEntries(doc *goquery.Document, anchor string, keys []string) []profile.Entry {
	entries := make([]profile.Entry, 0)

	sectionItemsOf(doc, anchor).Each(func(_ int, s *goquery.Selection) {
		entry := profile.Entry{}
		i := 0
		s.Find(visibleText).Each(func(_ int, line *goquery.Selection) {
			if i >= len(keys) {
				return
			}
			if text := cleanText(line.Text()); text != "" {
				entry[keys[i]] = text
				i++
			}
		})
		if len(entry) > 0 {
			entries = append(entries, entry)
		}
	})

	return entries
}

func firstVisible(s *goquery.Selection) string {
	var out string
	s.Find(visibleText).EachWithBreak(func(_ int, line *goquery.Selection) bool {
		out = cleanText(line.Text())
		return out == ""
	})
	return out
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
