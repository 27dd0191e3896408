package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spigell/profile-analyzer/internal/profile"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const skillsPerPage = "100"

type profileView struct {
	Profile struct {
		FirstName string `mapstructure:"firstName"`
		LastName  string `mapstructure:"lastName"`
		Headline  string `mapstructure:"headline"`
		Summary   string `mapstructure:"summary"`
	} `mapstructure:"profile"`
	PositionView struct {
		Elements []position `mapstructure:"elements"`
	} `mapstructure:"positionView"`
	EducationView struct {
		Elements []education `mapstructure:"elements"`
	} `mapstructure:"educationView"`
}

type position struct {
	Title        string     `mapstructure:"title"`
	CompanyName  string     `mapstructure:"companyName"`
	LocationName string     `mapstructure:"locationName"`
	Description  string     `mapstructure:"description"`
	TimePeriod   timePeriod `mapstructure:"timePeriod"`
}

type education struct {
	SchoolName   string     `mapstructure:"schoolName"`
	DegreeName   string     `mapstructure:"degreeName"`
	FieldOfStudy string     `mapstructure:"fieldOfStudy"`
	TimePeriod   timePeriod `mapstructure:"timePeriod"`
}

type timePeriod struct {
	StartDate *date `mapstructure:"startDate"`
	EndDate   *date `mapstructure:"endDate"`
}

type date struct {
	Month int `mapstructure:"month"`
	Year  int `mapstructure:"year"`
}

type skill struct {
	Name string `mapstructure:"name"`
}

// FetchProfile looks up the profile and its skills by public identifier.
func (c *Client) FetchProfile(ctx context.Context, id string) (*profile.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: profile identifier is required", profile.ErrProfileRetrieval)
	}

	escaped := url.PathEscape(id)

	var raw map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("/identity/profiles/%s/profileView", escaped), nil, &raw); err != nil {
		return nil, retrievalError(id, err)
	}

	var view profileView
	if err := mapstructure.Decode(raw, &view); err != nil {
		return nil, fmt.Errorf("%w: decode profile %q: %v", profile.ErrProfileRetrieval, id, err)
	}

	skills, err := c.fetchSkills(ctx, escaped)
	if err != nil {
		return nil, retrievalError(id, err)
	}

	record := &profile.Record{
		FirstName:  view.Profile.FirstName,
		LastName:   view.Profile.LastName,
		Headline:   view.Profile.Headline,
		Summary:    view.Profile.Summary,
		Experience: make([]profile.Entry, 0, len(view.PositionView.Elements)),
		Education:  make([]profile.Entry, 0, len(view.EducationView.Elements)),
		Skills:     skills,
	}

	for _, p := range view.PositionView.Elements {
		record.Experience = append(record.Experience, p.entry())
	}

	for _, e := range view.EducationView.Elements {
		record.Education = append(record.Education, e.entry())
	}

	c.logger.Info("profile fetched",
		zap.String("profile_id", id),
		zap.Int("experience", len(record.Experience)),
		zap.Int("education", len(record.Education)),
		zap.Int("skills", len(record.Skills)),
	)

	return record, nil
}

func (c *Client) fetchSkills(ctx context.Context, escapedID string) ([]string, error) {
	q := url.Values{}
	q.Set("count", skillsPerPage)
	q.Set("start", "0")

	var raw struct {
		Elements []map[string]any `json:"elements"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/identity/profiles/%s/skills", escapedID), q, &raw); err != nil {
		return nil, err
	}

	var skills []skill
	if err := mapstructure.Decode(raw.Elements, &skills); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

func retrievalError(id string, err error) error {
	var se *statusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%w: profile %q not found", profile.ErrProfileRetrieval, id)
	}
	return fmt.Errorf("%w: profile %q: %v", profile.ErrProfileRetrieval, id, err)
}

func (p position) entry() profile.Entry {
	return compact(profile.Entry{
		"title":        p.Title,
		"companyName":  p.CompanyName,
		"locationName": p.LocationName,
		"description":  p.Description,
		"period":       p.TimePeriod.String(),
	})
}

func (e education) entry() profile.Entry {
	return compact(profile.Entry{
		"schoolName":   e.SchoolName,
		"degreeName":   e.DegreeName,
		"fieldOfStudy": e.FieldOfStudy,
		"period":       e.TimePeriod.String(),
	})
}

// compact drops empty string values.
func compact(e profile.Entry) profile.Entry {
	for k, v := range e {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			delete(e, k)
		}
	}
	return e
}

func (t timePeriod) String() string {
	if t.StartDate == nil {
		return ""
	}

	end := "present"
	if t.EndDate != nil {
		end = t.EndDate.String()
	}

	return t.StartDate.String() + " to " + end
}

func (d *date) String() string {
	if d.Month > 0 {
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	}
	return fmt.Sprintf("%04d", d.Year)
}
