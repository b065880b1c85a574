// Package calendar resolves liturgical seasons and special days from a YAML calendar file.
package calendar

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LiturgicalCalendar = (*Calendar)(nil)

//go:embed default_calendar.yaml
var defaultCalendar []byte

const dayLayout = "2006-01-02"

// Ordinary Time is returned for dates outside every configured season
const (
	ordinaryID    = "ordinary"
	ordinaryName  = "Ordinary Time"
	ordinaryColor = "green"
)

// File is the on-disk calendar format
type File struct {
	Seasons     []Season     `yaml:"seasons"`
	SpecialDays []SpecialDay `yaml:"special_days"`
}

// Season is an inclusive date range with a liturgical color
type Season struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Color string    `yaml:"color"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// SpecialDay is a festival on a single date. Color is optional and
// overrides the season color when set.
type SpecialDay struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Color string    `yaml:"color,omitempty"`
	Date  time.Time `yaml:"date"`
}

// Calendar implements driven.LiturgicalCalendar over an in-memory calendar
type Calendar struct {
	seasons []Season
	special map[string]SpecialDay
}

// Default loads the calendar compiled into the binary
func Default() (*Calendar, error) {
	return Load(bytes.NewReader(defaultCalendar))
}

// LoadFile loads a calendar from a YAML file
func LoadFile(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a YAML calendar. Unknown fields are rejected.
func Load(r io.Reader) (*Calendar, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	return New(file)
}

// New builds a Calendar from already-parsed entries
func New(file File) (*Calendar, error) {
	seasons := make([]Season, len(file.Seasons))
	copy(seasons, file.Seasons)
	for i, s := range seasons {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("season %d: id and name are required", i)
		}
		if s.End.Before(s.Start) {
			return nil, fmt.Errorf("season %s: end %s is before start %s", s.ID, s.End.Format(dayLayout), s.Start.Format(dayLayout))
		}
	}
	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].Start.Before(seasons[j].Start)
	})
	for i := 1; i < len(seasons); i++ {
		if !seasons[i].Start.After(seasons[i-1].End) {
			return nil, fmt.Errorf("season %s starting %s overlaps %s", seasons[i].ID, seasons[i].Start.Format(dayLayout), seasons[i-1].ID)
		}
	}

	special := make(map[string]SpecialDay, len(file.SpecialDays))
	for i, d := range file.SpecialDays {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("special day %d: id and name are required", i)
		}
		key := d.Date.Format(dayLayout)
		if prev, dup := special[key]; dup {
			return nil, fmt.Errorf("special days %s and %s share date %s", prev.ID, d.ID, key)
		}
		special[key] = d
	}

	return &Calendar{seasons: seasons, special: special}, nil
}

// Lookup returns the season and special day for a service date
func (c *Calendar) Lookup(ctx context.Context, date domain.ServiceDate) (*domain.LiturgicalContext, error) {
	day := date.Time()
	if day.IsZero() {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, date)
	}

	info := &domain.LiturgicalContext{
		SeasonID:   ordinaryID,
		SeasonName: ordinaryName,
		Color:      ordinaryColor,
	}
	if s, ok := c.season(day); ok {
		info.SeasonID = s.ID
		info.SeasonName = s.Name
		info.Color = s.Color
	}
	if d, ok := c.special[day.Format(dayLayout)]; ok {
		info.SpecialDayID = d.ID
		info.SpecialDayName = d.Name
		if d.Color != "" {
			info.Color = d.Color
		}
	}
	return info, nil
}

func (c *Calendar) season(day time.Time) (Season, bool) {
	// first season ending on or after day
	i := sort.Search(len(c.seasons), func(i int) bool {
		return !dateOnly(c.seasons[i].End).Before(day)
	})
	if i < len(c.seasons) && !day.Before(dateOnly(c.seasons[i].Start)) {
		return c.seasons[i], true
	}
	return Season{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
