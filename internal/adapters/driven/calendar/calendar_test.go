package calendar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

func TestDefault_Lookup(t *testing.T) {
	cal, err := Default()
	require.NoError(t, err)

	tests := []struct {
		date       domain.ServiceDate
		seasonID   string
		color      string
		specialDay string
	}{
		{"12/1/24", "advent", "blue", ""},
		{"12/24/24", "advent", "white", "christmas_eve"},
		{"12/25/24", "christmas", "white", "christmas_day"},
		{"3/5/25", "lent", "purple", "ash_wednesday"},
		{"4/13/25", "lent", "scarlet", "palm_sunday"},
		{"4/20/25", "easter", "white", "easter_day"},
		{"6/8/25", "pentecost", "red", "pentecost_day"},
		{"7/13/25", "pentecost", "green", ""},
		{"11/30/25", "advent", "blue", ""},
		{"1/6/26", "epiphany", "white", "epiphany_day"},
		{"2/18/26", "lent", "purple", "ash_wednesday"},
		{"4/5/26", "easter", "white", "easter_day"},
		{"5/24/26", "pentecost", "red", "pentecost_day"},
		{"11/29/26", "advent", "blue", ""},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			info, err := cal.Lookup(context.Background(), tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.seasonID, info.SeasonID)
			assert.Equal(t, tt.color, info.Color)
			assert.Equal(t, tt.specialDay, info.SpecialDayID)
		})
	}
}

func TestLookup_OutsideCalendarIsOrdinaryTime(t *testing.T) {
	cal, err := Default()
	require.NoError(t, err)

	info, err := cal.Lookup(context.Background(), "7/4/30")
	require.NoError(t, err)
	assert.Equal(t, &domain.LiturgicalContext{SeasonID: "ordinary", SeasonName: "Ordinary Time", Color: "green"}, info)
}

func TestLookup_InvalidDate(t *testing.T) {
	cal, err := Default()
	require.NoError(t, err)

	_, err = cal.Lookup(context.Background(), "2025-07-13")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "end before start",
			yaml:    "seasons:\n  - {id: lent, name: Lent, color: purple, start: 2025-04-19, end: 2025-03-05}\n",
			wantErr: "before start",
		},
		{
			name: "overlapping seasons",
			yaml: "seasons:\n" +
				"  - {id: lent, name: Lent, color: purple, start: 2025-03-05, end: 2025-04-20}\n" +
				"  - {id: easter, name: Easter, color: white, start: 2025-04-20, end: 2025-06-07}\n",
			wantErr: "overlaps",
		},
		{
			name: "duplicate special day",
			yaml: "special_days:\n" +
				"  - {id: a, name: A, date: 2025-04-20}\n" +
				"  - {id: b, name: B, date: 2025-04-20}\n",
			wantErr: "share date",
		},
		{
			name:    "missing name",
			yaml:    "special_days:\n  - {id: a, date: 2025-04-20}\n",
			wantErr: "required",
		},
		{
			name:    "unknown field",
			yaml:    "seasons:\n  - {id: lent, name: Lent, colour: purple, start: 2025-03-05, end: 2025-04-19}\n",
			wantErr: "parse calendar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EmptyCalendar(t *testing.T) {
	cal, err := Load(strings.NewReader(""))
	require.NoError(t, err)

	info, err := cal.Lookup(context.Background(), "12/25/25")
	require.NoError(t, err)
	assert.Equal(t, "ordinary", info.SeasonID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.yaml")
	content := "seasons:\n" +
		"  - {id: kingdomtide, name: Kingdomtide, color: red, start: 2025-08-31, end: 2025-11-22}\n" +
		"special_days:\n" +
		"  - {id: homecoming, name: Homecoming Sunday, date: 2025-09-14}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cal, err := LoadFile(path)
	require.NoError(t, err)

	info, err := cal.Lookup(context.Background(), "9/14/25")
	require.NoError(t, err)
	assert.Equal(t, "kingdomtide", info.SeasonID)
	assert.Equal(t, "red", info.Color)
	assert.Equal(t, "Homecoming Sunday", info.SpecialDayName)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
