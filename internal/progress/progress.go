// Package progress implements the pure transitions over a UserProgress document.
// Every function that returns a document returns a fresh copy; inputs are never
// modified. Callers pass the current time explicitly.
package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/linguaflash/internal/models"
)

const (
	DefaultDailyGoalMinutes = 10
	DefaultWeeklyGoalDays   = 7
)

// Catalog is the read-only content lookup the unlock rules depend on.
type Catalog interface {
	Unit(id string) (models.Unit, bool)
}

// Initialize returns a fresh document with one seeded unit. A blank userID is
// replaced by a new random identifier.
func Initialize(userID, firstUnitID string, now time.Time) *models.UserProgress {
	if userID == "" {
		userID = uuid.NewString()
	}
	return &models.UserProgress{
		SchemaVersion: models.CurrentSchemaVersion,
		UserID:        userID,
		Units: map[string]*models.UnitProgress{
			firstUnitID: newUnitProgress(),
		},
		LastActiveDate:   DateOf(now),
		Badges:           []string{},
		ActivityLog:      map[string]*models.ActivityEntry{},
		DailyGoalMinutes: DefaultDailyGoalMinutes,
		WeeklyGoalDays:   DefaultWeeklyGoalDays,
	}
}

func newUnitProgress() *models.UnitProgress {
	return &models.UnitProgress{LessonsProgress: map[string]*models.LessonProgress{}}
}

// DateOf formats the calendar date of t in t's location.
func DateOf(t time.Time) string {
	return t.Format(models.DateLayout)
}

// daysSince returns the number of calendar days from the date string to now.
// ok is false when the date cannot be parsed.
func daysSince(date string, now time.Time) (int, bool) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0, false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return int(today.Sub(d).Hours() / 24), true
}

// UpdateStreak applies the activity-day rules: same day is a no-op, the next
// day extends the streak, a longer gap restarts it at 1.
//
// One exception to the same-day no-op: Initialize stamps lastActiveDate with
// today and a zero streak, so without it the first day of activity would never
// count. When the streak is 0 on the same day, the activity starts it at 1.
func UpdateStreak(p *models.UserProgress, now time.Time) *models.UserProgress {
	out := p.Clone()
	days, ok := daysSince(out.LastActiveDate, now)
	switch {
	case ok && days <= 0:
		if out.CurrentStreak > 0 {
			return out
		}
		out.CurrentStreak = 1
	case ok && days == 1:
		out.CurrentStreak++
	default:
		out.CurrentStreak = 1
	}
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	out.LastActiveDate = DateOf(now)
	return out
}

// EffectiveStreak is the streak as it should be shown at now: a streak whose
// last activity is older than yesterday has lapsed.
func EffectiveStreak(p *models.UserProgress, now time.Time) int {
	if p == nil {
		return 0
	}
	days, ok := daysSince(p.LastActiveDate, now)
	if !ok || days > 1 {
		return 0
	}
	return p.CurrentStreak
}

// DecayStreak zeroes a lapsed streak. changed reports whether anything moved.
func DecayStreak(p *models.UserProgress, now time.Time) (out *models.UserProgress, changed bool) {
	out = p.Clone()
	if out.CurrentStreak == 0 {
		return out, false
	}
	if EffectiveStreak(out, now) == 0 {
		out.CurrentStreak = 0
		return out, true
	}
	return out, false
}

// AwardXP adds amount to the total. Negative amounts are ignored.
func AwardXP(p *models.UserProgress, amount int) *models.UserProgress {
	out := p.Clone()
	if amount > 0 {
		out.TotalXP += amount
	}
	return out
}

func HasBadge(p *models.UserProgress, badgeID string) bool {
	if p == nil {
		return false
	}
	for _, b := range p.Badges {
		if b == badgeID {
			return true
		}
	}
	return false
}

// AwardBadge appends badgeID unless it is already held.
func AwardBadge(p *models.UserProgress, badgeID string) *models.UserProgress {
	out := p.Clone()
	if badgeID == "" || HasBadge(out, badgeID) {
		return out
	}
	out.Badges = append(out.Badges, badgeID)
	return out
}

// RecordActivity accumulates one completed activity into today's log entry.
// The activity id is appended even when it is already listed.
func RecordActivity(p *models.UserProgress, activityID string, activityType models.ActivityType, minutesSpent, xpEarned int, now time.Time) *models.UserProgress {
	out := p.Clone()
	if out.ActivityLog == nil {
		out.ActivityLog = map[string]*models.ActivityEntry{}
	}
	date := DateOf(now)
	entry, ok := out.ActivityLog[date]
	if !ok {
		entry = &models.ActivityEntry{Date: date, ActivitiesCompleted: []string{}}
		out.ActivityLog[date] = entry
	}
	if minutesSpent > 0 {
		entry.MinutesSpent += minutesSpent
	}
	if xpEarned > 0 {
		entry.XPEarned += xpEarned
	}
	entry.ActivitiesCompleted = append(entry.ActivitiesCompleted, activityID)
	switch activityType {
	case models.ActivityLesson:
		entry.LessonsCompleted++
	case models.ActivityQuiz:
		entry.QuizzesCompleted++
	case models.ActivityRoleplay:
		entry.RoleplaysCompleted++
	}
	return out
}

// roundHalfUp rounds non-negative x to the nearest integer, halves going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
