package models

import "time"

// CurrentSchemaVersion is the schemaVersion written by this build.
const CurrentSchemaVersion = 1

// DateLayout is the calendar-date format used for lastActiveDate and activity log keys.
const DateLayout = "2006-01-02"

type ActivityType string

const (
	ActivityLesson   ActivityType = "lesson"
	ActivityQuiz     ActivityType = "quiz"
	ActivityRoleplay ActivityType = "roleplay"
)

// Badge identifiers.
const (
	BadgeFirstLesson         = "first_lesson"
	BadgeQuizMaster          = "quiz_master"
	BadgeConversationStarter = "conversation_starter"
	BadgePerfectScore        = "perfect_score"
	BadgeWeekOneComplete     = "week_1_complete"
)

// UserProgress is the whole persisted progress document of one user.
type UserProgress struct {
	SchemaVersion    int                       `json:"schemaVersion"`
	UserID           string                    `json:"userId"`
	Units            map[string]*UnitProgress  `json:"units"`
	TotalXP          int                       `json:"totalXP"`
	CurrentStreak    int                       `json:"currentStreak"`
	LongestStreak    int                       `json:"longestStreak"`
	LastActiveDate   string                    `json:"lastActiveDate"`
	Badges           []string                  `json:"badges"`
	ActivityLog      map[string]*ActivityEntry `json:"activityLog"`
	DailyGoalMinutes int                       `json:"dailyGoalMinutes"`
	WeeklyGoalDays   int                       `json:"weeklyGoalDays"`
}

type UnitProgress struct {
	LessonsProgress        map[string]*LessonProgress `json:"lessonsProgress"`
	FinalQuizCompleted     bool                       `json:"finalQuizCompleted"`
	FinalQuizScore         *int                       `json:"finalQuizScore,omitempty"`
	FinalRoleplayCompleted bool                       `json:"finalRoleplayCompleted"`
	IsCompleted            bool                       `json:"isCompleted"`
}

type LessonSteps struct {
	Lesson    bool `json:"lesson"`
	Quiz      bool `json:"quiz"`
	Roleplay  bool `json:"roleplay"`
	QuizScore *int `json:"quizScore,omitempty"`
}

type LessonProgress struct {
	LessonID    string      `json:"lessonId"`
	Steps       LessonSteps `json:"steps"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	XPEarned    int         `json:"xpEarned"`
}

// ActivityEntry aggregates one calendar day of activity.
type ActivityEntry struct {
	Date                string   `json:"date"`
	MinutesSpent        int      `json:"minutesSpent"`
	ActivitiesCompleted []string `json:"activitiesCompleted"`
	LessonsCompleted    int      `json:"lessonsCompleted"`
	QuizzesCompleted    int      `json:"quizzesCompleted"`
	RoleplaysCompleted  int      `json:"roleplaysCompleted"`
	XPEarned            int      `json:"xpEarned"`
}

type GoalProgress struct {
	Current    int  `json:"current"`
	Target     int  `json:"target"`
	Percentage int  `json:"percentage"`
	IsComplete bool `json:"isComplete"`
}

// Clone returns a deep copy of the document.
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}
	out := *p
	if p.Units != nil {
		out.Units = make(map[string]*UnitProgress, len(p.Units))
		for id, u := range p.Units {
			out.Units[id] = u.Clone()
		}
	}
	if p.Badges != nil {
		out.Badges = append(make([]string, 0, len(p.Badges)), p.Badges...)
	}
	if p.ActivityLog != nil {
		out.ActivityLog = make(map[string]*ActivityEntry, len(p.ActivityLog))
		for d, e := range p.ActivityLog {
			out.ActivityLog[d] = e.Clone()
		}
	}
	return &out
}

func (u *UnitProgress) Clone() *UnitProgress {
	if u == nil {
		return nil
	}
	out := *u
	out.FinalQuizScore = cloneInt(u.FinalQuizScore)
	if u.LessonsProgress != nil {
		out.LessonsProgress = make(map[string]*LessonProgress, len(u.LessonsProgress))
		for id, lp := range u.LessonsProgress {
			out.LessonsProgress[id] = lp.Clone()
		}
	}
	return &out
}

func (lp *LessonProgress) Clone() *LessonProgress {
	if lp == nil {
		return nil
	}
	out := *lp
	out.Steps.QuizScore = cloneInt(lp.Steps.QuizScore)
	if lp.CompletedAt != nil {
		t := *lp.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

func (e *ActivityEntry) Clone() *ActivityEntry {
	if e == nil {
		return nil
	}
	out := *e
	if e.ActivitiesCompleted != nil {
		out.ActivitiesCompleted = append(make([]string, 0, len(e.ActivitiesCompleted)), e.ActivitiesCompleted...)
	}
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
