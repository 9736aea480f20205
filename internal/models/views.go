package models

// CompletionResult is returned by every completion event.
type CompletionResult struct {
	Progress   *UserProgress `json:"progress"`
	XPAwarded  int           `json:"xpAwarded"`
	NewBadges  []string      `json:"newBadges"`
	NextLesson *Lesson       `json:"nextLesson,omitempty"`
	Saved      bool          `json:"saved"`
}

// UnitOverview is the read-only gate view of one unit for one user.
type UnitOverview struct {
	UnitID                 string           `json:"unitId"`
	Title                  string           `json:"title"`
	Percentage             int              `json:"percentage"`
	IsCompleted            bool             `json:"isCompleted"`
	Lessons                []LessonOverview `json:"lessons"`
	FinalQuizUnlocked      bool             `json:"finalQuizUnlocked"`
	FinalQuizCompleted     bool             `json:"finalQuizCompleted"`
	FinalRoleplayUnlocked  bool             `json:"finalRoleplayUnlocked"`
	FinalRoleplayCompleted bool             `json:"finalRoleplayCompleted"`
}

type LessonOverview struct {
	LessonID  string      `json:"lessonId"`
	Title     string      `json:"title"`
	Unlocked  bool        `json:"unlocked"`
	Completed bool        `json:"completed"`
	Steps     LessonSteps `json:"steps"`
	XPEarned  int         `json:"xpEarned"`
}

// GoalsView combines both goals with the streak as it stands today.
type GoalsView struct {
	Daily         GoalProgress `json:"daily"`
	Weekly        GoalProgress `json:"weekly"`
	CurrentStreak int          `json:"currentStreak"`
	LongestStreak int          `json:"longestStreak"`
	TotalXP       int          `json:"totalXP"`
}
