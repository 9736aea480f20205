package progress

const PerfectScore = 100

// XP schedule.
const (
	XPLesson           = 20
	XPQuiz             = 10
	XPQuizPerfect      = 15
	XPRoleplay         = 20
	XPFinalQuiz        = 100
	XPFinalQuizPerfect = 120
	XPFinalRoleplay    = 150
)

// Minutes credited to the activity log when the client does not report time spent.
const (
	MinutesLesson        = 5
	MinutesQuiz          = 3
	MinutesRoleplay      = 5
	MinutesFinalQuiz     = 10
	MinutesFinalRoleplay = 10
)

func QuizXP(score int) int {
	if score >= PerfectScore {
		return XPQuizPerfect
	}
	return XPQuiz
}

func FinalQuizXP(score int) int {
	if score >= PerfectScore {
		return XPFinalQuizPerfect
	}
	return XPFinalQuiz
}
