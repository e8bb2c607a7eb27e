package domain

// HistoryLimit caps the reward history retention window.
const HistoryLimit = 7

// RewardState is the star/combo ledger. TotalStars only ever grows;
// TodayStars and CurrentCombo reset exactly once per calendar-date rollover.
type RewardState struct {
	TotalStars      int
	TodayStars      int
	DailyGoal       int
	CurrentCombo    int
	History         []DailyRecord // newest first, length <= HistoryLimit
	LastUpdatedDate string        // "2006-01-02"

	// Intra-day counters feeding the archival snapshot at rollover.
	TodayCompletions int
	TodayOnTime      int
	TodayTotalTasks  int
	DailyBonusGiven  bool
}

// DailyRecord is an archival snapshot of one finished day.
type DailyRecord struct {
	Date              string
	Earned            int
	ComboCount        int
	CompletedTasks    int
	TotalTasks        int
	OnTimeCompletions int
}

// DefaultRewardState returns the ledger used when nothing is stored yet.
func DefaultRewardState() RewardState {
	return RewardState{DailyGoal: 5}
}
