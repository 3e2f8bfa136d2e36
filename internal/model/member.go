package model

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Points    int    `json:"points"`
}

// LeaderboardEntry is a member ranked by points.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	Member          Member `json:"member"`
	ChoresCompleted int    `json:"choresCompleted"`
}
