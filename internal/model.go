package internal

import "time"

type Category string

const (
	CategoryDSA     Category = "DSA"
	CategoryBackend Category = "Backend"
	CategoryCustom  Category = "Custom"
)

type ResourceType string

const (
	ResourceDocumentation ResourceType = "Documentation"
	ResourceVideo         ResourceType = "Video"
	ResourceArticle       ResourceType = "Article"
	ResourceCourse        ResourceType = "Course"
	ResourceGitHub        ResourceType = "GitHub"
	ResourceOther         ResourceType = "Other"
)

// User is never serialized to API clients directly; handlers return Profile.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the user's public fields. Email is only kept when withEmail is set.
func (u *User) Profile(withEmail bool) Profile {
	p := Profile{
		ID:        u.ID,
		Name:      u.Name,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		IsPublic:  u.IsPublic,
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		p.Email = u.Email
	}
	return p
}

type Topic struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyLog struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TopicID        string    `json:"topic_id"`
	Date           time.Time `json:"date"`
	Energy         int       `json:"energy"` // 1-5
	ProblemsSolved int       `json:"problems_solved"`
	RevisionVolume int       `json:"revision_volume"`
	BackendWork    string    `json:"backend_work,omitempty"`
	TechUsed       string    `json:"tech_used,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	ProblemURLs    []string  `json:"problem_urls"`
	Stars          int       `json:"stars"` // 1-5
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

type BackendSkill struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Skill         string    `json:"skill"`
	Practiced     bool      `json:"practiced"`
	UsedInProject bool      `json:"used_in_project"`
	Confidence    int       `json:"confidence"` // 1-5
	CreatedAt     time.Time `json:"created_at"`
}

type Resource struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
	Type        ResourceType `json:"type"`
	TopicID     string       `json:"topic_id,omitempty"`
	Upvotes     int          `json:"upvotes"`
	IsPublic    bool         `json:"is_public"`
	CreatedAt   time.Time    `json:"created_at"`
}

// --- Joined read models ---

type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type TopicRef struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

type TopicWithCount struct {
	Topic
	LogCount int `json:"log_count"`
}

type TopicTotals struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	TotalProblems int      `json:"total_problems"`
	LogCount      int      `json:"log_count"`
}

type LogWithTopic struct {
	DailyLog
	Topic TopicRef `json:"topic"`
}

type FeedEntry struct {
	DailyLog
	User  UserRef  `json:"user"`
	Topic TopicRef `json:"topic"`
}

type ResourceEntry struct {
	Resource
	User  *UserRef  `json:"user,omitempty"`
	Topic *TopicRef `json:"topic,omitempty"`
}

// LogTotals is the aggregate of a filtered set of logs.
type LogTotals struct {
	Problems  int
	Revisions int
	Stars     int
	Count     int
}
