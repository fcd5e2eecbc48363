// Package seed loads demo accounts with two weeks of practice history.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/dates"
	"github.com/yourname/devtrack/internal/service"
	"github.com/yourname/devtrack/internal/storage"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"

	NinjaEmail    = "ninja@example.com"
	NinjaPassword = "test123"
)

type account struct {
	name     string
	email    string
	password string
	bio      string
	topics   []topicSpec
	skills   []skillSpec
	days     int
	logFn    func(r *rand.Rand) logSpec
}

type topicSpec struct {
	name     string
	category internal.Category
}

type skillSpec struct {
	skill         string
	practiced     bool
	usedInProject bool
	confidence    int
}

type logSpec struct {
	energy, problems, revisions, stars int
	techUsed, notes                    string
	public                             bool
}

var (
	techStack = []string{"Node.js", "TypeScript", "PostgreSQL", "Redis"}
	notes     = []string{"Great session today!", "Need more practice", "Finally understood the concept", "Reviewed old problems", ""}
)

var accounts = []account{
	{
		name:     "Demo Developer",
		email:    DemoEmail,
		password: DemoPassword,
		bio:      "Full-stack dev on a DSA & backend mastery journey",
		topics: []topicSpec{
			{"Arrays", internal.CategoryDSA},
			{"Graphs", internal.CategoryDSA},
			{"Dynamic Programming", internal.CategoryDSA},
			{"Trees", internal.CategoryDSA},
			{"REST APIs", internal.CategoryBackend},
			{"Database Design", internal.CategoryBackend},
			{"System Design", internal.CategoryCustom},
		},
		skills: []skillSpec{
			{"Node.js", true, true, 4},
			{"PostgreSQL", true, true, 4},
			{"Redis", true, false, 2},
			{"Docker", true, true, 3},
			{"Kubernetes", false, false, 1},
			{"GraphQL", true, false, 2},
		},
		days: 14,
		logFn: func(r *rand.Rand) logSpec {
			return logSpec{
				energy:    r.Intn(5) + 1,
				problems:  r.Intn(8),
				revisions: r.Intn(15),
				stars:     r.Intn(3) + 3,
				techUsed:  techStack[r.Intn(len(techStack))],
				notes:     notes[r.Intn(len(notes))],
				public:    r.Float64() > 0.2,
			}
		},
	},
	{
		name:     "Code Ninja",
		email:    NinjaEmail,
		password: NinjaPassword,
		bio:      "Learning DSA one problem at a time",
		topics: []topicSpec{
			{"Linked Lists", internal.CategoryDSA},
			{"Recursion", internal.CategoryDSA},
		},
		days: 6,
		logFn: func(r *rand.Rand) logSpec {
			return logSpec{
				energy:    r.Intn(5) + 1,
				problems:  r.Intn(6) + 1,
				revisions: r.Intn(10),
				stars:     r.Intn(2) + 4,
				public:    true,
			}
		},
	},
}

type Summary struct {
	Users   int
	Skipped int
	Topics  int
	Logs    int
	Skills  int
}

// Run creates the demo accounts. Accounts whose email is already registered are
// left untouched, so running it twice is harmless.
func Run(ctx context.Context, store storage.Store, logger internal.Logger, now time.Time, r *rand.Rand) (*Summary, error) {
	sum := &Summary{}
	for _, acc := range accounts {
		_, err := store.GetUserByEmail(ctx, acc.email)
		if err == nil {
			logger.Infof("seed: %s already exists, skipping", acc.email)
			sum.Skipped++
			continue
		}
		if !errors.Is(err, internal.ErrNotFound) {
			return nil, fmt.Errorf("seed: looking up %s: %w", acc.email, err)
		}
		if err := seedAccount(ctx, store, acc, now, r, sum); err != nil {
			return nil, err
		}
		logger.Infof("seed: created %s", acc.email)
	}
	return sum, nil
}

func seedAccount(ctx context.Context, store storage.Store, acc account, now time.Time, r *rand.Rand, sum *Summary) error {
	hash, err := service.HashPassword(acc.password)
	if err != nil {
		return fmt.Errorf("seed: hashing password: %w", err)
	}
	user := &internal.User{
		ID:           uuid.NewString(),
		Name:         acc.name,
		Email:        acc.email,
		PasswordHash: hash,
		Bio:          acc.bio,
		IsPublic:     true,
		CreatedAt:    now.UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("seed: creating %s: %w", acc.email, err)
	}
	sum.Users++

	topics := make([]*internal.Topic, 0, len(acc.topics))
	for i, ts := range acc.topics {
		t := &internal.Topic{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Name:      ts.name,
			Category:  ts.category,
			CreatedAt: now.UTC().Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateTopic(ctx, t); err != nil {
			return fmt.Errorf("seed: creating topic %q: %w", ts.name, err)
		}
		topics = append(topics, t)
		sum.Topics++
	}

	today := dates.Day(now, now.Location())
	for i := acc.days - 1; i >= 0; i-- {
		sample := acc.logFn(r)
		log := &internal.DailyLog{
			ID:             uuid.NewString(),
			UserID:         user.ID,
			TopicID:        topics[r.Intn(len(topics))].ID,
			Date:           today.AddDate(0, 0, -i),
			Energy:         sample.energy,
			ProblemsSolved: sample.problems,
			RevisionVolume: sample.revisions,
			TechUsed:       sample.techUsed,
			Notes:          sample.notes,
			ProblemURLs:    []string{},
			Stars:          sample.stars,
			IsPublic:       sample.public,
			CreatedAt:      now.UTC().Add(-time.Duration(i) * time.Minute),
		}
		if err := store.CreateLog(ctx, log); err != nil {
			return fmt.Errorf("seed: creating log: %w", err)
		}
		sum.Logs++
	}

	for _, sk := range acc.skills {
		skill := &internal.BackendSkill{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			Skill:         sk.skill,
			Practiced:     sk.practiced,
			UsedInProject: sk.usedInProject,
			Confidence:    sk.confidence,
			CreatedAt:     now.UTC(),
		}
		if err := store.CreateSkill(ctx, skill); err != nil {
			return fmt.Errorf("seed: creating skill %q: %w", sk.skill, err)
		}
		sum.Skills++
	}
	return nil
}
