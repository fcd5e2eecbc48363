package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/devtrack/internal"
)

// FileStorage keeps every row in memory and snapshots them to a JSON file.
// With an empty data file it is a pure in-memory store.
type FileStorage struct {
	users     map[string]*internal.User         // id -> User
	topics    map[string]*internal.Topic        // id -> Topic
	logs      map[string]*internal.DailyLog     // id -> DailyLog
	skills    map[string]*internal.BackendSkill // id -> BackendSkill
	resources map[string]*internal.Resource     // id -> Resource
	mu        sync.RWMutex
	dataFile  string
	saveChan  chan struct{}
	shutdown  chan struct{}
	saveDelay time.Duration
	closeOnce sync.Once
	writeMu   sync.Mutex // serializes snapshot writes
	logger    internal.Logger
}

type snapshot struct {
	Users     []*internal.User         `json:"users"`
	Topics    []*internal.Topic        `json:"topics"`
	Logs      []*internal.DailyLog     `json:"logs"`
	Skills    []*internal.BackendSkill `json:"skills"`
	Resources []*internal.Resource     `json:"resources"`
}

func NewFileStorage(dataFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:     make(map[string]*internal.User),
		topics:    make(map[string]*internal.Topic),
		logs:      make(map[string]*internal.DailyLog),
		skills:    make(map[string]*internal.BackendSkill),
		resources: make(map[string]*internal.Resource),
		dataFile:  dataFile,
		saveChan:  make(chan struct{}, 1),
		shutdown:  make(chan struct{}),
		saveDelay: 500 * time.Millisecond,
		logger:    logger,
	}
	if dataFile == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(dataFile), 0o755); err != nil {
		logger.Errorf("storage: failed to create data dir for %s: %v", dataFile, err)
		return nil, err
	}
	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load %s: %v", dataFile, err)
		return nil, err
	}
	go s.saveWorker()
	return s, nil
}

// NewMemoryStorage returns a store that never touches disk.
func NewMemoryStorage(logger internal.Logger) *FileStorage {
	s, _ := NewFileStorage("", logger)
	return s
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var snap snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range snap.Users {
		s.users[u.ID] = u
	}
	for _, t := range snap.Topics {
		s.topics[t.ID] = t
	}
	for _, l := range snap.Logs {
		s.logs[l.ID] = l
	}
	for _, sk := range snap.Skills {
		s.skills[sk.ID] = sk
	}
	for _, r := range snap.Resources {
		s.resources[r.ID] = r
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	snap := snapshot{
		Users:     sortedValues(s.users, func(u *internal.User) time.Time { return u.CreatedAt }),
		Topics:    sortedValues(s.topics, func(t *internal.Topic) time.Time { return t.CreatedAt }),
		Logs:      sortedValues(s.logs, func(l *internal.DailyLog) time.Time { return l.CreatedAt }),
		Skills:    sortedValues(s.skills, func(sk *internal.BackendSkill) time.Time { return sk.CreatedAt }),
		Resources: sortedValues(s.resources, func(r *internal.Resource) time.Time { return r.CreatedAt }),
	}
	data, err := json.Marshal(snap)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.dataFile, json.RawMessage(data))
}

func sortedValues[T any](m map[string]*T, createdAt func(*T) time.Time) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return createdAt(out[i]).Before(createdAt(out[j])) })
	return out
}

// saveWorker batches snapshot writes to avoid frequent disk writes.
func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving snapshot: %v", err)
			}
		case <-s.shutdown:
			return
		}
	}
}

// changed signals the save worker (non-blocking). Callers hold the write lock.
func (s *FileStorage) changed() {
	if s.dataFile == "" {
		return
	}
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdown)
		if s.dataFile != "" {
			// Save pending data synchronously on shutdown
			err = s.save()
		}
	})
	return err
}

// --- UserRepository ---

func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return internal.ErrDuplicate
		}
	}
	u := *user
	s.users[u.ID] = &u
	s.changed()
	return nil
}

func (s *FileStorage) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *FileStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, internal.ErrNotFound
}

func (s *FileStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[user.ID]
	if !ok {
		return internal.ErrNotFound
	}
	u.Name = user.Name
	u.Bio = user.Bio
	u.AvatarURL = user.AvatarURL
	u.IsPublic = user.IsPublic
	s.changed()
	return nil
}

// --- TopicRepository ---

func (s *FileStorage) topicNameTaken(userID, name, exceptID string) bool {
	for _, t := range s.topics {
		if t.UserID == userID && t.Name == name && t.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *FileStorage) CreateTopic(ctx context.Context, topic *internal.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topicNameTaken(topic.UserID, topic.Name, "") {
		return internal.ErrDuplicate
	}
	t := *topic
	s.topics[t.ID] = &t
	s.changed()
	return nil
}

func (s *FileStorage) UpdateTopic(ctx context.Context, topic *internal.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.topics[topic.ID]
	if !ok || t.UserID != topic.UserID {
		return internal.ErrNotFound
	}
	if s.topicNameTaken(topic.UserID, topic.Name, topic.ID) {
		return internal.ErrDuplicate
	}
	t.Name = topic.Name
	t.Category = topic.Category
	s.changed()
	return nil
}

func (s *FileStorage) DeleteTopic(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.topics[id]
	if !ok || t.UserID != userID {
		return internal.ErrNotFound
	}
	delete(s.topics, id)
	for logID, l := range s.logs {
		if l.TopicID == id {
			delete(s.logs, logID)
		}
	}
	for _, r := range s.resources {
		if r.TopicID == id {
			r.TopicID = ""
		}
	}
	s.changed()
	return nil
}

func (s *FileStorage) GetTopic(ctx context.Context, userID, id string) (*internal.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[id]
	if !ok || t.UserID != userID {
		return nil, internal.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *FileStorage) ListTopics(ctx context.Context, userID string) ([]internal.TopicWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, l := range s.logs {
		if l.UserID == userID {
			counts[l.TopicID]++
		}
	}
	out := []internal.TopicWithCount{}
	for _, t := range s.topics {
		if t.UserID == userID {
			out = append(out, internal.TopicWithCount{Topic: *t, LogCount: counts[t.ID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *FileStorage) CountTopics(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.topics {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *FileStorage) TopicTotals(ctx context.Context, userID string) ([]internal.TopicTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var topics []*internal.Topic
	for _, t := range s.topics {
		if t.UserID == userID {
			topics = append(topics, t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].CreatedAt.Before(topics[j].CreatedAt) })

	out := make([]internal.TopicTotals, 0, len(topics))
	index := make(map[string]int, len(topics))
	for i, t := range topics {
		index[t.ID] = i
		out = append(out, internal.TopicTotals{ID: t.ID, Name: t.Name, Category: t.Category})
	}
	for _, l := range s.logs {
		if i, ok := index[l.TopicID]; ok && l.UserID == userID {
			out[i].TotalProblems += l.ProblemsSolved
			out[i].LogCount++
		}
	}
	return out, nil
}

// --- LogRepository ---

func cloneLog(l *internal.DailyLog) internal.DailyLog {
	out := *l
	out.ProblemURLs = append([]string{}, l.ProblemURLs...)
	return out
}

func (s *FileStorage) CreateLog(ctx context.Context, log *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := cloneLog(log)
	s.logs[l.ID] = &l
	s.changed()
	return nil
}

func (s *FileStorage) UpdateLog(ctx context.Context, log *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.logs[log.ID]
	if !ok || existing.UserID != log.UserID {
		return internal.ErrNotFound
	}
	log.CreatedAt = existing.CreatedAt
	l := cloneLog(log)
	s.logs[l.ID] = &l
	s.changed()
	return nil
}

func (s *FileStorage) DeleteLog(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok || l.UserID != userID {
		return internal.ErrNotFound
	}
	delete(s.logs, id)
	s.changed()
	return nil
}

func (q LogQuery) matches(l *internal.DailyLog) bool {
	if q.UserID != "" && l.UserID != q.UserID {
		return false
	}
	if q.TopicID != "" && l.TopicID != q.TopicID {
		return false
	}
	if !q.Since.IsZero() && l.Date.Before(q.Since) {
		return false
	}
	if !q.Before.IsZero() && !l.Date.Before(q.Before) {
		return false
	}
	if q.PublicOnly && !l.IsPublic {
		return false
	}
	return true
}

func (s *FileStorage) topicRef(id string) internal.TopicRef {
	if t, ok := s.topics[id]; ok {
		return internal.TopicRef{ID: t.ID, Name: t.Name, Category: t.Category}
	}
	return internal.TopicRef{ID: id}
}

func (s *FileStorage) ListLogs(ctx context.Context, q LogQuery) ([]internal.LogWithTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.LogWithTopic{}
	for _, l := range s.logs {
		if q.matches(l) {
			out = append(out, internal.LogWithTopic{DailyLog: cloneLog(l), Topic: s.topicRef(l.TopicID)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *FileStorage) SumLogs(ctx context.Context, q LogQuery) (internal.LogTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var totals internal.LogTotals
	for _, l := range s.logs {
		if q.matches(l) {
			totals.Problems += l.ProblemsSolved
			totals.Revisions += l.RevisionVolume
			totals.Stars += l.Stars
			totals.Count++
		}
	}
	return totals, nil
}

func (s *FileStorage) publicLogs() []*internal.DailyLog {
	var out []*internal.DailyLog
	for _, l := range s.logs {
		if !l.IsPublic {
			continue
		}
		if u, ok := s.users[l.UserID]; ok && u.IsPublic {
			out = append(out, l)
		}
	}
	return out
}

func (s *FileStorage) ListPublicLogs(ctx context.Context, offset, limit int) ([]internal.FeedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := s.publicLogs()
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].ID > logs[j].ID
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})

	out := []internal.FeedEntry{}
	if offset >= len(logs) {
		return out, nil
	}
	logs = logs[offset:]
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	for _, l := range logs {
		u := s.users[l.UserID]
		t := s.topicRef(l.TopicID)
		out = append(out, internal.FeedEntry{
			DailyLog: cloneLog(l),
			User:     internal.UserRef{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL},
			Topic:    internal.TopicRef{Name: t.Name, Category: t.Category},
		})
	}
	return out, nil
}

func (s *FileStorage) CountPublicLogs(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.publicLogs()), nil
}

// --- SkillRepository ---

func (s *FileStorage) skillTaken(userID, name, exceptID string) bool {
	for _, sk := range s.skills {
		if sk.UserID == userID && sk.Skill == name && sk.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *FileStorage) CreateSkill(ctx context.Context, skill *internal.BackendSkill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skillTaken(skill.UserID, skill.Skill, "") {
		return internal.ErrDuplicate
	}
	sk := *skill
	s.skills[sk.ID] = &sk
	s.changed()
	return nil
}

func (s *FileStorage) UpdateSkill(ctx context.Context, skill *internal.BackendSkill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[skill.ID]
	if !ok || sk.UserID != skill.UserID {
		return internal.ErrNotFound
	}
	if s.skillTaken(skill.UserID, skill.Skill, skill.ID) {
		return internal.ErrDuplicate
	}
	sk.Skill = skill.Skill
	sk.Practiced = skill.Practiced
	sk.UsedInProject = skill.UsedInProject
	sk.Confidence = skill.Confidence
	s.changed()
	return nil
}

func (s *FileStorage) DeleteSkill(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[id]
	if !ok || sk.UserID != userID {
		return internal.ErrNotFound
	}
	delete(s.skills, id)
	s.changed()
	return nil
}

func (s *FileStorage) userSkills(userID string) []internal.BackendSkill {
	out := []internal.BackendSkill{}
	for _, sk := range s.skills {
		if sk.UserID == userID {
			out = append(out, *sk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *FileStorage) ListSkills(ctx context.Context, userID string) ([]internal.BackendSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userSkills(userID), nil
}

func (s *FileStorage) ListSkillsBelow(ctx context.Context, userID string, below, limit int) ([]internal.BackendSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.BackendSkill{}
	for _, sk := range s.userSkills(userID) {
		if sk.Confidence >= below {
			continue
		}
		out = append(out, sk)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- ResourceRepository ---

func (s *FileStorage) CreateResource(ctx context.Context, res *internal.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *res
	s.resources[r.ID] = &r
	s.changed()
	return nil
}

func (s *FileStorage) DeleteResource(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok || r.UserID != userID {
		return internal.ErrNotFound
	}
	delete(s.resources, id)
	s.changed()
	return nil
}

func (s *FileStorage) ListPublicResources(ctx context.Context, topicID string, limit int) ([]internal.ResourceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.ResourceEntry{}
	for _, r := range s.resources {
		if !r.IsPublic || (topicID != "" && r.TopicID != topicID) {
			continue
		}
		entry := internal.ResourceEntry{Resource: *r}
		if u, ok := s.users[r.UserID]; ok {
			entry.User = &internal.UserRef{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
		}
		if t, ok := s.topics[r.TopicID]; ok {
			entry.Topic = &internal.TopicRef{Name: t.Name, Category: t.Category}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Upvotes != out[j].Upvotes {
			return out[i].Upvotes > out[j].Upvotes
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileStorage) ListUserResources(ctx context.Context, userID string) ([]internal.ResourceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.ResourceEntry{}
	for _, r := range s.resources {
		if r.UserID != userID {
			continue
		}
		entry := internal.ResourceEntry{Resource: *r}
		if t, ok := s.topics[r.TopicID]; ok {
			entry.Topic = &internal.TopicRef{Name: t.Name, Category: t.Category}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *FileStorage) UpvoteResource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return internal.ErrNotFound
	}
	r.Upvotes++
	s.changed()
	return nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
