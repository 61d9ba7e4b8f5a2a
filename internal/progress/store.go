// Package progress persists which portal problems are solved or failed,
// keyed by course and day.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"bytsbot/internal/logging"
)

const failedKey = "failed"

// tree is course -> day -> ordered unique problem ids.
type tree map[string]map[string][]string

// Stats counts recorded problems.
type Stats struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Store is the JSON progress file. Safe for concurrent use; every mutation
// is written through before returning.
type Store struct {
	mu        sync.Mutex
	path      string
	completed tree
	failed    tree
}

// Open loads path. A missing or unreadable file starts an empty store.
func Open(path string) *Store {
	s := &Store{path: path, completed: tree{}, failed: tree{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.ProgressWarn("could not read %s: %v (starting fresh)", path, err)
		}
		return s
	}
	if err := s.decode(data); err != nil {
		logging.ProgressWarn("could not parse %s: %v (starting fresh)", path, err)
		s.completed, s.failed = tree{}, tree{}
	}
	return s
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) decode(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for course, msg := range raw {
		var days map[string][]string
		if course == failedKey {
			var failed tree
			if err := json.Unmarshal(msg, &failed); err != nil {
				return fmt.Errorf("%s: %w", failedKey, err)
			}
			for c, d := range failed {
				if d != nil {
					s.failed[c] = d
				}
			}
			continue
		}
		if err := json.Unmarshal(msg, &days); err != nil {
			return fmt.Errorf("%s: %w", course, err)
		}
		if days == nil {
			days = map[string][]string{}
		}
		s.completed[course] = days
	}
	return nil
}

func (s *Store) encode() ([]byte, error) {
	out := make(map[string]any, len(s.completed)+1)
	for course, days := range s.completed {
		out[course] = days
	}
	out[failedKey] = s.failed
	return json.MarshalIndent(out, "", "  ")
}

// IsCompleted reports whether id was solved under course/day.
func (s *Store) IsCompleted(course, day, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.completed[course][day], id)
}

// Completed returns the solved ids for course/day in completion order.
func (s *Store) Completed(course, day string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.completed[course][day]...)
}

// Failed returns the failed ids for course/day.
func (s *Store) Failed(course, day string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.failed[course][day]...)
}

// IsDayComplete reports whether at least total problems are solved.
func (s *Store) IsDayComplete(course, day string, total int) bool {
	return len(s.Completed(course, day)) >= total
}

// MarkCompleted records id as solved and clears any failure for it.
func (s *Store) MarkCompleted(course, day, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[course] = add(s.completed[course], day, id)
	s.clearFailureLocked(course, day, id)
	if err := s.saveLocked(); err != nil {
		return err
	}
	logging.Progress("saved %s / %s / %s", course, day, id)
	return nil
}

// clearFailureLocked drops id from the failed tree, pruning emptied days
// and courses so no null or empty lists are written.
func (s *Store) clearFailureLocked(course, day, id string) {
	days, ok := s.failed[course]
	if !ok {
		return
	}
	ids, ok := days[day]
	if !ok {
		return
	}
	if ids = remove(ids, id); len(ids) > 0 {
		days[day] = ids
		return
	}
	delete(days, day)
	if len(days) == 0 {
		delete(s.failed, course)
	}
}

// MarkFailed records id as failed.
func (s *Store) MarkFailed(course, day, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[course] = add(s.failed[course], day, id)
	return s.saveLocked()
}

// Stats counts completed and failed problems across all courses.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Completed: count(s.completed), Failed: count(s.failed)}
}

// Courses returns the course keys with any record, sorted.
func (s *Store) Courses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]bool)
	for c := range s.completed {
		set[c] = true
	}
	for c := range s.failed {
		set[c] = true
	}
	return sortedKeys(set)
}

// Days returns the day keys recorded for course, sorted.
func (s *Store) Days(course string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]bool)
	for d := range s.completed[course] {
		set[d] = true
	}
	for d := range s.failed[course] {
		set[d] = true
	}
	return sortedKeys(set)
}

// saveLocked writes the file atomically. Caller holds mu.
func (s *Store) saveLocked() error {
	data, err := s.encode()
	if err != nil {
		return fmt.Errorf("progress: encode: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("progress: write %s: %w", s.path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

func add(days map[string][]string, day, id string) map[string][]string {
	if days == nil {
		days = make(map[string][]string)
	}
	if !contains(days[day], id) {
		days[day] = append(days[day], id)
	}
	return days
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func count(t tree) int {
	n := 0
	for _, days := range t {
		for _, ids := range days {
			n += len(ids)
		}
	}
	return n
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
