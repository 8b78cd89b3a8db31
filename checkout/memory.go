package checkout

import (
	"context"
	"strings"
	"sync"
)

// MemorySession is a [Session] kept in memory.
type MemorySession struct {
	mu   sync.Mutex
	vars map[string]string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{vars: map[string]string{}}
}

func (s *MemorySession) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vars[key]
}

func (s *MemorySession) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[key] = value
}

func (s *MemorySession) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, key)
}

// CountryTable is a static [Countries] lookup.
type CountryTable struct {
	// ByISO maps ISO 3166-1 alpha-2 codes to country IDs.
	ByISO map[string]string
	// States maps country IDs to state codes to state IDs.
	States map[string]map[string]string
}

func (t *CountryTable) CountryID(_ context.Context, iso string) (string, error) {
	return t.ByISO[strings.ToUpper(iso)], nil
}

func (t *CountryTable) StateID(_ context.Context, code, countryID string) (string, error) {
	return t.States[countryID][strings.ToUpper(code)], nil
}
