package domain

import (
	"context"
	"encoding/json"
	"sort"
)

// Set - множество строк, в JSON хранится как массив.
type Set map[string]struct{}

// NewSet создает множество из перечисленных значений.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has проверяет наличие значения в множестве.
func (s Set) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Values возвращает отсортированные значения множества.
func (s Set) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewSet(values...)
	return nil
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// Project описывает проект Gerrit: область запроса и состав core-команды.
type Project struct {
	Name        string   `json:"name"`
	Subprojects []string `json:"subprojects"`
	CoreTeam    Set      `json:"core-team"`
	Unofficial  bool     `json:"unofficial,omitempty"`
}

// IsCoreMember проверяет, входит ли пользователь в core-команду проекта.
func (p *Project) IsCoreMember(username string) bool {
	return p.CoreTeam.Has(username)
}

// ProjectSelector задает, какие описания проектов загружать.
type ProjectSelector struct {
	// Path - путь к JSON-файлу одного проекта.
	Path string
	// All - загрузить все официальные проекты из каталога.
	All bool
}

// ProjectRegistry определяет контракт для загрузки описаний проектов.
type ProjectRegistry interface {
	GetProjectsInfo(ctx context.Context, selector ProjectSelector) ([]*Project, error)
}
