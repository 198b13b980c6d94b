// Package cache хранилище клиентского кэша с явным графом инвалидации.
// Используется координатором оптимистичных мутаций: порядок инвалидации
// зависимых ключей - проверяемое свойство, а не побочный эффект порядка вызовов.
package cache

import "sync"

// Key ключ кэша. Ключи зависимых от членства выборок включают хэш набора окон,
// чтобы смена состава команды меняла раздел кэша.
type Key string

type entry struct {
	value      interface{}
	hasValue   bool
	stale      bool
	generation uint64
}

// SnapshotEntry состояние одного ключа на момент снимка
type SnapshotEntry struct {
	Value   interface{}
	Present bool
	Stale   bool
}

// Snapshot снимок состояния набора ключей.
// Restore возвращает ключи ровно в это состояние, включая отсутствие значения.
type Snapshot map[Key]SnapshotEntry

// RefetchToken токен перечитывания значения ключа.
// Завершение перечитывания с устаревшим токеном отбрасывается: оптимистичная
// запись, случившаяся позже начала перечитывания, не должна быть затёрта
// устаревшим ответом.
type RefetchToken struct {
	key        Key
	generation uint64
}

// Store потокобезопасное in-memory хранилище кэша
type Store struct {
	mu         sync.RWMutex
	entries    map[Key]*entry
	dependents map[Key][]Key
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		entries:    make(map[Key]*entry),
		dependents: make(map[Key][]Key),
	}
}

// Get возвращает значение ключа и признак его наличия
func (s *Store) Get(key Key) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// IsStale возвращает true, если значение ключа помечено устаревшим
// (или отсутствует вовсе)
func (s *Store) IsStale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return !ok || !e.hasValue || e.stale
}

// Set записывает свежее значение ключа
func (s *Store) Set(key Key, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	e.value = value
	e.hasValue = true
	e.stale = false
	e.generation++
}

// Delete убирает значение ключа
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = nil
		e.hasValue = false
		e.stale = false
		e.generation++
	}
}

// Link объявляет ребро графа инвалидации: при инвалидации parent
// инвалидируется и dependent (транзитивно)
func (s *Store) Link(parent, dependent Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.dependents[parent] {
		if existing == dependent {
			return
		}
	}
	s.dependents[parent] = append(s.dependents[parent], dependent)
}

// Dependents возвращает прямых зависимых ключа в графе инвалидации
func (s *Store) Dependents(parent Key) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deps := make([]Key, len(s.dependents[parent]))
	copy(deps, s.dependents[parent])
	return deps
}

// Snapshot делает снимок текущего состояния перечисленных ключей
func (s *Store) Snapshot(keys ...Key) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, len(keys))
	for _, key := range keys {
		if e, ok := s.entries[key]; ok && e.hasValue {
			snap[key] = SnapshotEntry{Value: e.value, Present: true, Stale: e.stale}
		} else {
			snap[key] = SnapshotEntry{Present: false}
		}
	}
	return snap
}

// Restore возвращает все ключи снимка ровно в состояние на момент снимка.
// Откат всегда применяется ко всем ключам снимка сразу: частичный откат,
// чинящий одну выборку и оставляющий устаревшей другую, считается багом.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, se := range snap {
		e := s.ensure(key)
		e.value = se.Value
		e.hasValue = se.Present
		e.stale = se.Stale
		e.generation++
	}
}

// Invalidate помечает ключи устаревшими и каскадно инвалидирует зависимые.
// Поколение ключа растёт, так что начатые перечитывания отменяются.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visited := make(map[Key]bool)
	var walk func(key Key)
	walk = func(key Key) {
		if visited[key] {
			return
		}
		visited[key] = true

		e := s.ensure(key)
		e.stale = true
		e.generation++

		for _, dep := range s.dependents[key] {
			walk(dep)
		}
	}

	for _, key := range keys {
		walk(key)
	}
}

// CancelRefetch отменяет все начатые перечитывания ключей, не меняя значений
func (s *Store) CancelRefetch(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.ensure(key).generation++
	}
}

// BeginRefetch начинает перечитывание значения ключа
func (s *Store) BeginRefetch(key Key) RefetchToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var gen uint64
	if e, ok := s.entries[key]; ok {
		gen = e.generation
	}
	return RefetchToken{key: key, generation: gen}
}

// CompleteRefetch записывает результат перечитывания.
// Возвращает false, если ключ изменился после BeginRefetch - тогда результат
// отброшен и значением кэша остаётся более свежая запись.
func (s *Store) CompleteRefetch(token RefetchToken, value interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(token.key)
	if e.generation != token.generation {
		return false
	}

	e.value = value
	e.hasValue = true
	e.stale = false
	e.generation++
	return true
}

// ensure возвращает entry ключа, создавая её при необходимости.
// Вызывается только под write-lock.
func (s *Store) ensure(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}
