package queue

import (
	"sort"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// UpdateState состояние оптимистичного обновления поста
type UpdateState int

const (
	UpdateClean UpdateState = iota
	UpdatePending
	UpdateCommitted
	UpdateRolledBack
)

func (s UpdateState) String() string {
	switch s {
	case UpdatePending:
		return "pending"
	case UpdateCommitted:
		return "committed"
	case UpdateRolledBack:
		return "rolled_back"
	default:
		return "clean"
	}
}

// UpdateID идентификатор одной оптимистичной операции
type UpdateID uint64

type pendingOp struct {
	id     UpdateID
	patch  model.PostPatch
	remove bool
}

type trackedPost struct {
	state     UpdateState
	committed *model.ScheduledPost // последнее подтверждённое значение, nil - поста нет
	ops       []pendingOp          // незавершённые операции в порядке применения
}

// Tracker учёт оптимистичных обновлений по id поста.
// Пост остаётся Pending, пока не завершится последняя операция над ним.
// Не потокобезопасен, защищается владельцем (PostCache).
type Tracker struct {
	posts map[string]*trackedPost
	seq   UpdateID
}

// NewTracker создаёт пустой трекер
func NewTracker() *Tracker {
	return &Tracker{posts: make(map[string]*trackedPost)}
}

// Begin регистрирует операцию над постом. prior - текущее значение поста,
// оно становится подтверждённым, если других операций над постом нет.
func (t *Tracker) Begin(postID string, prior *model.ScheduledPost, patch model.PostPatch) UpdateID {
	return t.begin(postID, prior, pendingOp{patch: patch})
}

// BeginRemove регистрирует удаление поста
func (t *Tracker) BeginRemove(postID string, prior *model.ScheduledPost) UpdateID {
	return t.begin(postID, prior, pendingOp{remove: true})
}

func (t *Tracker) begin(postID string, prior *model.ScheduledPost, op pendingOp) UpdateID {
	tp, ok := t.posts[postID]
	if !ok || len(tp.ops) == 0 {
		tp = &trackedPost{committed: clonePost(prior)}
		t.posts[postID] = tp
	}
	t.seq++
	op.id = t.seq
	tp.ops = append(tp.ops, op)
	tp.state = UpdatePending
	return op.id
}

// Commit подтверждает операцию: её результат становится подтверждённым
// значением. Возвращает актуальное значение поста с учётом остальных операций.
func (t *Tracker) Commit(postID string, id UpdateID) (*model.ScheduledPost, bool) {
	tp, op, ok := t.take(postID, id)
	if !ok {
		return nil, false
	}
	tp.committed = applyOp(tp.committed, op)
	if len(tp.ops) == 0 {
		tp.state = UpdateCommitted
	}
	return tp.current(), true
}

// Rollback отменяет операцию. Возвращает значение поста: подтверждённое
// значение с применёнными оставшимися операциями.
func (t *Tracker) Rollback(postID string, id UpdateID) (*model.ScheduledPost, bool) {
	tp, _, ok := t.take(postID, id)
	if !ok {
		return nil, false
	}
	if len(tp.ops) == 0 {
		tp.state = UpdateRolledBack
	}
	return tp.current(), true
}

// RollbackPost отменяет все незавершённые операции над постом
func (t *Tracker) RollbackPost(postID string) (*model.ScheduledPost, bool) {
	tp, ok := t.posts[postID]
	if !ok || len(tp.ops) == 0 {
		return nil, false
	}
	tp.ops = nil
	tp.state = UpdateRolledBack
	return clonePost(tp.committed), true
}

func (t *Tracker) take(postID string, id UpdateID) (*trackedPost, pendingOp, bool) {
	tp, ok := t.posts[postID]
	if !ok {
		return nil, pendingOp{}, false
	}
	for i, op := range tp.ops {
		if op.id == id {
			tp.ops = append(tp.ops[:i:i], tp.ops[i+1:]...)
			return tp, op, true
		}
	}
	return nil, pendingOp{}, false
}

// State текущее состояние поста
func (t *Tracker) State(postID string) UpdateState {
	if tp, ok := t.posts[postID]; ok {
		return tp.state
	}
	return UpdateClean
}

// Pending есть ли у поста незавершённые операции
func (t *Tracker) Pending(postID string) bool {
	return t.InFlight(postID) > 0
}

// InFlight число незавершённых операций над постом
func (t *Tracker) InFlight(postID string) int {
	if tp, ok := t.posts[postID]; ok {
		return len(tp.ops)
	}
	return 0
}

// PendingIDs отсортированные id ожидающих постов
func (t *Tracker) PendingIDs() []string {
	var ids []string
	for id, tp := range t.posts {
		if len(tp.ops) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (tp *trackedPost) current() *model.ScheduledPost {
	v := clonePost(tp.committed)
	for _, op := range tp.ops {
		v = applyOp(v, op)
	}
	return v
}

func applyOp(post *model.ScheduledPost, op pendingOp) *model.ScheduledPost {
	if op.remove || post == nil {
		return nil
	}
	p := op.patch.Apply(*post)
	return &p
}

func clonePost(p *model.ScheduledPost) *model.ScheduledPost {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}
